package prensa

import (
	"context"
	"time"
)

// Clock abstracts wall-clock time so scheduling and visibility rules
// can be tested deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Repository defines persistence for every entity kind. Ids are
// assigned at insertion time from a strictly increasing per-entity
// counter starting at 1 and are never reused; Add methods write the
// assigned id back into the entity, so callers must not pre-set ids.
type Repository interface {
	// User operations
	AddUser(ctx context.Context, user *User) (int64, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	// Site operations
	AddSite(ctx context.Context, site *Site) (int64, error)
	GetSite(ctx context.Context, id int64) (*Site, error)
	UpdateSite(ctx context.Context, site *Site) error
	ListSites(ctx context.Context) ([]*Site, error)
	ListSitesByOwner(ctx context.Context, ownerID int64) ([]*Site, error)

	// Permission operations. Granting is an idempotent upsert keyed by
	// the (user, site) pair.
	GrantPermission(ctx context.Context, userID, siteID int64) error
	HasPermission(ctx context.Context, userID, siteID int64) (bool, error)
	SiteManagerIDs(ctx context.Context, siteID int64) ([]int64, error)

	// Post operations. ListVisiblePosts evaluates visibility at read
	// time, so two calls may differ as the clock advances.
	AddPost(ctx context.Context, post *Post) (int64, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	ListVisiblePosts(ctx context.Context, siteID int64) ([]*Post, error)

	// Comment operations
	AddComment(ctx context.Context, comment *Comment) (int64, error)
	ListPostComments(ctx context.Context, postID int64) ([]*Comment, error)

	// Media operations. RemoveMedia is idempotent: removing an absent
	// id is a no-op, not an error.
	AddMedia(ctx context.Context, media *Media) (int64, error)
	GetMedia(ctx context.Context, id int64) (*Media, error)
	ListSiteMedia(ctx context.Context, siteID int64) ([]*Media, error)
	RemoveMedia(ctx context.Context, id int64) error

	// Analytics operations. Entries are append-only.
	LogEntry(ctx context.Context, entry Entry) (int64, error)
	RecentEntries(ctx context.Context, limit int) ([]Entry, error)
	CountSiteActions(ctx context.Context, siteID int64, action SiteAction) (int, error)
	CountPostActions(ctx context.Context, postID int64, action PostAction) (int, error)
	CountSitePostActions(ctx context.Context, siteID int64, action PostAction) (int, error)
}
