package prensa

import "context"

// Service defines the main interface for the prensa content library.
type Service interface {
	// User operations
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error)
	Login(ctx context.Context, username, password string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	// Site operations
	CreateSite(ctx context.Context, req CreateSiteRequest) (*Site, error)
	GetSite(ctx context.Context, id int64) (*Site, error)
	ListSites(ctx context.Context) ([]*Site, error)
	ListUserSites(ctx context.Context, ownerID int64) ([]*Site, error)
	UpdateSiteTemplate(ctx context.Context, siteID int64, template SiteTemplate) error
	AccessSite(ctx context.Context, userID, siteID int64) (*Site, error)

	// Permission operations
	GrantManager(ctx context.Context, req GrantManagerRequest) error
	HasPermission(ctx context.Context, userID, siteID int64) (bool, error)
	UsersWithoutPermission(ctx context.Context, siteID int64) ([]*User, error)

	// Post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	ViewPost(ctx context.Context, userID, postID int64) (*Post, error)
	PostContent(ctx context.Context, postID int64, languageCode string) (Content, error)
	ListSitePosts(ctx context.Context, siteID int64) ([]*Post, error)
	ArrangePosts(ctx context.Context, siteID int64) ([]*Post, error)
	TranslatePost(ctx context.Context, req TranslatePostRequest) (*TranslationResult, error)
	MissingLanguages(ctx context.Context, postID int64) ([]Language, error)

	// Comment operations
	AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error)
	ListPostComments(ctx context.Context, postID int64) ([]*Comment, error)

	// Media operations
	ImportMedia(ctx context.Context, req ImportMediaRequest) (*Media, error)
	ListSiteMedia(ctx context.Context, siteID int64) ([]*Media, error)
	DeleteMedia(ctx context.Context, userID, mediaID int64) error

	// Sharing operations
	SuggestShare(ctx context.Context, postID int64, languageCode string) (string, error)
	SharePost(ctx context.Context, req SharePostRequest) (string, error)

	// Analytics operations. Post counters are restricted to the site's
	// managers.
	SiteStats(ctx context.Context, siteID int64) (*SiteStats, error)
	PostStats(ctx context.Context, userID, postID int64) (*PostStats, error)
	RecentLogs(ctx context.Context, limit int) ([]Entry, error)

	// Languages returns the supported language directory in menu order.
	Languages() []Language
}
