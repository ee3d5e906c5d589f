package prensa

import (
	"fmt"
	"time"
)

// SiteAction is a user action recorded against a site.
type SiteAction string

// Site action constants (typed).
const (
	SiteAccess      SiteAction = "access"
	SiteCreatePost  SiteAction = "create_post"
	SiteUploadMedia SiteAction = "upload_media"
)

// PostAction is a user action recorded against a post.
type PostAction string

// Post action constants (typed).
const (
	PostView    PostAction = "view"
	PostComment PostAction = "comment"
	PostShare   PostAction = "share"
)

// EntryMeta carries the fields shared by every analytics entry. The
// id is assigned by the repository at log time.
type EntryMeta struct {
	ID        int64             `json:"id"`
	ActorID   int64             `json:"actor_id"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Entry is an immutable record of one user action against a site or a
// post. The implementation set is closed: SiteEntry and PostEntry.
// Entries are never mutated or deleted after logging.
type Entry interface {
	Meta() *EntryMeta
	isEntry()
}

// SiteEntry records a site-level action.
type SiteEntry struct {
	EntryMeta
	SiteID int64      `json:"site_id"`
	Action SiteAction `json:"action"`
}

func (e *SiteEntry) Meta() *EntryMeta { return &e.EntryMeta }
func (*SiteEntry) isEntry()           {}

// PostEntry records a post-level action. SiteID is carried explicitly
// rather than derived from the post, because entries are logged
// independently of post mutation and must survive it.
type PostEntry struct {
	EntryMeta
	SiteID int64      `json:"site_id"`
	PostID int64      `json:"post_id"`
	Action PostAction `json:"action"`
}

func (e *PostEntry) Meta() *EntryMeta { return &e.EntryMeta }
func (*PostEntry) isEntry()           {}

// EntrySummary renders one log line for an entry. The type switch is
// exhaustive over the closed Entry set.
func EntrySummary(e Entry) string {
	meta := e.Meta()
	stamp := meta.CreatedAt.Format(time.DateTime)
	switch entry := e.(type) {
	case *SiteEntry:
		return fmt.Sprintf("site %d - actor %d@%s - %s", entry.SiteID, meta.ActorID, stamp, entry.Action)
	case *PostEntry:
		return fmt.Sprintf("site %d post %d - actor %d@%s - %s", entry.SiteID, entry.PostID, meta.ActorID, stamp, entry.Action)
	default:
		return fmt.Sprintf("entry %d - actor %d@%s", meta.ID, meta.ActorID, stamp)
	}
}
