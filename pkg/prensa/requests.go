package prensa

import "time"

// Request/Response DTOs

// RegisterUserRequest contains parameters for registering a user.
type RegisterUserRequest struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
	Role      UserRole
}

// CreateSiteRequest contains parameters for creating a site.
type CreateSiteRequest struct {
	OwnerID     int64
	Name        string
	Description string
	Template    SiteTemplate
}

// BlockKind discriminates authoring block inputs.
type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockMedia BlockKind = "media"
)

// BlockInput is one authoring step. Order is assigned by the service
// in submission sequence.
type BlockInput struct {
	Kind    BlockKind
	Text    string
	MediaID int64
	Alt     string
}

// CreatePostRequest contains parameters for authoring a post under a
// single initial language. A nil ScheduledTo publishes immediately.
type CreatePostRequest struct {
	SiteID       int64
	PosterID     int64
	LanguageCode string
	Title        string
	Blocks       []BlockInput
	ScheduledTo  *time.Time
}

// BlockTranslation replaces the translatable strings of one source
// block: Text for text blocks, Alt for media blocks.
type BlockTranslation struct {
	Text string
	Alt  string
}

// TranslatePostRequest contains parameters for translating a post into
// a target language. The requester must manage the post's site. Blocks
// is keyed by the source block order; blocks with no supplied
// translation keep their original strings.
type TranslatePostRequest struct {
	PostID      int64
	RequesterID int64
	TargetCode  string
	Title       string
	Blocks      map[int]BlockTranslation
	Overwrite   bool
}

// TranslationResult reports the outcome of a translation. Skipped
// lists the orders of source blocks with no translatable form
// (carousels), which are omitted rather than failing the operation.
type TranslationResult struct {
	Language Language
	Skipped  []int
}

// ImportMediaRequest contains parameters for importing a media file
// into a site library by filesystem path.
type ImportMediaRequest struct {
	SiteID     int64
	UploaderID int64
	Path       string
}

// AddCommentRequest contains parameters for commenting on a post.
type AddCommentRequest struct {
	PostID      int64
	CommenterID int64
	Body        string
}

// GrantManagerRequest contains parameters for granting site management
// rights. GrantedBy must be the site owner.
type GrantManagerRequest struct {
	SiteID    int64
	GrantedBy int64
	UserID    int64
}

// SharePostRequest contains parameters for sharing a post. An empty
// LanguageCode picks the post's default language.
type SharePostRequest struct {
	PostID       int64
	UserID       int64
	LanguageCode string
	Networks     []SocialNetwork
}
