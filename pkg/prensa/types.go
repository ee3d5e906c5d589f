package prensa

import (
	"fmt"
	"strings"
	"time"
)

// UserRole is the domain type for user roles.
type UserRole string

// User role constants (typed).
const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// SiteTemplate selects how a site arranges its visible posts.
type SiteTemplate string

// Site template constants (typed).
const (
	TemplateLatestPosts  SiteTemplate = "latest_posts"
	TemplateTopViewed    SiteTemplate = "top_viewed"
	TemplateTopCommented SiteTemplate = "top_commented"
	TemplateMediaGallery SiteTemplate = "media_gallery"
)

// IsValid reports whether the template is one of the known layouts.
func (t SiteTemplate) IsValid() bool {
	switch t {
	case TemplateLatestPosts, TemplateTopViewed, TemplateTopCommented, TemplateMediaGallery:
		return true
	}
	return false
}

// SiteTemplates returns the known templates in presentation order.
func SiteTemplates() []SiteTemplate {
	return []SiteTemplate{
		TemplateLatestPosts,
		TemplateTopViewed,
		TemplateTopCommented,
		TemplateMediaGallery,
	}
}

// User represents a registered account. PasswordHash holds a bcrypt
// digest; the clear-text password is never stored.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName returns the display name for profile views.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Site is an owned publishing destination grouping posts and media
// under one name and template.
type Site struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Template    SiteTemplate `json:"template"`
	CreatedAt   time.Time    `json:"created_at"`
}

// URL derives the site's canonical address from its name.
func (s *Site) URL() string {
	slug := strings.ToLower(strings.ReplaceAll(s.Name, " ", "-"))
	return fmt.Sprintf("www.prensa.%s.com.br", slug)
}

// Permission grants a user management rights over a site. Existence of
// the (user, site) pair is the grant; there is no revoke operation.
type Permission struct {
	UserID    int64     `json:"user_id"`
	SiteID    int64     `json:"site_id"`
	GrantedAt time.Time `json:"granted_at"`
}

// Comment belongs to exactly one post and one commenter. Body and
// timestamp are immutable after creation.
type Comment struct {
	ID          int64     `json:"id"`
	PostID      int64     `json:"post_id"`
	CommenterID int64     `json:"commenter_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// SiteStats aggregates analytics counters for one site.
type SiteStats struct {
	Accesses     int `json:"accesses"`
	PostsCreated int `json:"posts_created"`
	MediaUploads int `json:"media_uploads"`
	PostViews    int `json:"post_views"`
	PostComments int `json:"post_comments"`
	PostShares   int `json:"post_shares"`
}

// PostStats aggregates analytics counters for one post.
type PostStats struct {
	Views    int `json:"views"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}
