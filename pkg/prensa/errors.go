package prensa

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrSiteNotFound indicates a site was not found
	ErrSiteNotFound = errors.New("site not found")

	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound indicates a comment was not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrMediaNotFound indicates a media library entry was not found
	ErrMediaNotFound = errors.New("media not found")

	// ErrLanguageNotFound indicates no supported language matches a code
	ErrLanguageNotFound = errors.New("language not found")

	// ErrInvalidCredentials covers both unknown username and wrong
	// password, deliberately indistinguishable to the caller
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnsupportedMediaType indicates a file extension not recognized
	// as image or video
	ErrUnsupportedMediaType = errors.New("unsupported media file type")

	// ErrPermissionDenied indicates the user holds no management grant
	// for the site
	ErrPermissionDenied = errors.New("no permission on this site")

	// ErrNoLanguage indicates a post operation without a language code
	ErrNoLanguage = errors.New("post language not provided")

	// ErrTranslationExists indicates the post already has content for
	// the target language and overwrite was not requested
	ErrTranslationExists = errors.New("translation already exists")

	// ErrInvalidInput indicates a malformed or empty required field
	ErrInvalidInput = errors.New("invalid input")
)

// PostError represents an error related to post operations
type PostError struct {
	PostID int64
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %d: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// SiteError represents an error related to site operations
type SiteError struct {
	SiteID int64
	Op     string
	Err    error
}

func (e *SiteError) Error() string {
	return fmt.Sprintf("site operation %s failed for site %d: %v", e.Op, e.SiteID, e.Err)
}

func (e *SiteError) Unwrap() error {
	return e.Err
}
