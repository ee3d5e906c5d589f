package prensa

import (
	"slices"
	"time"
)

// NoTitlePlaceholder is shown for posts that carry no content at all.
const NoTitlePlaceholder = "(no title was provided for this post)"

// Post aggregates one Content per language code plus scheduling
// metadata. Contents is keyed by the canonical code of each language;
// at least one entry is expected, but an empty map is representable
// and degrades to placeholder output instead of failing.
type Post struct {
	ID              int64              `json:"id"`
	PosterID        int64              `json:"poster_id"`
	SiteID          int64              `json:"site_id"`
	Contents        map[string]Content `json:"contents"`
	DefaultLanguage Language           `json:"default_language"`
	ScheduledTo     time.Time          `json:"scheduled_to"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Visible reports whether the post is published at the given instant:
// a post is visible iff its schedule time is not in the future.
func (p *Post) Visible(now time.Time) bool {
	return !p.ScheduledTo.After(now)
}

// ContentFor returns the content stored under the language's canonical
// code.
func (p *Post) ContentFor(lang Language) (Content, bool) {
	c, ok := p.Contents[lang.Code]
	return c, ok
}

// DefaultContent returns the content for the post's default language.
func (p *Post) DefaultContent() (Content, bool) {
	return p.ContentFor(p.DefaultLanguage)
}

// DefaultTitle returns the default-language title, or a placeholder
// when the post has no content for it.
func (p *Post) DefaultTitle() string {
	if c, ok := p.DefaultContent(); ok {
		return c.Title
	}
	return NoTitlePlaceholder
}

// HasLanguage reports whether content exists under the given canonical
// code.
func (p *Post) HasLanguage(code string) bool {
	_, ok := p.Contents[code]
	return ok
}

// Languages lists the languages the post has content for. Codes are
// sorted so callers get a stable presentation order.
func (p *Post) Languages() []Language {
	codes := make([]string, 0, len(p.Contents))
	for code := range p.Contents {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	langs := make([]Language, 0, len(codes))
	for _, code := range codes {
		langs = append(langs, p.Contents[code].Language)
	}
	return langs
}
