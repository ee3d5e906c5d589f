package prensa

import (
	"fmt"
	"strings"
	"time"
)

// SocialNetwork identifies a sharing destination. Sharing only formats
// a suggested message; nothing is posted anywhere.
type SocialNetwork string

// Social network constants (typed).
const (
	NetworkTwitter   SocialNetwork = "Twitter"
	NetworkFacebook  SocialNetwork = "Facebook"
	NetworkInstagram SocialNetwork = "Instagram"
	NetworkLinkedIn  SocialNetwork = "LinkedIn"
)

// SocialNetworks returns the supported networks in presentation order.
func SocialNetworks() []SocialNetwork {
	return []SocialNetwork{NetworkTwitter, NetworkFacebook, NetworkInstagram, NetworkLinkedIn}
}

// IsValid reports whether the network is a known destination.
func (n SocialNetwork) IsValid() bool {
	switch n {
	case NetworkTwitter, NetworkFacebook, NetworkInstagram, NetworkLinkedIn:
		return true
	}
	return false
}

// socialExcerptLimit caps the excerpt taken from the first text block.
const socialExcerptLimit = 100

// SocialMessage formats a post for sharing on a social network: a
// `[code] title` header, the poster handle with the creation time, an
// excerpt of the first text block truncated at the excerpt limit, and
// a link back to the site.
func SocialMessage(post *Post, content Content, poster *User, site *Site) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", content.Language.Code, content.Title)
	fmt.Fprintf(&b, "%s@%s\n", poster.Username, post.CreatedAt.Format(time.DateTime))
	b.WriteString("\n")

	if text, ok := content.FirstText(); ok {
		markup := RenderBlock(text)
		if len(markup) > socialExcerptLimit {
			b.WriteString(markup[:socialExcerptLimit])
			b.WriteString("...\n")
		} else {
			b.WriteString(markup)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Read the full post at: %s\n", site.URL())
	return b.String()
}
