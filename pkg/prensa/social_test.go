package prensa_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

func TestSocialMessage(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	poster := &prensa.User{Username: "joana"}
	site := &prensa.Site{Name: "Meu blog"}
	lang := prensa.Language{Code: "pt-br"}

	post := &prensa.Post{CreatedAt: created}
	content := prensa.Content{
		Title:    "Primeira viagem",
		Language: lang,
		Blocks: []prensa.Block{
			&prensa.TextBlock{Order: 1, Text: "Saímos cedo."},
		},
	}

	message := prensa.SocialMessage(post, content, poster, site)

	want := "[pt-br] Primeira viagem\n" +
		"joana@2025-03-10 09:30:00\n" +
		"\n" +
		"<p>Saímos cedo.</p>\n" +
		"\n" +
		"Read the full post at: www.prensa.meu-blog.com.br\n"
	assert.Equal(t, want, message)
}

func TestSocialMessageTruncatesLongExcerpt(t *testing.T) {
	poster := &prensa.User{Username: "joana"}
	site := &prensa.Site{Name: "Meu blog"}
	content := prensa.Content{
		Title:    "Longo",
		Language: prensa.Language{Code: "pt-br"},
		Blocks: []prensa.Block{
			&prensa.TextBlock{Order: 1, Text: strings.Repeat("a", 200)},
		},
	}

	message := prensa.SocialMessage(&prensa.Post{}, content, poster, site)

	lines := strings.Split(message, "\n")
	excerpt := lines[3]
	assert.True(t, strings.HasSuffix(excerpt, "..."))
	assert.Len(t, excerpt, 103, "100 characters of markup plus the ellipsis")
}

func TestSocialMessageWithoutTextBlock(t *testing.T) {
	poster := &prensa.User{Username: "joana"}
	site := &prensa.Site{Name: "Meu blog"}
	content := prensa.Content{
		Title:    "Só fotos",
		Language: prensa.Language{Code: "pt-br"},
		Blocks: []prensa.Block{
			&prensa.MediaBlock{Order: 1, Filename: "a.jpg", Kind: prensa.MediaImage},
		},
	}

	message := prensa.SocialMessage(&prensa.Post{}, content, poster, site)
	assert.NotContains(t, message, "<img", "media blocks are not excerpted")
	assert.Contains(t, message, "Read the full post at: www.prensa.meu-blog.com.br")
}

func TestSiteURL(t *testing.T) {
	site := &prensa.Site{Name: "Meu Blog De Viagens"}
	assert.Equal(t, "www.prensa.meu-blog-de-viagens.com.br", site.URL())
}
