package prensa_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

func TestPostVisible(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		scheduledTo time.Time
		want        bool
	}{
		{name: "scheduled in the past", scheduledTo: now.Add(-time.Hour), want: true},
		{name: "scheduled exactly now", scheduledTo: now, want: true},
		{name: "scheduled in the future", scheduledTo: now.Add(time.Second), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &prensa.Post{ScheduledTo: tt.scheduledTo}
			assert.Equal(t, tt.want, post.Visible(now))
		})
	}
}

func TestPostDefaultTitle(t *testing.T) {
	ptbr := prensa.Language{Code: "pt-br"}

	post := &prensa.Post{
		Contents: map[string]prensa.Content{
			"pt-br": {Title: "Olá", Language: ptbr},
		},
		DefaultLanguage: ptbr,
	}
	assert.Equal(t, "Olá", post.DefaultTitle())

	empty := &prensa.Post{Contents: map[string]prensa.Content{}, DefaultLanguage: ptbr}
	assert.Equal(t, prensa.NoTitlePlaceholder, empty.DefaultTitle())
}

func TestPostLanguagesSorted(t *testing.T) {
	post := &prensa.Post{
		Contents: map[string]prensa.Content{
			"zh":    {Language: prensa.Language{Code: "zh"}},
			"en-us": {Language: prensa.Language{Code: "en-us"}},
			"pt-br": {Language: prensa.Language{Code: "pt-br"}},
		},
	}

	codes := make([]string, 0, 3)
	for _, lang := range post.Languages() {
		codes = append(codes, lang.Code)
	}
	assert.Equal(t, []string{"en-us", "pt-br", "zh"}, codes)
}
