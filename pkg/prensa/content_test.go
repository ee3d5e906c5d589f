package prensa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

func TestRenderBlock(t *testing.T) {
	tests := []struct {
		name  string
		block prensa.Block
		want  string
	}{
		{
			name:  "text block",
			block: &prensa.TextBlock{Order: 1, Text: "hello world"},
			want:  "<p>hello world</p>",
		},
		{
			name:  "image block",
			block: &prensa.MediaBlock{Order: 2, Filename: "sunset.jpg", Kind: prensa.MediaImage, Alt: "a sunset"},
			want:  "<img src='sunset.jpg' alt='a sunset' />",
		},
		{
			name:  "video block",
			block: &prensa.MediaBlock{Order: 3, Filename: "tour.mp4", Kind: prensa.MediaVideo, Alt: "boat tour"},
			want:  "<video src='tour.mp4' alt='boat tour' />",
		},
		{
			name:  "carousel renders empty",
			block: &prensa.CarouselBlock{Order: 4, MediaIDs: []int64{1, 2}, Alt: "gallery"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prensa.RenderBlock(tt.block))
		})
	}
}

func TestContentRender(t *testing.T) {
	content := prensa.Content{
		Title: "Trip report",
		Blocks: []prensa.Block{
			&prensa.TextBlock{Order: 1, Text: "First paragraph."},
			&prensa.MediaBlock{Order: 2, Filename: "photo.png", Kind: prensa.MediaImage, Alt: "photo"},
			&prensa.TextBlock{Order: 3, Text: "Second paragraph."},
		},
	}

	want := "<p>First paragraph.</p>\n" +
		"<img src='photo.png' alt='photo' />\n" +
		"<p>Second paragraph.</p>"
	assert.Equal(t, want, content.Render())
}

func TestContentFirstBlocks(t *testing.T) {
	content := prensa.Content{
		Blocks: []prensa.Block{
			&prensa.CarouselBlock{Order: 1},
			&prensa.MediaBlock{Order: 2, Filename: "a.jpg", Kind: prensa.MediaImage},
			&prensa.TextBlock{Order: 3, Text: "body"},
			&prensa.TextBlock{Order: 4, Text: "tail"},
		},
	}

	text, ok := content.FirstText()
	require.True(t, ok)
	assert.Equal(t, 3, text.Order)

	media, ok := content.FirstMedia()
	require.True(t, ok)
	assert.Equal(t, "a.jpg", media.Filename)

	empty := prensa.Content{}
	_, ok = empty.FirstText()
	assert.False(t, ok)
	_, ok = empty.FirstMedia()
	assert.False(t, ok)
}

func TestInferMediaType(t *testing.T) {
	kind, err := prensa.InferMediaType(".JPG")
	require.NoError(t, err)
	assert.Equal(t, prensa.MediaImage, kind)

	kind, err = prensa.InferMediaType(".mov")
	require.NoError(t, err)
	assert.Equal(t, prensa.MediaVideo, kind)

	_, err = prensa.InferMediaType(".pdf")
	assert.ErrorIs(t, err, prensa.ErrUnsupportedMediaType)

	_, err = prensa.InferMediaType("")
	assert.ErrorIs(t, err, prensa.ErrUnsupportedMediaType)
}
