package prensa

import (
	"fmt"
	"strings"
)

// Block is one renderable unit within a Content. The implementation
// set is closed: TextBlock, MediaBlock and CarouselBlock. Rendering
// dispatches over that set in RenderBlock, so adding a variant means
// extending the switch there.
type Block interface {
	BlockOrder() int
	isBlock()
}

// TextBlock is a single paragraph of text.
type TextBlock struct {
	Order int    `json:"order"`
	Text  string `json:"text"`
}

func (b *TextBlock) BlockOrder() int { return b.Order }
func (*TextBlock) isBlock()          {}

// MediaBlock embeds one media item. Filename and Kind are snapshotted
// from the media library at authoring time, so the block stays
// renderable even after the media is deleted from its site library.
type MediaBlock struct {
	Order    int       `json:"order"`
	MediaID  int64     `json:"media_id"`
	Filename string    `json:"filename"`
	Kind     MediaType `json:"kind"`
	Alt      string    `json:"alt"`
}

func (b *MediaBlock) BlockOrder() int { return b.Order }
func (*MediaBlock) isBlock()          {}

// CarouselBlock groups several media items under one caption.
type CarouselBlock struct {
	Order    int     `json:"order"`
	MediaIDs []int64 `json:"media_ids"`
	Alt      string  `json:"alt"`
}

func (b *CarouselBlock) BlockOrder() int { return b.Order }
func (*CarouselBlock) isBlock()          {}

// RenderBlock produces the markup fragment for a block. The type
// switch is exhaustive over the closed Block set; carousels have no
// markup representation yet and render empty.
func RenderBlock(b Block) string {
	switch blk := b.(type) {
	case *TextBlock:
		return fmt.Sprintf("<p>%s</p>", blk.Text)
	case *MediaBlock:
		if blk.Kind == MediaVideo {
			return fmt.Sprintf("<video src='%s' alt='%s' />", blk.Filename, blk.Alt)
		}
		return fmt.Sprintf("<img src='%s' alt='%s' />", blk.Filename, blk.Alt)
	case *CarouselBlock:
		return ""
	default:
		return ""
	}
}

// Content is the language-specific rendering of a post: a title plus
// an ordered block sequence.
type Content struct {
	Title    string   `json:"title"`
	Blocks   []Block  `json:"blocks"`
	Language Language `json:"language"`
}

// Render joins the markup of every block, one fragment per line.
func (c Content) Render() string {
	fragments := make([]string, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		fragments = append(fragments, RenderBlock(b))
	}
	return strings.Join(fragments, "\n")
}

// FirstText returns the first text block, if any.
func (c Content) FirstText() (*TextBlock, bool) {
	for _, b := range c.Blocks {
		if t, ok := b.(*TextBlock); ok {
			return t, true
		}
	}
	return nil, false
}

// FirstMedia returns the first media block, if any.
func (c Content) FirstMedia() (*MediaBlock, bool) {
	for _, b := range c.Blocks {
		if m, ok := b.(*MediaBlock); ok {
			return m, true
		}
	}
	return nil, false
}
