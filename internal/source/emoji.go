package source

import (
	"fmt"
	"image"
	"strings"
)

// EmojiSource serves emoji glyphs stored as "<hex codepoint>.png", the
// Twemoji file naming. Sequences join their codepoints with '-'.
type EmojiSource struct {
	images *ImageSource
}

func NewEmojiSource(dir string) (*EmojiSource, error) {
	images, err := NewImageSource(dir)
	if err != nil {
		return nil, fmt.Errorf("open emoji dir: %w", err)
	}
	return &EmojiSource{images: images}, nil
}

// EmojiName returns the file name for a rune sequence, variation
// selectors dropped.
func EmojiName(runes ...rune) string {
	parts := make([]string, 0, len(runes))
	for _, r := range runes {
		if r == 0xFE0F {
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, "-") + ".png"
}

// Glyph returns the image for r, or false when the set has none.
func (e *EmojiSource) Glyph(r rune) (image.Image, bool) {
	if e == nil {
		return nil, false
	}
	name := EmojiName(r)
	if !e.images.Has(name) {
		return nil, false
	}
	img, err := e.images.Get(name)
	if err != nil {
		return nil, false
	}
	return img, true
}
