package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode/utf8"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	variationSelector = 0xFE0F
	zeroWidthJoiner   = 0x200D
)

var emojiRanges = [][2]rune{
	{0x1F000, 0x1FAFF},
	{0x2300, 0x23FF},
	{0x2600, 0x27BF},
	{0x2B00, 0x2BFF},
}

func isEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// textRun is either a piece of text for the font face or one emoji glyph.
type textRun struct {
	text  string
	glyph image.Image
}

func (r *Renderer) runs(s string) []textRun {
	var out []textRun
	var b strings.Builder
	for len(s) > 0 {
		c, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if c == variationSelector || c == zeroWidthJoiner {
			continue
		}
		if isEmoji(c) {
			if glyph, ok := r.emoji.Glyph(c); ok {
				if b.Len() > 0 {
					out = append(out, textRun{text: b.String()})
					b.Reset()
				}
				out = append(out, textRun{glyph: glyph})
				continue
			}
		}
		b.WriteRune(c)
	}
	if b.Len() > 0 {
		out = append(out, textRun{text: b.String()})
	}
	return out
}

// text draws s with the top of the line box at y and returns the
// horizontal advance in pixels. With a nil dst it only measures.
func (r *Renderer) text(dst draw.Image, face font.Face, x, y int, s string, c color.Color) int {
	m := face.Metrics()
	emojiSize := (m.Ascent + m.Descent).Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+m.Ascent.Ceil()),
	}
	start := d.Dot.X

	for _, run := range r.runs(s) {
		if run.glyph == nil {
			if dst == nil {
				d.Dot.X += d.MeasureString(run.text)
			} else {
				d.DrawString(run.text)
			}
			continue
		}
		if dst != nil {
			gx := d.Dot.X.Round()
			rect := image.Rect(gx, y, gx+emojiSize, y+emojiSize)
			xdraw.CatmullRom.Scale(dst, rect, run.glyph, run.glyph.Bounds(), draw.Over, nil)
		}
		d.Dot.X += fixed.I(emojiSize)
	}
	return (d.Dot.X - start).Round()
}

// textBounds returns the ink box of s drawn with its top at (x, y).
func textBounds(face font.Face, x, y int, s string) image.Rectangle {
	b, _ := font.BoundString(face, s)
	baseline := y + face.Metrics().Ascent.Ceil()
	return image.Rect(
		x+b.Min.X.Floor(), baseline+b.Min.Y.Floor(),
		x+b.Max.X.Ceil(), baseline+b.Max.Y.Ceil(),
	)
}
