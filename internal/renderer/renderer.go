// Package renderer draws chat screenshots: avatar, name, optional app
// badge, timestamp and up to Layout.MaxMessages message lines.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	"github.com/ivlev/textshot/internal/config"
	"github.com/ivlev/textshot/internal/markdown"
	"github.com/ivlev/textshot/internal/source"
	"github.com/ivlev/textshot/internal/system"
)

var ErrTooManyLines = errors.New("too many message lines for one frame")

// Chat is everything one frame shows.
type Chat struct {
	Speaker string
	Color   color.RGBA
	Avatar  image.Image
	Bot     bool
	Clock   time.Time
	Lines   []string
}

// Options point at optional on-disk assets.
type Options struct {
	FontDir   string
	BadgePath string
	EmojiDir  string
}

// Renderer is not safe for concurrent use; its font faces cache glyphs.
type Renderer struct {
	layout config.Layout
	fonts  *FontSet
	badge  image.Image
	emoji  *source.EmojiSource
}

// NewRenderer wires already loaded assets. A nil badge is replaced by
// DefaultBadge; a nil emoji source draws emoji with the text face.
func NewRenderer(layout config.Layout, fonts *FontSet, badge image.Image, emoji *source.EmojiSource) *Renderer {
	r := &Renderer{layout: layout, fonts: fonts, emoji: emoji}
	if badge == nil {
		r.badge = r.DefaultBadge(fonts.Badge, layout.BadgeHeight)
	} else {
		r.badge = scaleToHeight(badge, layout.BadgeHeight)
	}
	return r
}

// New loads fonts, badge and emoji from opts and returns a Renderer.
func New(layout config.Layout, opts Options) (*Renderer, error) {
	fonts, err := LoadFonts(opts.FontDir, layout)
	if err != nil {
		return nil, err
	}

	var badge image.Image
	if opts.BadgePath != "" {
		if badge, err = source.LoadImage(opts.BadgePath); err != nil {
			fonts.Close()
			return nil, fmt.Errorf("load badge: %w", err)
		}
	}

	var emoji *source.EmojiSource
	if opts.EmojiDir != "" {
		if emoji, err = source.NewEmojiSource(opts.EmojiDir); err != nil {
			fonts.Close()
			return nil, err
		}
	}

	return NewRenderer(layout, fonts, badge, emoji), nil
}

func (r *Renderer) Layout() config.Layout {
	return r.layout
}

func (r *Renderer) Close() error {
	return r.fonts.Close()
}

// TimeText formats the clock the way the chat client shows it.
func TimeText(t time.Time) string {
	return "Today at " + t.Format("3:04 PM")
}

// Render draws one frame. The canvas comes from the shared image pool and
// may be returned with system.PutImage once encoded.
func (r *Renderer) Render(chat Chat) (*image.RGBA, error) {
	l := r.layout
	if len(chat.Lines) > l.MaxMessages {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyLines, len(chat.Lines), l.MaxMessages)
	}

	canvas := system.GetCanvas(image.Rect(0, 0, l.Width, l.Height(len(chat.Lines))), l.Background)

	if chat.Avatar != nil {
		drawAvatar(canvas, chat.Avatar, l.AvatarPos, l.AvatarSize)
	}

	x := l.NamePos.X + r.text(canvas, r.fonts.Name, l.NamePos.X, l.NamePos.Y, chat.Speaker, chat.Color)

	if chat.Bot {
		x += l.BadgeSpacing
		y := l.NamePos.Y + (int(l.NameFontSize)-l.BadgeHeight)/2 + l.BadgeOffsetY
		b := r.badge.Bounds()
		draw.Draw(canvas, image.Rect(x, y, x+b.Dx(), y+b.Dy()), r.badge, b.Min, draw.Over)
		x += b.Dx()
	}

	r.text(canvas, r.fonts.Time, x+l.NameTimeSpacing, l.TimeY, TimeText(chat.Clock), l.TimeColor)

	for i, line := range chat.Lines {
		pos := l.LinePos(i)
		r.drawLine(canvas, pos.X, pos.Y, line)
	}
	return canvas, nil
}

// MeasureLine returns the width a message line takes when drawn.
func (r *Renderer) MeasureLine(line string) int {
	return r.drawLine(nil, 0, 0, line)
}

// drawLine draws one message line and returns its advance. A nil dst only
// measures.
func (r *Renderer) drawLine(dst *image.RGBA, x, y int, line string) int {
	l := r.layout
	start := x

	for _, seg := range markdown.SplitMentions(strings.TrimSpace(line)) {
		if seg.Mention {
			x += r.drawMention(dst, x, y, seg.Text)
			continue
		}
		for _, span := range markdown.Tokenize(seg.Text) {
			face := r.fonts.ForStyle(span.Style)
			var adv int
			if dst == nil {
				adv = r.text(nil, face, x, y, span.Text, l.MessageColor)
			} else {
				adv = r.text(dst, face, x, y, span.Text, l.MessageColor)
				if span.Style.Has(markdown.Strike) {
					drawHLine(dst, x, x+adv, y+int(l.MessageFontSize)/2, l.StrikeWidth, l.MessageColor)
				}
			}
			x += adv
		}
	}
	return x - start
}

func (r *Renderer) drawMention(dst *image.RGBA, x, y int, text string) int {
	l := r.layout
	face := r.fonts.Regular
	if dst == nil {
		return r.text(nil, face, x, y, text, l.MentionColor)
	}

	box := textBounds(face, x, y, text).Inset(-l.MentionPadding)
	fillRoundedRect(dst, box, float32(l.MentionRadius), l.MentionBackground)
	return r.text(dst, face, x, y, text, l.MentionColor)
}
