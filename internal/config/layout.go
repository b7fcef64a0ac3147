package config

import (
	"image"
	"image/color"
)

// Layout is the pixel geometry of one chat screenshot. It is a value type:
// the renderer gets a copy and never mutates it, so alternate geometries can
// be rendered side by side.
type Layout struct {
	Width       int
	FirstHeight int // canvas height with a single message line
	SlotHeight  int // extra height per additional line
	MaxMessages int
	Background  color.RGBA

	AvatarSize int
	AvatarPos  image.Point

	NameFontSize    float64
	TimeFontSize    float64
	MessageFontSize float64
	NamePos         image.Point
	TimeY           int
	NameTimeSpacing int

	MessageX       int
	MessageY       int
	MessageSpacing int

	TimeColor    color.RGBA
	MessageColor color.RGBA

	MentionBackground color.RGBA
	MentionColor      color.RGBA
	MentionRadius     int
	MentionPadding    int

	BadgeHeight  int
	BadgeSpacing int
	BadgeOffsetY int

	StrikeWidth int
}

func DefaultLayout() Layout {
	return Layout{
		Width:       1777,
		FirstHeight: 231,
		SlotHeight:  80,
		MaxMessages: 5,
		Background:  color.RGBA{54, 57, 63, 255},

		AvatarSize: 120,
		AvatarPos:  image.Pt(36, 45),

		NameFontSize:    50,
		TimeFontSize:    30,
		MessageFontSize: 50,
		NamePos:         image.Pt(190, 53),
		TimeY:           67,
		NameTimeSpacing: 25,

		MessageX:       190,
		MessageY:       130,
		MessageSpacing: 80,

		TimeColor:    color.RGBA{180, 180, 180, 255},
		MessageColor: color.RGBA{220, 220, 220, 255},

		MentionBackground: color.RGBA{61, 66, 113, 255},
		MentionColor:      color.RGBA{201, 205, 251, 255},
		MentionRadius:     5,
		MentionPadding:    6,

		BadgeHeight:  45,
		BadgeSpacing: 16,
		BadgeOffsetY: 5,

		StrikeWidth: 3,
	}
}

// Height returns the canvas height for n visible message lines.
func (l Layout) Height(n int) int {
	if n < 1 {
		n = 1
	}
	return l.FirstHeight + (n-1)*l.SlotHeight
}

// LinePos returns the top-left corner of the i-th message line.
func (l Layout) LinePos(i int) image.Point {
	return image.Pt(l.MessageX, l.MessageY+i*l.MessageSpacing)
}
