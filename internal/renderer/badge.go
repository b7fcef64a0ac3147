package renderer

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
)

const badgeLabel = "APP"

var (
	badgeColor     = color.RGBA{88, 101, 242, 255}
	badgeTextColor = color.RGBA{255, 255, 255, 255}
)

// DefaultBadge draws the app tag used for bot accounts when no badge image
// is configured.
func (r *Renderer) DefaultBadge(face font.Face, height int) *image.RGBA {
	padding := height / 4
	textW := r.text(nil, face, 0, 0, badgeLabel, badgeTextColor)
	w := textW + 2*padding

	img := image.NewRGBA(image.Rect(0, 0, w, height))
	fillRoundedRect(img, img.Bounds(), float32(height)/5, badgeColor)

	m := face.Metrics()
	top := (height - (m.Ascent + m.Descent).Ceil()) / 2
	r.text(img, face, padding, top, badgeLabel, badgeTextColor)
	return img
}
