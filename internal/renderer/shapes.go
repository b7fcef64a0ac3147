package renderer

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// roundedRectPath traces a rounded rectangle of size w x h into z.
func roundedRectPath(z *vector.Rasterizer, w, h, r float32) {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	k := r * kappa

	z.MoveTo(r, 0)
	z.LineTo(w-r, 0)
	z.CubeTo(w-r+k, 0, w, r-k, w, r)
	z.LineTo(w, h-r)
	z.CubeTo(w, h-r+k, w-r+k, h, w-r, h)
	z.LineTo(r, h)
	z.CubeTo(r-k, h, 0, h-r+k, 0, h-r)
	z.LineTo(0, r)
	z.CubeTo(0, r-k, r-k, 0, r, 0)
	z.ClosePath()
}

// fillRoundedRect paints an anti-aliased rounded rectangle over dst.
func fillRoundedRect(dst draw.Image, rect image.Rectangle, radius float32, c color.Color) {
	if rect.Empty() {
		return
	}
	z := vector.NewRasterizer(rect.Dx(), rect.Dy())
	roundedRectPath(z, float32(rect.Dx()), float32(rect.Dy()), radius)
	z.Draw(dst, rect, image.NewUniform(c), image.Point{})
}

// circleMask returns an alpha mask holding a filled circle of the given
// diameter.
func circleMask(size int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	z := vector.NewRasterizer(size, size)
	s := float32(size)
	roundedRectPath(z, s, s, s/2)
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// centerSquare returns the largest centered square inside r.
func centerSquare(r image.Rectangle) image.Rectangle {
	side := min(r.Dx(), r.Dy())
	x := r.Min.X + (r.Dx()-side)/2
	y := r.Min.Y + (r.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}

// scaleToHeight resizes src to the given height keeping its aspect ratio.
func scaleToHeight(src image.Image, height int) *image.RGBA {
	b := src.Bounds()
	width := 1
	if b.Dy() > 0 {
		width = max(1, b.Dx()*height/b.Dy())
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// drawAvatar pastes src, cropped to a circle of the given diameter, at pos.
func drawAvatar(dst draw.Image, src image.Image, pos image.Point, size int) {
	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, centerSquare(src.Bounds()), draw.Src, nil)

	r := image.Rect(pos.X, pos.Y, pos.X+size, pos.Y+size)
	draw.DrawMask(dst, r, scaled, image.Point{}, circleMask(size), image.Point{}, draw.Over)
}

// drawHLine draws a horizontal line of the given thickness centred on y.
func drawHLine(dst draw.Image, x0, x1, y, width int, c color.Color) {
	top := y - width/2
	r := image.Rect(x0, top, x1, top+width)
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}
