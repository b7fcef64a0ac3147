package renderer

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/textshot/internal/config"
	"github.com/ivlev/textshot/internal/markdown"
)

// Font files expected in a custom font directory.
const (
	SemiboldFile   = "ggsans-Semibold.ttf"
	MediumFile     = "ggsans-Medium.ttf"
	NormalFile     = "ggsans-Normal.ttf"
	ItalicFile     = "ggsans-NormalItalic.ttf"
	BoldItalicFile = "ggsans-BoldItalic.ttf"

	badgeFontSize = 26
)

// FontSet holds every face a frame needs. Faces cache glyphs and are not
// safe for concurrent use, so each Renderer owns its own set.
type FontSet struct {
	Name       font.Face
	Time       font.Face
	Regular    font.Face
	Bold       font.Face
	Italic     font.Face
	BoldItalic font.Face
	Code       font.Face
	Badge      font.Face
}

type fontData struct {
	semibold, medium, normal, italic, boldItalic []byte
}

// LoadFonts builds the faces for layout. With an empty dir the Go fonts are
// used; otherwise all ggsans files must be present in dir.
func LoadFonts(dir string, layout config.Layout) (*FontSet, error) {
	data := fontData{
		semibold:   gobold.TTF,
		medium:     gomedium.TTF,
		normal:     goregular.TTF,
		italic:     goitalic.TTF,
		boldItalic: gobolditalic.TTF,
	}

	if dir != "" {
		files := []struct {
			name string
			dst  *[]byte
		}{
			{SemiboldFile, &data.semibold},
			{MediumFile, &data.medium},
			{NormalFile, &data.normal},
			{ItalicFile, &data.italic},
			{BoldItalicFile, &data.boldItalic},
		}
		for _, f := range files {
			b, err := os.ReadFile(filepath.Join(dir, f.name))
			if err != nil {
				return nil, fmt.Errorf("load font: %w", err)
			}
			*f.dst = b
		}
	}

	fs := &FontSet{}
	faces := []struct {
		dst  *font.Face
		data []byte
		size float64
	}{
		{&fs.Name, data.semibold, layout.NameFontSize},
		{&fs.Time, data.medium, layout.TimeFontSize},
		{&fs.Regular, data.normal, layout.MessageFontSize},
		{&fs.Bold, data.semibold, layout.MessageFontSize},
		{&fs.Italic, data.italic, layout.MessageFontSize},
		{&fs.BoldItalic, data.boldItalic, layout.MessageFontSize},
		{&fs.Code, gomono.TTF, layout.MessageFontSize},
		{&fs.Badge, gobold.TTF, badgeFontSize},
	}
	for _, f := range faces {
		face, err := newFace(f.data, f.size)
		if err != nil {
			fs.Close()
			return nil, err
		}
		*f.dst = face
	}
	return fs, nil
}

func newFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// ForStyle picks the message face for a markdown style. Strike has no face
// of its own.
func (fs *FontSet) ForStyle(s markdown.Style) font.Face {
	switch {
	case s.Has(markdown.Code):
		return fs.Code
	case s.Has(markdown.Bold) && s.Has(markdown.Italic):
		return fs.BoldItalic
	case s.Has(markdown.Bold):
		return fs.Bold
	case s.Has(markdown.Italic):
		return fs.Italic
	default:
		return fs.Regular
	}
}

func (fs *FontSet) Close() error {
	for _, f := range []font.Face{fs.Name, fs.Time, fs.Regular, fs.Bold, fs.Italic, fs.BoldItalic, fs.Code, fs.Badge} {
		if f != nil {
			f.Close()
		}
	}
	return nil
}
