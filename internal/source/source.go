package source

import (
	"fmt"
	"image"
	"os"
)

// Source resolves image assets by name.
type Source interface {
	Get(name string) (image.Image, error)
	Has(name string) bool
}

// LoadImage decodes a single PNG or JPEG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
