package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
)

// ImageSource loads images from a directory and keeps them decoded, so an
// avatar shared by many frames is read from disk once.
type ImageSource struct {
	dir string

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewImageSource(dir string) (*ImageSource, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &ImageSource{dir: dir, cache: make(map[string]image.Image)}, nil
}

// Path returns the file a name resolves to. Absolute names are used as is.
func (s *ImageSource) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

func (s *ImageSource) Get(name string) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img, ok := s.cache[name]; ok {
		return img, nil
	}
	img, err := LoadImage(s.Path(name))
	if err != nil {
		return nil, err
	}
	s.cache[name] = img
	return img, nil
}

func (s *ImageSource) Has(name string) bool {
	s.mu.Lock()
	_, ok := s.cache[name]
	s.mu.Unlock()
	if ok {
		return true
	}
	fi, err := os.Stat(s.Path(name))
	return err == nil && !fi.IsDir()
}
