package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
)

// ImageSource loads icons from a directory; a symbol's name is its file name
// without extension. Decoded icons are cached.
type ImageSource struct {
	paths map[string]string

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewImageSource(dir string) (*ImageSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".bmp" {
			name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			paths[name] = filepath.Join(dir, entry.Name())
		}
	}

	return &ImageSource{paths: paths, cache: make(map[string]image.Image)}, nil
}

func (s *ImageSource) Names() []string {
	names := make([]string, 0, len(s.paths))
	for n := range s.paths {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *ImageSource) Symbol(name string) (image.Image, error) {
	path, ok := s.paths[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrSymbolNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if img, ok := s.cache[name]; ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s.cache[name] = img
	return img, nil
}

func (s *ImageSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cache)
	return nil
}
