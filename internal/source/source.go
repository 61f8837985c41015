package source

import (
	"errors"
	"image"
	"sort"
)

// ErrSymbolNotFound is returned for symbol names the source does not know.
var ErrSymbolNotFound = errors.New("symbol not found")

// Source resolves symbol item content to icons.
type Source interface {
	Names() []string
	Symbol(name string) (image.Image, error)
	Close() error
}

// MapSource serves icons from memory
type MapSource map[string]image.Image

func (m MapSource) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m MapSource) Symbol(name string) (image.Image, error) {
	img, ok := m[name]
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return img, nil
}

func (m MapSource) Close() error {
	return nil
}
