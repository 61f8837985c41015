package source

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageSource(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "bus.png"), 8, 7)
	writePNG(t, filepath.Join(dir, "arrow.png"), 5, 5)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644)

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	defer src.Close()

	names := src.Names()
	if len(names) != 2 || names[0] != "arrow" || names[1] != "bus" {
		t.Errorf("Expected [arrow bus], got %v", names)
	}

	img, err := src.Symbol("bus")
	if err != nil {
		t.Fatalf("Symbol failed: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 7 {
		t.Errorf("Expected 8x7 icon, got %v", img.Bounds())
	}

	if _, err := src.Symbol("tram"); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("Expected ErrSymbolNotFound, got %v", err)
	}
}

func TestMapSource(t *testing.T) {
	src := MapSource{"dot": image.NewRGBA(image.Rect(0, 0, 1, 1))}
	if _, err := src.Symbol("dot"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if _, err := src.Symbol("x"); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("Expected ErrSymbolNotFound, got %v", err)
	}
}
