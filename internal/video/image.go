package video

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// GIFEncoder collects frames into one looping animated GIF written on Close.
type GIFEncoder struct {
	path  string
	opts  Options
	delay int // hundredths of a second
	anim  gif.GIF
}

func NewGIFEncoder(path string, opts Options) (*GIFEncoder, error) {
	if path == "" {
		return nil, fmt.Errorf("gif: empty output path")
	}
	if len(opts.Palette) == 0 {
		opts.Palette = palette.Plan9
	}
	// Browsers clamp shorter delays to 10
	delay := max(int(math.Round(opts.FrameDelay*100)), 2)
	return &GIFEncoder{path: path, opts: opts, delay: delay}, nil
}

func (e *GIFEncoder) WriteFrame(img image.Image) error {
	b := img.Bounds()
	frame := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), e.opts.Palette)
	draw.Draw(frame, frame.Bounds(), img, b.Min, draw.Src)

	// Identical consecutive frames just extend the previous delay
	if n := len(e.anim.Image); n > 0 && samePixels(e.anim.Image[n-1], frame) {
		e.anim.Delay[n-1] += e.delay
		return nil
	}

	e.anim.Image = append(e.anim.Image, frame)
	e.anim.Delay = append(e.anim.Delay, e.delay)
	return nil
}

// Frames reports how many distinct frames are buffered
func (e *GIFEncoder) Frames() int {
	return len(e.anim.Image)
}

func (e *GIFEncoder) Close() error {
	if len(e.anim.Image) == 0 {
		return fmt.Errorf("gif: no frames")
	}
	f, err := os.Create(e.path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &e.anim); err != nil {
		f.Close()
		return fmt.Errorf("gif encode error: %w", err)
	}
	return f.Close()
}

func samePixels(a, b *image.Paletted) bool {
	if a.Rect != b.Rect || len(a.Pix) != len(b.Pix) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

// PNGSequence writes every frame as dir/frame_00000.png.
type PNGSequence struct {
	dir   string
	count int
}

func NewPNGSequence(dir string) (*PNGSequence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGSequence{dir: dir}, nil
}

func (s *PNGSequence) WriteFrame(img image.Image) error {
	path := filepath.Join(s.dir, fmt.Sprintf("frame_%05d.png", s.count))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png encode error %s: %w", path, err)
	}
	s.count++
	return f.Close()
}

func (s *PNGSequence) Close() error {
	return nil
}
