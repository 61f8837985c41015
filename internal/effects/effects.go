package effects

import (
	"image"

	"github.com/ivlev/ledsign/internal/program"
)

// Effect blends the outgoing and incoming program matrices into dst.
// All three images share the same bounds; progress is in [0,1].
type Effect interface {
	Compose(dst, from, to *image.Gray, progress float64)
}

// ForTransition returns the effect for a program transition kind.
func ForTransition(kind program.TransitionKind) Effect {
	switch kind {
	case program.TransitionFade:
		return Fade{}
	case program.TransitionSlideLeft:
		return Slide{Horizontal: true}
	case program.TransitionSlideUp:
		return Slide{}
	case program.TransitionWipe:
		return Wipe{}
	default:
		return Direct{}
	}
}

// Direct shows the incoming program immediately
type Direct struct{}

func (Direct) Compose(dst, from, to *image.Gray, progress float64) {
	copy(dst.Pix, to.Pix)
}

// Fade cross-fades dot intensities
type Fade struct{}

func (Fade) Compose(dst, from, to *image.Gray, progress float64) {
	p := clamp01(progress)
	for i := range dst.Pix {
		v := float64(from.Pix[i])*(1-p) + float64(to.Pix[i])*p
		dst.Pix[i] = uint8(v + 0.5)
	}
}

// Slide pushes the outgoing program out while the incoming one follows it,
// leftwards when Horizontal, upwards otherwise.
type Slide struct {
	Horizontal bool
}

func (s Slide) Compose(dst, from, to *image.Gray, progress float64) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	p := clamp01(progress)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			if s.Horizontal {
				shift := int(p*float64(w) + 0.5)
				if sx := x + shift; sx < w {
					v = from.GrayAt(b.Min.X+sx, b.Min.Y+y).Y
				} else {
					v = to.GrayAt(b.Min.X+sx-w, b.Min.Y+y).Y
				}
			} else {
				shift := int(p*float64(h) + 0.5)
				if sy := y + shift; sy < h {
					v = from.GrayAt(b.Min.X+x, b.Min.Y+sy).Y
				} else {
					v = to.GrayAt(b.Min.X+x, b.Min.Y+sy-h).Y
				}
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
}

// Wipe reveals the incoming program column by column from the left
type Wipe struct{}

func (Wipe) Compose(dst, from, to *image.Gray, progress float64) {
	b := dst.Bounds()
	edge := int(clamp01(progress)*float64(b.Dx()) + 0.5)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := y*dst.Stride + x
			if x < edge {
				dst.Pix[i] = to.Pix[y*to.Stride+x]
			} else {
				dst.Pix[i] = from.Pix[y*from.Stride+x]
			}
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
