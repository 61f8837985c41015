package renderer

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/ledsign/internal/effects"
	"github.com/ivlev/ledsign/internal/program"
	"github.com/ivlev/ledsign/internal/source"
	"github.com/ivlev/ledsign/internal/system"
)

var (
	// Amber is the lit LED colour
	Amber = color.RGBA{R: 0xff, G: 0xb0, B: 0x00, A: 0xff}
	// Unlit is the colour of a dark LED
	Unlit = color.RGBA{R: 0x2a, G: 0x18, B: 0x00, A: 0xff}
)

// Renderer turns scenes into LED dot-matrix frames. It is safe for
// concurrent use as long as Symbols is.
type Renderer struct {
	Scale   int // screen pixels per dot
	On      color.RGBA
	Off     color.RGBA
	Symbols source.Source

	face font.Face
	pool *system.ImagePool
}

// New creates a renderer with the 7x13 bitmap font and amber LEDs
func New(scale int, symbols source.Source) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{
		Scale:   scale,
		On:      Amber,
		Off:     Unlit,
		Symbols: symbols,
		face:    basicfont.Face7x13,
		pool:    system.NewImagePool(),
	}
}

// Matrix renders the scene at dot resolution; each byte is one LED's brightness.
func (r *Renderer) Matrix(scene Scene) *image.Gray {
	bounds := image.Rect(0, 0, max(scene.Width, 0), max(scene.Height, 0))

	current := image.NewGray(bounds)
	r.drawItems(current, scene.Current)

	tr := scene.Transition
	if tr == nil {
		return current
	}

	outgoing := image.NewGray(bounds)
	r.drawItems(outgoing, tr.From)

	out := image.NewGray(bounds)
	effects.ForTransition(tr.Kind).Compose(out, outgoing, current, EaseProgram(tr.Kind, tr.Progress))
	return out
}

// Render draws the scene as it looks on the sign, scaled up by Scale. The
// frame comes from a pool; hand it back with Release when done.
func (r *Renderer) Render(scene Scene) *image.RGBA {
	m := r.Matrix(scene)
	b := m.Bounds()

	dots := image.NewRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			t := float64(m.Pix[y*m.Stride+x]) / 255
			dots.SetRGBA(x, y, color.RGBA{
				R: uint8(lerp(float64(r.Off.R), float64(r.On.R), t)),
				G: uint8(lerp(float64(r.Off.G), float64(r.On.G), t)),
				B: uint8(lerp(float64(r.Off.B), float64(r.On.B), t)),
				A: 0xff,
			})
		}
	}

	frame := r.pool.Get(image.Rect(0, 0, b.Dx()*r.Scale, b.Dy()*r.Scale))
	draw.NearestNeighbor.Scale(frame, frame.Bounds(), dots, b, draw.Src, nil)

	// Dark gap between neighbouring dots
	if r.Scale >= 3 {
		black := color.RGBA{A: 0xff}
		fb := frame.Bounds()
		for y := 0; y < fb.Dy(); y++ {
			for x := 0; x < fb.Dx(); x++ {
				if x%r.Scale == r.Scale-1 || y%r.Scale == r.Scale-1 {
					frame.SetRGBA(x, y, black)
				}
			}
		}
	}
	return frame
}

// Palette lists every colour Render can produce: the dot gap plus a ramp
// from unlit to lit.
func (r *Renderer) Palette() color.Palette {
	p := color.Palette{color.RGBA{A: 0xff}}
	for i := 0; i < 255; i++ {
		t := float64(i) / 254
		p = append(p, color.RGBA{
			R: uint8(lerp(float64(r.Off.R), float64(r.On.R), t)),
			G: uint8(lerp(float64(r.Off.G), float64(r.On.G), t)),
			B: uint8(lerp(float64(r.Off.B), float64(r.On.B), t)),
			A: 0xff,
		})
	}
	return p
}

// Release returns a frame obtained from Render to the pool
func (r *Renderer) Release(frame *image.RGBA) {
	r.pool.Put(frame)
}

func (r *Renderer) drawItems(dst *image.Gray, items []ItemView) {
	for _, it := range items {
		origin := image.Pt(it.X, it.Y)
		if it.Stop != nil && it.Stop.Kind != program.StopAnimationInstant {
			r.drawStopTransition(dst, it, origin)
			continue
		}
		blitMax(dst, r.layer(it.Kind, it.Text), origin, 255, dst.Bounds())
	}
}

func (r *Renderer) drawStopTransition(dst *image.Gray, it ItemView, origin image.Point) {
	from := r.layer(it.Kind, it.Stop.From)
	to := r.layer(it.Kind, it.Stop.To)

	w := max(from.Bounds().Dx(), to.Bounds().Dx())
	h := max(from.Bounds().Dy(), to.Bounds().Dy())
	clip := image.Rect(origin.X, origin.Y, origin.X+w, origin.Y+h).Intersect(dst.Bounds())
	p := EaseStop(it.Stop.Kind, it.Stop.Progress)

	switch it.Stop.Kind {
	case program.StopAnimationFade:
		blitMax(dst, from, origin, uint8(255*(1-p)+0.5), clip)
		blitMax(dst, to, origin, uint8(255*p+0.5), clip)
	case program.StopAnimationScrollUp:
		off := int(p*float64(h) + 0.5)
		blitMax(dst, from, origin.Add(image.Pt(0, -off)), 255, clip)
		blitMax(dst, to, origin.Add(image.Pt(0, h-off)), 255, clip)
	case program.StopAnimationScrollLeft:
		off := int(p*float64(w) + 0.5)
		blitMax(dst, from, origin.Add(image.Pt(-off, 0)), 255, clip)
		blitMax(dst, to, origin.Add(image.Pt(w-off, 0)), 255, clip)
	default:
		blitMax(dst, to, origin, 255, clip)
	}
}

// layer rasterizes one piece of content at its natural size.
func (r *Renderer) layer(kind program.ItemKind, content string) *image.Gray {
	switch kind {
	case program.ItemQR:
		if img := qrLayer(content); img != nil {
			return img
		}
	case program.ItemSymbol:
		if img := r.symbolLayer(content); img != nil {
			return img
		}
	}
	return r.textLayer(content)
}

func (r *Renderer) textLayer(text string) *image.Gray {
	metrics := r.face.Metrics()
	w := font.MeasureString(r.face, text).Ceil()
	h := metrics.Height.Ceil()

	img := image.NewGray(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}

func qrLayer(content string) *image.Gray {
	if content == "" {
		return nil
	}
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		slog.Debug("renderer: qr encode failed", "error", err)
		return nil
	}
	qr.DisableBorder = true

	bitmap := qr.Bitmap()
	img := image.NewGray(image.Rect(0, 0, len(bitmap), len(bitmap)))
	for y, row := range bitmap {
		for x, on := range row {
			if on {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img
}

func (r *Renderer) symbolLayer(name string) *image.Gray {
	if r.Symbols == nil {
		return nil
	}
	icon, err := r.Symbols.Symbol(name)
	if err != nil {
		slog.Debug("renderer: symbol unavailable, drawing its name", "symbol", name, "error", err)
		return nil
	}
	b := icon.Bounds()
	img := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), icon, b.Min, draw.Src)
	return img
}

// blitMax draws layer at the given position scaled by level, keeping the
// brighter of the existing and new dot. Dots outside clip are skipped.
func blitMax(dst, layer *image.Gray, at image.Point, level uint8, clip image.Rectangle) {
	if layer == nil || level == 0 {
		return
	}
	lb := layer.Bounds()
	for y := 0; y < lb.Dy(); y++ {
		for x := 0; x < lb.Dx(); x++ {
			p := image.Pt(at.X+x, at.Y+y)
			if !p.In(clip) {
				continue
			}
			v := uint8(uint16(layer.Pix[y*layer.Stride+x]) * uint16(level) / 255)
			i := dst.PixOffset(p.X, p.Y)
			if v > dst.Pix[i] {
				dst.Pix[i] = v
			}
		}
	}
}
