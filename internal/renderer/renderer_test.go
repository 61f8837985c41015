package renderer

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/ivlev/ledsign/internal/program"
	"github.com/ivlev/ledsign/internal/sequencer"
	"github.com/ivlev/ledsign/internal/source"
)

func litDots(m *image.Gray) int {
	n := 0
	for _, v := range m.Pix {
		if v > 0 {
			n++
		}
	}
	return n
}

func TestMatrixText(t *testing.T) {
	r := New(1, nil)

	empty := r.Matrix(Scene{Width: 20, Height: 13})
	if litDots(empty) != 0 {
		t.Errorf("Expected dark matrix for empty scene")
	}

	m := r.Matrix(Scene{Width: 20, Height: 13, Current: []ItemView{{Kind: program.ItemText, Text: "IL"}}})
	if litDots(m) == 0 {
		t.Fatal("Expected lit dots for text")
	}
	// Text is 14 dots wide, nothing beyond it
	for y := 0; y < 13; y++ {
		for x := 14; x < 20; x++ {
			if m.GrayAt(x, y).Y != 0 {
				t.Fatalf("Unexpected lit dot at %d,%d", x, y)
			}
		}
	}
}

func TestRenderScaleAndGaps(t *testing.T) {
	r := New(4, nil)
	scene := Scene{Width: 8, Height: 4, Current: []ItemView{{Kind: program.ItemSymbol, Text: "blk"}}}
	r.Symbols = source.MapSource{"blk": solid(2, 2)}

	frame := r.Render(scene)
	defer r.Release(frame)

	if frame.Bounds().Dx() != 32 || frame.Bounds().Dy() != 16 {
		t.Fatalf("Expected 32x16 frame, got %v", frame.Bounds())
	}
	if got := frame.RGBAAt(0, 0); got != Amber {
		t.Errorf("Expected lit dot colour %v, got %v", Amber, got)
	}
	if got := frame.RGBAAt(3, 0); got != (color.RGBA{A: 0xff}) {
		t.Errorf("Expected black gap, got %v", got)
	}
	if got := frame.RGBAAt(8, 0); got != Unlit {
		t.Errorf("Expected unlit dot colour %v, got %v", Unlit, got)
	}
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func TestSymbolAndQRItems(t *testing.T) {
	r := New(1, source.MapSource{"sq": solid(3, 3)})

	m := r.Matrix(Scene{Width: 10, Height: 10, Current: []ItemView{{Kind: program.ItemSymbol, X: 2, Y: 4, Text: "sq"}}})
	if n := litDots(m); n != 9 {
		t.Errorf("Expected 9 lit dots for 3x3 symbol, got %d", n)
	}
	if m.GrayAt(2, 4).Y != 255 || m.GrayAt(1, 4).Y != 0 {
		t.Error("Symbol not drawn at its position")
	}

	qr := r.Matrix(Scene{Width: 40, Height: 40, Current: []ItemView{{Kind: program.ItemQR, Text: "https://example.org"}}})
	if litDots(qr) == 0 {
		t.Error("Expected QR modules to be lit")
	}
	// Version 2 code at low recovery is 25 modules wide without border
	for x := 25; x < 40; x++ {
		if qr.GrayAt(x, 0).Y != 0 {
			t.Fatalf("QR wider than expected at column %d", x)
		}
	}
}

func TestStopScrollUpEndpoints(t *testing.T) {
	r := New(1, nil)
	base := Scene{Width: 16, Height: 13}

	start := base
	start.Current = []ItemView{{Kind: program.ItemText, Stop: &StopTransitionView{From: "A", To: "B", Kind: program.StopAnimationScrollUp, Progress: 0}}}
	end := base
	end.Current = []ItemView{{Kind: program.ItemText, Stop: &StopTransitionView{From: "A", To: "B", Kind: program.StopAnimationScrollUp, Progress: 1}}}

	a := r.Matrix(Scene{Width: 16, Height: 13, Current: []ItemView{{Kind: program.ItemText, Text: "A"}}})
	b := r.Matrix(Scene{Width: 16, Height: 13, Current: []ItemView{{Kind: program.ItemText, Text: "B"}}})

	if got := r.Matrix(start); !equalGray(got, a) {
		t.Error("Scroll at progress 0 should show the previous content")
	}
	if got := r.Matrix(end); !equalGray(got, b) {
		t.Error("Scroll at progress 1 should show the next content")
	}
}

func equalGray(a, b *image.Gray) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

func TestEasing(t *testing.T) {
	if v := EaseProgram(program.TransitionFade, 0.25); v != 0.25 {
		t.Errorf("Fade should stay linear, got %f", v)
	}
	if v := EaseProgram(program.TransitionSlideLeft, 0.25); math.Abs(v-0.0625) > 1e-9 {
		t.Errorf("Expected eased 0.0625, got %f", v)
	}
	if v := EaseStop(program.StopAnimationScrollUp, 0.5); math.Abs(v-0.5) > 1e-9 {
		t.Errorf("Expected eased midpoint 0.5, got %f", v)
	}
	if v := EaseStop(program.StopAnimationFade, 2); v != 1 {
		t.Errorf("Expected clamp to 1, got %f", v)
	}
}

func TestCapture(t *testing.T) {
	seq := sequencer.New(sequencer.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	clock := &program.Item{ID: 1, Kind: program.ItemClock, Content: "15:04"}
	route := &program.Item{ID: 2, X: 40, Content: "42", Stops: &program.StopSettings{
		FixedDuration: 1,
		List:          []program.Stop{{Name: "Harbour"}},
		Animation:     program.StopAnimation{Kind: program.StopAnimationScrollUp, DurationMs: 400},
	}}
	seq.SetPrograms([]*program.Program{
		{ID: "a", Duration: 1.5, Items: []*program.Item{clock, route}},
		{ID: "b", Duration: 5, Transition: program.Transition{Kind: program.TransitionWipe, DurationMs: 500}, Items: []*program.Item{{ID: 3, Content: "Notice"}}},
	})
	seq.Play()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	seq.OnTick(1)
	scene := Capture(seq, 96, 16, now)
	if len(scene.Current) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(scene.Current))
	}
	if scene.Current[0].Text != "09:30" {
		t.Errorf("Expected formatted clock, got %q", scene.Current[0].Text)
	}
	if scene.Current[1].Text != "Harbour" || scene.Current[1].Stop == nil {
		t.Fatalf("Expected route on its stop with a transition, got %+v", scene.Current[1])
	}
	if scene.Current[1].Stop.From != "42" || scene.Current[1].Stop.To != "Harbour" {
		t.Errorf("Unexpected stop transition %+v", scene.Current[1].Stop)
	}

	seq.OnTick(1) // one stop stretches program a to 2s; it expires and the wipe to b starts
	scene = Capture(seq, 96, 16, now)
	if scene.Transition == nil || scene.Transition.Kind != program.TransitionWipe {
		t.Fatalf("Expected wipe transition, got %+v", scene.Transition)
	}
	if len(scene.Transition.From) != 2 || scene.Transition.From[1].Text != "42" {
		t.Errorf("Outgoing program should show main content, got %+v", scene.Transition.From)
	}
	if len(scene.Current) != 1 || scene.Current[0].Text != "Notice" {
		t.Errorf("Expected incoming program items, got %+v", scene.Current)
	}
}
