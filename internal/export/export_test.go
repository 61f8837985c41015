package export

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/ledsign/internal/config"
	"github.com/ivlev/ledsign/internal/program"
	"github.com/ivlev/ledsign/internal/renderer"
	"github.com/ivlev/ledsign/internal/video"
)

type recordingEncoder struct {
	opts   video.Options
	frames []image.Rectangle
	closed bool
}

func (e *recordingEncoder) WriteFrame(img image.Image) error {
	e.frames = append(e.frames, img.Bounds())
	return nil
}

func (e *recordingEncoder) Close() error {
	e.closed = true
	return nil
}

func testProject(cfg *config.Config) (*Project, *recordingEncoder) {
	doc := &program.Document{
		Name:    "depot",
		Display: program.Display{Width: 32, Height: 13},
		Programs: []*program.Program{
			{ID: "a", Duration: 1, Items: []*program.Item{{ID: 1, Content: "12"}}},
			{ID: "b", Duration: 0.5, Items: []*program.Item{{ID: 2, Content: "Depot"}}},
		},
	}
	rec := &recordingEncoder{}
	p := NewProject(cfg, doc, renderer.New(cfg.Scale, nil))
	p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	p.Start = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.WithEncoder(func(_ context.Context, opts video.Options) (video.FrameEncoder, error) {
		rec.opts = opts
		return rec, nil
	})
	return p, rec
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name       string
		fps        int
		duration   float64
		wantDur    float64
		wantFrames int
	}{
		{"one pass", 4, 0, 1.5, 6},
		{"explicit", 10, 2, 2, 20},
		{"partial frame", 4, 0.6, 0.6, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := testProject(&config.Config{FPS: tt.fps, Duration: tt.duration, Scale: 1})
			d, n := p.Plan()
			if d != tt.wantDur || n != tt.wantFrames {
				t.Errorf("Expected %.2fs/%d frames, got %.2fs/%d", tt.wantDur, tt.wantFrames, d, n)
			}
		})
	}
}

func TestRunEncodesEveryFrame(t *testing.T) {
	p, rec := testProject(&config.Config{FPS: 4, Scale: 2, Workers: 2, Loop: true})

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Frames != 6 || len(rec.frames) != 6 {
		t.Fatalf("Expected 6 frames, got stats %d, encoded %d", stats.Frames, len(rec.frames))
	}
	if !rec.closed {
		t.Error("Encoder was not closed")
	}
	want := image.Rect(0, 0, 64, 26)
	for i, b := range rec.frames {
		if b != want {
			t.Errorf("Frame %d: expected %v, got %v", i, want, b)
		}
	}
	if rec.opts.FrameDelay != 0.25 || rec.opts.Width != 64 {
		t.Errorf("Unexpected encoder options %+v", rec.opts)
	}
	// Initial load plus the switch to b at t=1
	if stats.ProgramChanges != 2 {
		t.Errorf("Expected 2 program changes, got %d", stats.ProgramChanges)
	}
}

func TestRunCancelled(t *testing.T) {
	p, _ := testProject(&config.Config{FPS: 4, Scale: 1, Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRunWritesBenchmarkLog(t *testing.T) {
	p, _ := testProject(&config.Config{FPS: 4, Scale: 1, Workers: 1, ShowStats: true, BuildVersion: "test", DocumentPath: "signs/depot.yaml"})
	p.BenchmarkLog = filepath.Join(t.TempDir(), "benchmark.log")

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	data, err := os.ReadFile(p.BenchmarkLog)
	if err != nil {
		t.Fatalf("benchmark log missing: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "Build: test") || !strings.Contains(line, "Input: depot.yaml") || !strings.Contains(line, "Frames: 6") {
		t.Errorf("Unexpected log line %q", line)
	}
}

func TestRunEmptyDocument(t *testing.T) {
	p, _ := testProject(&config.Config{FPS: 4, Scale: 1})
	p.Document.Programs = nil
	if _, err := p.Run(context.Background()); err == nil {
		t.Error("Expected error for a document without programs")
	}
}

func TestAppendLineReportsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.log")
	if err := appendLine(path, "one\n"); err != nil {
		t.Fatalf("appendLine failed: %v", err)
	}
	if err := appendLine(path, "two\n"); err != nil {
		t.Fatalf("appendLine failed: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "one\ntwo\n" {
		t.Errorf("Expected both lines, got %q", data)
	}

	if err := appendLine(t.TempDir(), "x\n"); err == nil {
		t.Error("Expected error when the log path is a directory")
	}

	if _, err := os.Stat("/dev/full"); err == nil {
		if err := appendLine("/dev/full", "x\n"); err == nil {
			t.Error("Expected write error on a full device")
		}
	}
}
