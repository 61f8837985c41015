// Package export renders a sign document offline into an animation file.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/ledsign/internal/config"
	"github.com/ivlev/ledsign/internal/program"
	"github.com/ivlev/ledsign/internal/renderer"
	"github.com/ivlev/ledsign/internal/sequencer"
	"github.com/ivlev/ledsign/internal/system"
	"github.com/ivlev/ledsign/internal/video"
)

// EncoderFactory opens the output stream
type EncoderFactory func(ctx context.Context, opts video.Options) (video.FrameEncoder, error)

// Stats summarises an export run
type Stats struct {
	Frames         int
	Events         int
	ProgramChanges int
	Render         time.Duration
	Encode         time.Duration
	Total          time.Duration
}

// FPS is the effective throughput of the run
func (s Stats) FPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Total.Seconds()
}

// Project ties a document to a renderer and an encoder.
type Project struct {
	Config   *config.Config
	Document *program.Document
	Renderer *renderer.Renderer

	// Start is the wall-clock time of the first frame, shown by clock items.
	Start time.Time
	// BenchmarkLog receives one line per run when ShowStats is set.
	BenchmarkLog string

	newEncoder EncoderFactory
	log        *slog.Logger
}

func NewProject(cfg *config.Config, doc *program.Document, r *renderer.Renderer) *Project {
	p := &Project{
		Config:       cfg,
		Document:     doc,
		Renderer:     r,
		Start:        time.Now(),
		BenchmarkLog: "benchmark.log",
		log:          slog.Default(),
	}
	p.newEncoder = func(ctx context.Context, opts video.Options) (video.FrameEncoder, error) {
		return video.NewEncoder(ctx, p.Config, opts)
	}
	return p
}

// WithEncoder replaces the format-selected encoder
func (p *Project) WithEncoder(f EncoderFactory) *Project {
	p.newEncoder = f
	return p
}

// Plan returns the export length in seconds and the number of frames. Without
// an explicit duration every program plays once.
func (p *Project) Plan() (duration float64, frames int) {
	duration = p.Config.Duration
	if duration <= 0 {
		for _, prog := range p.Document.Programs {
			if prog != nil {
				duration += prog.EffectiveDuration()
			}
		}
	}
	frames = int(math.Ceil(duration*float64(p.Config.FPS) - 1e-9))
	return duration, max(frames, 1)
}

// Run plays the document on a synthetic clock and encodes one frame per tick.
// Scenes are captured sequentially, rendered in parallel batches and
// encoded in order.
func (p *Project) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	startTime := time.Now()

	if len(p.Document.Programs) == 0 {
		return stats, errors.New("документ не содержит программ")
	}

	width, height := p.Document.Display.Size()
	scale := p.Renderer.Scale
	frameW, frameH := width*scale, height*scale

	duration, frameCount := p.Plan()
	dt := 1 / float64(p.Config.FPS)

	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.RecommendedWorkers(frameW * frameH * 4)
	}

	fmt.Println("--- [PROJECT: LED SIGN EXPORT] ---")
	fmt.Printf("[*] Документ: %s | Программ: %d\n", p.Document.Name, len(p.Document.Programs))
	fmt.Printf("[*] Табло: %dx%d точек (x%d) @ %d FPS | %.2fs, %d кадров\n", width, height, scale, p.Config.FPS, duration, frameCount)
	fmt.Println("-----------------------------")

	enc, err := p.newEncoder(ctx, video.Options{
		Width:        frameW,
		Height:       frameH,
		FPS:          p.Config.FPS,
		FrameDelay:   dt,
		Palette:      p.Renderer.Palette(),
		VideoEncoder: p.Config.VideoEncoder,
		Quality:      p.Config.Quality,
	})
	if err != nil {
		return stats, fmt.Errorf("ошибка инициализации энкодера: %w", err)
	}

	seq := sequencer.New(sequencer.WithLogger(p.log), sequencer.WithLooping(p.Config.Loop))
	p.count(&stats, seq.SetPrograms(p.Document.Programs))
	p.count(&stats, seq.Play())

	batchSize := workers * 4
	scenes := make([]renderer.Scene, 0, batchSize)

	for i := 0; i < frameCount; i++ {
		if i > 0 {
			p.count(&stats, seq.OnTick(dt))
		}
		now := p.Start.Add(time.Duration(float64(i) * dt * float64(time.Second)))
		scenes = append(scenes, renderer.Capture(seq, width, height, now))

		if len(scenes) < batchSize && i < frameCount-1 {
			continue
		}
		if err := p.flush(ctx, enc, scenes, workers, &stats); err != nil {
			enc.Close()
			return stats, err
		}
		scenes = scenes[:0]
		fmt.Printf("[>] Ready: %d/%d\n", stats.Frames, frameCount)
	}

	encodeStart := time.Now()
	if err := enc.Close(); err != nil {
		return stats, fmt.Errorf("ошибка сборки финального файла: %w", err)
	}
	stats.Encode += time.Since(encodeStart)
	stats.Total = time.Since(startTime)

	if p.Config.ShowStats {
		p.report(stats)
	}
	return stats, nil
}

// flush renders a batch of scenes on the worker pool and encodes the frames.
func (p *Project) flush(ctx context.Context, enc video.FrameEncoder, scenes []renderer.Scene, workers int, stats *Stats) error {
	frames := make([]*image.RGBA, len(scenes))
	defer func() {
		for _, f := range frames {
			if f != nil {
				p.Renderer.Release(f)
			}
		}
	}()

	renderStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sc := range scenes {
		i, sc := i, sc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			frames[i] = p.Renderer.Render(sc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	stats.Render += time.Since(renderStart)

	encodeStart := time.Now()
	for i, f := range frames {
		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("кадр %d: %w", stats.Frames+i, err)
		}
	}
	stats.Encode += time.Since(encodeStart)
	stats.Frames += len(frames)
	return nil
}

func (p *Project) count(stats *Stats, evs []sequencer.Event) {
	stats.Events += len(evs)
	for _, e := range evs {
		if e.Kind == sequencer.ProgramChanged {
			stats.ProgramChanges++
		}
	}
}

func (p *Project) report(stats Stats) {
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Frames: %d | Events: %d | Program changes: %d\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, stats.Total.Seconds(), stats.Render.Seconds(), stats.Encode.Seconds(),
		stats.Frames, stats.Events, stats.ProgramChanges, stats.FPS(),
	)
	fmt.Print(report)

	if p.BenchmarkLog == "" {
		return
	}
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Format: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.DocumentPath),
		p.Config.Format,
		stats.Frames,
		stats.Total.Seconds(),
		stats.Render.Seconds(),
		stats.Encode.Seconds(),
		stats.FPS(),
	)

	if err := appendLine(p.BenchmarkLog, logEntry); err != nil {
		fmt.Printf("[!] Не удалось записать %s: %v\n", p.BenchmarkLog, err)
	}
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
