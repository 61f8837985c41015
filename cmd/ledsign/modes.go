package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ivlev/ledsign/internal/config"
	"github.com/ivlev/ledsign/internal/events"
	"github.com/ivlev/ledsign/internal/export"
	"github.com/ivlev/ledsign/internal/player"
	"github.com/ivlev/ledsign/internal/program"
	"github.com/ivlev/ledsign/internal/renderer"
	"github.com/ivlev/ledsign/internal/sequencer"
	"github.com/ivlev/ledsign/internal/source"
)

// quiet reports events that fire every frame while a transition runs
func quiet(e sequencer.Event) bool {
	return e.Kind == sequencer.ProgramTransitionProgress || e.Kind == sequencer.StopTransitionProgress
}

// runSimulate plays the document on a fixed-step clock and prints the event log.
func runSimulate(cfg *config.Config, doc *program.Document, w io.Writer) error {
	duration := cfg.Duration
	if duration <= 0 {
		for _, p := range doc.Programs {
			duration += p.EffectiveDuration()
		}
	}
	dt := 1 / float64(cfg.FPS)
	ticks := int(duration*float64(cfg.FPS) + 0.5)

	seq := sequencer.New(sequencer.WithLooping(cfg.Loop))
	show := func(evs []sequencer.Event) {
		for _, e := range evs {
			if !quiet(e) || cfg.Verbose {
				fmt.Fprintln(w, e)
			}
		}
	}

	fmt.Fprintf(w, "[*] Симуляция: %d программ, %.2fs, шаг %.4fs\n", len(doc.Programs), duration, dt)
	show(seq.SetPrograms(doc.Programs))
	show(seq.Play())
	for i := 0; i < ticks; i++ {
		show(seq.OnTick(dt))
	}
	fmt.Fprintf(w, "[*] Готово: программа %d, часы %.2fs\n", seq.CurrentProgramIndex(), seq.Clock())
	return nil
}

// runPlay runs the document in real time until ctx is done or the
// optional duration elapses.
func runPlay(ctx context.Context, cfg *config.Config, doc *program.Document, w io.Writer) error {
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Duration*float64(time.Second)))
		defer cancel()
	}

	bus := events.NewBus()
	defer bus.Close()

	feed := make(chan sequencer.Event, 256)
	if err := bus.Subscribe("console", feed); err != nil {
		return err
	}

	seq := sequencer.New(sequencer.WithLooping(cfg.Loop))
	p := player.New(seq, bus, cfg.FPS)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	if err := p.Send(ctx, player.Command{Type: player.CommandSetPrograms, Programs: doc.Programs}); err != nil {
		return err
	}
	if err := p.Send(ctx, player.Command{Type: player.CommandPlay}); err != nil {
		return err
	}
	fmt.Fprintf(w, "[*] Воспроизведение: %d программ @ %d FPS. Ctrl+C для выхода\n", len(doc.Programs), cfg.FPS)

	for {
		select {
		case e := <-feed:
			if !quiet(e) || cfg.Verbose {
				fmt.Fprintln(w, e)
			}
		case err := <-done:
			st := bus.Stats().Subscribers["console"]
			fmt.Fprintf(w, "[*] Остановлено. Событий: %d, пропущено: %d\n", st.Sent, st.Dropped)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

func runExport(ctx context.Context, cfg *config.Config, doc *program.Document, symbols source.Source) error {
	project := export.NewProject(cfg, doc, renderer.New(cfg.Scale, symbols))
	if _, err := project.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputPath)
	return nil
}

// sampleDocument is the layout written by -init
func sampleDocument() *program.Document {
	return &program.Document{
		Version: "1.0",
		Name:    "Route 42",
		Display: program.Display{Width: 96, Height: 16},
		Programs: []*program.Program{
			{
				Name:     "Route",
				Duration: 6,
				Items: []*program.Item{
					{ID: 1, Kind: program.ItemText, X: 0, Y: 1, Content: "42"},
					{ID: 2, Kind: program.ItemText, X: 20, Y: 1, Content: "Central Station", Stops: &program.StopSettings{
						List:         []program.Stop{{Name: "Market Sq"}, {Name: "Old Town"}, {Name: "Harbour"}},
						AutoDuration: true,
						Animation:    program.StopAnimation{Kind: program.StopAnimationScrollUp, DurationMs: 300},
					}},
				},
			},
			{
				Name:       "Clock",
				Duration:   3,
				Transition: program.Transition{Kind: program.TransitionSlideLeft, DurationMs: 500},
				Items: []*program.Item{
					{ID: 3, Kind: program.ItemClock, X: 30, Y: 1, Content: "15:04"},
				},
			},
			{
				Name:       "Timetable",
				Duration:   4,
				Transition: program.Transition{Kind: program.TransitionFade, DurationMs: 400},
				Items: []*program.Item{
					{ID: 4, Kind: program.ItemText, X: 0, Y: 1, Content: "Scan for times"},
				},
			},
		},
	}
}
