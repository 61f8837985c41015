// Package player drives a Sequencer in real time.
//
// The player owns the sequencer on a single goroutine. Clock ticks become
// OnTick calls, control requests from other goroutines are queued on a
// command channel and applied between ticks, and every produced event is
// published on the bus.
package player

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ivlev/ledsign/internal/events"
	"github.com/ivlev/ledsign/internal/program"
	"github.com/ivlev/ledsign/internal/sequencer"
)

// ErrPlayerStopped is returned by Send once Run has returned.
var ErrPlayerStopped = errors.New("player stopped")

// CommandType selects a control operation
type CommandType int

const (
	CommandPlay CommandType = iota + 1
	CommandPause
	CommandStop
	CommandNext
	CommandPrevious
	CommandGoTo
	CommandSetPrograms
	CommandSetLooping
	CommandSnapshot
)

// Command is a control request applied on the clock goroutine.
type Command struct {
	Type     CommandType
	Index    int                // CommandGoTo
	Programs []*program.Program // CommandSetPrograms
	Loop     bool               // CommandSetLooping

	// Resp, if set, receives the state right after the command was applied.
	// It must have room for one value: the clock goroutine blocks on the send.
	Resp chan<- Snapshot
}

// Snapshot is a copy of the sequencer state safe to read on any goroutine.
type Snapshot struct {
	Index     int
	ProgramID string
	Playing   bool
	Looping   bool
	Elapsed   float64
	Clock     float64

	// Content maps item id to the text it currently displays.
	Content map[int]string

	InProgramTransition bool
	ProgramProgress     float64
}

// FrameFunc is called on the clock goroutine after every tick. It may read
// the sequencer but must not mutate it.
type FrameFunc func(seq *sequencer.Sequencer)

// Player is the real-time driver
type Player struct {
	seq      *sequencer.Sequencer
	bus      *events.Bus
	interval time.Duration
	commands chan Command
	done     chan struct{}
	ticks    <-chan time.Time
	onFrame  FrameFunc
	log      *slog.Logger
}

// Option configures a Player
type Option func(*Player)

// WithTicks replaces the internal ticker with an external time source.
// Deltas are computed from the received timestamps.
func WithTicks(ticks <-chan time.Time) Option {
	return func(p *Player) { p.ticks = ticks }
}

// WithFrameFunc installs a per-frame callback, typically a renderer
func WithFrameFunc(fn FrameFunc) Option {
	return func(p *Player) { p.onFrame = fn }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a player ticking fps times per second. A nil bus is replaced
// by a private one without subscribers.
func New(seq *sequencer.Sequencer, bus *events.Bus, fps int, opts ...Option) *Player {
	if fps <= 0 {
		fps = 30
	}
	if bus == nil {
		bus = events.NewBus()
	}
	p := &Player{
		seq:      seq,
		bus:      bus,
		interval: time.Second / time.Duration(fps),
		commands: make(chan Command, 16),
		done:     make(chan struct{}),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send queues a command. It blocks until the command is queued, ctx is done
// or the player has stopped.
func (p *Player) Send(ctx context.Context, cmd Command) error {
	select {
	case <-p.done:
		return ErrPlayerStopped
	default:
	}

	select {
	case p.commands <- cmd:
		return nil
	case <-p.done:
		return ErrPlayerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot asks the clock goroutine for the current state.
func (p *Player) Snapshot(ctx context.Context) (Snapshot, error) {
	resp := make(chan Snapshot, 1)
	if err := p.Send(ctx, Command{Type: CommandSnapshot, Resp: resp}); err != nil {
		return Snapshot{}, err
	}
	select {
	case snap := <-resp:
		return snap, nil
	case <-p.done:
		return Snapshot{}, ErrPlayerStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Run drives the sequencer until ctx is cancelled or the tick source closes.
// Commands already queued when a tick arrives are applied before that tick,
// so a command sent right after a tick may still land ahead of it.
func (p *Player) Run(ctx context.Context) error {
	defer close(p.done)

	ticks := p.ticks
	if ticks == nil {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	p.log.Info("player: started", "interval", p.interval)

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			p.log.Info("player: stopped", "clock", p.seq.Clock())
			return ctx.Err()

		case cmd := <-p.commands:
			p.apply(cmd)

		case now, ok := <-ticks:
			if !ok {
				p.log.Info("player: tick source closed")
				return nil
			}
			dt := 0.0
			if !last.IsZero() {
				dt = now.Sub(last).Seconds()
			}
			last = now

			// commands queued before this tick take effect before it
			p.drain()
			p.bus.Publish(p.seq.OnTick(dt)...)
			if p.onFrame != nil {
				p.onFrame(p.seq)
			}
		}
	}
}

func (p *Player) drain() {
	for {
		select {
		case cmd := <-p.commands:
			p.apply(cmd)
		default:
			return
		}
	}
}

func (p *Player) apply(cmd Command) {
	var evs []sequencer.Event
	switch cmd.Type {
	case CommandPlay:
		evs = p.seq.Play()
	case CommandPause:
		evs = p.seq.Pause()
	case CommandStop:
		evs = p.seq.Stop()
	case CommandNext:
		evs = p.seq.NextProgram()
	case CommandPrevious:
		evs = p.seq.PreviousProgram()
	case CommandGoTo:
		evs = p.seq.GoToProgram(cmd.Index)
	case CommandSetPrograms:
		evs = p.seq.SetPrograms(cmd.Programs)
	case CommandSetLooping:
		p.seq.SetLooping(cmd.Loop)
	case CommandSnapshot:
	default:
		p.log.Warn("player: unknown command", "type", int(cmd.Type))
	}

	p.bus.Publish(evs...)
	if cmd.Resp != nil {
		cmd.Resp <- takeSnapshot(p.seq)
	}
}

func takeSnapshot(seq *sequencer.Sequencer) Snapshot {
	snap := Snapshot{
		Index:               seq.CurrentProgramIndex(),
		Playing:             seq.IsPlaying(),
		Looping:             seq.IsLooping(),
		Elapsed:             seq.ProgramElapsedTime(),
		Clock:               seq.Clock(),
		Content:             make(map[int]string),
		InProgramTransition: seq.IsInProgramTransition(),
		ProgramProgress:     seq.ProgramTransitionProgress(),
	}
	if cur := seq.CurrentProgram(); cur != nil {
		snap.ProgramID = cur.ID
		for _, it := range cur.Items {
			snap.Content[it.ID] = seq.DisplayContent(it)
		}
	}
	return snap
}
