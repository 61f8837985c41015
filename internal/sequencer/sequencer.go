package sequencer

import (
	"log/slog"
	"math"

	"github.com/ivlev/ledsign/internal/program"
)

// Sequencer decides which program is on air, which stop every item shows and
// which transitions are running.
type Sequencer struct {
	programs []*program.Program
	index    int
	playing  bool
	looping  bool

	elapsed float64 // time on the current program
	clock   float64 // total ticked time, stamps events

	timers      map[int]*stopTimer
	timerOrder  []int // item ids in program order, keeps ticks deterministic
	timersReady bool

	programTransition *programTransition
	stopTransitions   map[int]*stopTransition

	outbox []Event
	log    *slog.Logger
}

// Option configures a Sequencer
type Option func(*Sequencer)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLooping sets the initial looping policy. Sequencers loop by default.
func WithLooping(loop bool) Option {
	return func(s *Sequencer) {
		s.looping = loop
	}
}

// New creates an empty, stopped Sequencer.
func New(opts ...Option) *Sequencer {
	s := &Sequencer{
		looping:         true,
		timers:          make(map[int]*stopTimer),
		stopTransitions: make(map[int]*stopTransition),
		log:             slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Control ---

// SetPrograms replaces the program list and rewinds playback to the first
// program. The playing state is kept.
func (s *Sequencer) SetPrograms(list []*program.Program) []Event {
	previous := s.CurrentProgram()
	for _, p := range s.programs {
		p.IsActive = false
	}

	s.programs = make([]*program.Program, 0, len(list))
	for _, p := range list {
		if p != nil {
			p.IsActive = false
			s.programs = append(s.programs, p)
		}
	}

	s.index = 0
	s.elapsed = 0
	s.clearTransitions()
	s.clearTimers()

	current := s.CurrentProgram()
	if current == nil {
		s.log.Info("sequencer: program list cleared")
		return s.flush()
	}

	s.buildTimers()
	current.IsActive = true
	if !sameProgram(previous, current) {
		s.emitProgramChanged(current)
	}
	s.emitMainShowing()

	s.log.Info("sequencer: programs loaded", "count", len(s.programs))
	return s.flush()
}

// Play starts or resumes playback.
func (s *Sequencer) Play() []Event {
	current := s.CurrentProgram()
	if current == nil {
		return nil
	}

	s.playing = true
	if !s.timersReady {
		s.buildTimers()
		s.emitMainShowing()
	}
	current.IsActive = true
	return s.flush()
}

// Pause halts ticking without touching any timer.
func (s *Sequencer) Pause() []Event {
	s.playing = false
	return s.flush()
}

// Stop halts playback and rewinds to the first program.
func (s *Sequencer) Stop() []Event {
	s.playing = false

	previous := s.CurrentProgram()
	if previous != nil {
		previous.IsActive = false
	}

	s.index = 0
	s.elapsed = 0
	s.clearTransitions()
	s.clearTimers()

	if current := s.CurrentProgram(); current != nil {
		current.IsActive = true
		if !sameProgram(previous, current) {
			s.emitProgramChanged(current)
		}
	}
	return s.flush()
}

// NextProgram moves to the following program. Past the end it wraps when
// looping, otherwise playback stops on the last program.
func (s *Sequencer) NextProgram() []Event {
	s.next()
	return s.flush()
}

// PreviousProgram moves to the preceding program. Before the start it wraps
// to the last program when looping, otherwise it stays on the first.
func (s *Sequencer) PreviousProgram() []Event {
	s.previous()
	return s.flush()
}

// GoToProgram selects a program by index, clamped into range. Selecting the
// program already on air restarts it in place.
func (s *Sequencer) GoToProgram(index int) []Event {
	s.goTo(index)
	return s.flush()
}

// SetLooping changes the looping policy
func (s *Sequencer) SetLooping(loop bool) {
	s.looping = loop
}

// --- Tick ---

// OnTick advances playback by dt seconds.
func (s *Sequencer) OnTick(dt float64) []Event {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		s.log.Warn("sequencer: invalid tick delta treated as zero", "delta", dt)
		dt = 0
	}

	current := s.CurrentProgram()
	if !s.playing || current == nil {
		return nil
	}

	s.clock += dt

	if pt := s.programTransition; pt != nil {
		done := pt.advance(dt)
		s.emit(Event{
			Kind:        ProgramTransitionProgress,
			Program:     pt.to,
			FromProgram: pt.from,
			Progress:    pt.progress(),
		})
		if done {
			s.programTransition = nil
			s.emit(Event{Kind: ProgramTransitionCompleted, Program: pt.to, FromProgram: pt.from, Progress: 1})
		}
	}

	s.elapsed += dt

	if s.elapsed >= current.EffectiveDuration() {
		s.next()
		return s.flush()
	}

	s.advanceStopTimers(dt, current)
	s.advanceStopTransitions(dt)

	return s.flush()
}

func (s *Sequencer) advanceStopTimers(dt float64, current *program.Program) {
	for _, id := range s.timerOrder {
		t := s.timers[id]
		change, crossed := t.advance(dt, current)
		if !crossed {
			continue
		}

		if change.to == 0 {
			s.emit(Event{Kind: MainContentShowing, Item: t.item})
		} else {
			s.emit(Event{
				Kind:      StopChanged,
				Item:      t.item,
				Stop:      stepStop(t.item, change.to),
				StopIndex: change.to - 1,
			})
		}

		anim := t.item.Stops.Animation
		if !anim.Animated() {
			continue
		}
		if prev, running := s.stopTransitions[id]; running {
			s.emit(Event{
				Kind:     StopTransitionCompleted,
				Item:     prev.item,
				FromStop: stepStop(prev.item, prev.fromStep),
				Stop:     stepStop(prev.item, prev.toStep),
				Progress: 1,
			})
		}
		s.stopTransitions[id] = &stopTransition{
			tracker:  tracker{total: anim.Seconds()},
			item:     t.item,
			fromStep: change.from,
			toStep:   change.to,
			kind:     anim.Kind,
			fresh:    true,
		}
		s.emit(Event{
			Kind:     StopTransitionStarted,
			Item:     t.item,
			FromStop: stepStop(t.item, change.from),
			Stop:     stepStop(t.item, change.to),
		})
	}
}

func (s *Sequencer) advanceStopTransitions(dt float64) {
	for _, id := range s.timerOrder {
		tr, ok := s.stopTransitions[id]
		if !ok {
			continue
		}
		if tr.fresh {
			tr.fresh = false
			continue
		}

		done := tr.advance(dt)
		from, to := stepStop(tr.item, tr.fromStep), stepStop(tr.item, tr.toStep)
		s.emit(Event{Kind: StopTransitionProgress, Item: tr.item, FromStop: from, Stop: to, Progress: tr.progress()})
		if done {
			delete(s.stopTransitions, id)
			s.emit(Event{Kind: StopTransitionCompleted, Item: tr.item, FromStop: from, Stop: to, Progress: 1})
		}
	}
}

// --- Navigation ---

func (s *Sequencer) next() {
	if len(s.programs) == 0 {
		return
	}
	i := s.index + 1
	if i >= len(s.programs) {
		if !s.looping {
			s.playing = false
			s.log.Info("sequencer: reached last program, stopping", "index", s.index)
			return
		}
		i = 0
	}
	s.goTo(i)
}

func (s *Sequencer) previous() {
	if len(s.programs) == 0 {
		return
	}
	i := s.index - 1
	if i < 0 {
		if s.looping {
			i = len(s.programs) - 1
		} else {
			i = 0
		}
	}
	s.goTo(i)
}

func (s *Sequencer) goTo(index int) {
	n := len(s.programs)
	if n == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > n-1 {
		index = n - 1
	}

	if index == s.index {
		s.restartInPlace()
		return
	}

	old := s.programs[s.index]
	old.IsActive = false
	s.clearTransitions()

	target := s.programs[index]
	if target.Transition.Animated() {
		s.programTransition = &programTransition{
			tracker: tracker{total: target.Transition.Seconds()},
			from:    old,
			to:      target,
			kind:    target.Transition.Kind,
		}
		s.emit(Event{Kind: ProgramTransitionStarted, Program: target, FromProgram: old})
	}

	s.index = index
	s.elapsed = 0
	s.clearTimers()
	s.buildTimers()
	target.IsActive = true

	s.emitProgramChanged(target)
	s.emitMainShowing()
}

// restartInPlace rewinds the current program and every item's stop cycle,
// holding main content for a full step.
func (s *Sequencer) restartInPlace() {
	current := s.programs[s.index]
	s.elapsed = 0
	s.clearTransitions()
	if !s.timersReady {
		s.buildTimers()
	}
	for _, id := range s.timerOrder {
		s.timers[id].rewind(current)
	}
	current.IsActive = true
	s.emitMainShowing()
}

// --- Timers ---

func (s *Sequencer) buildTimers() {
	current := s.CurrentProgram()
	s.timersReady = true
	if current == nil {
		return
	}
	for _, it := range current.Items {
		if !it.HasStops() {
			continue
		}
		if _, dup := s.timers[it.ID]; !dup {
			s.timerOrder = append(s.timerOrder, it.ID)
		}
		s.timers[it.ID] = newStopTimer(it, current)
	}
}

func (s *Sequencer) clearTimers() {
	clear(s.timers)
	s.timerOrder = s.timerOrder[:0]
	s.timersReady = false
}

func (s *Sequencer) clearTransitions() {
	s.programTransition = nil
	clear(s.stopTransitions)
}

// --- Events ---

func (s *Sequencer) emit(e Event) {
	e.Time = s.clock
	s.log.Debug("sequencer: event", "kind", e.Kind.String(), "time", e.Time)
	s.outbox = append(s.outbox, e)
}

func (s *Sequencer) emitProgramChanged(p *program.Program) {
	s.log.Info("sequencer: program changed", "index", s.index, "id", p.ID, "name", p.Name)
	s.emit(Event{Kind: ProgramChanged, Program: p})
}

func (s *Sequencer) emitMainShowing() {
	for _, id := range s.timerOrder {
		s.emit(Event{Kind: MainContentShowing, Item: s.timers[id].item})
	}
}

func (s *Sequencer) flush() []Event {
	if len(s.outbox) == 0 {
		return nil
	}
	out := s.outbox
	s.outbox = nil
	return out
}

func sameProgram(a, b *program.Program) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	return a.ID != "" && a.ID == b.ID
}
