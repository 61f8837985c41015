package sequencer

import "github.com/ivlev/ledsign/internal/program"

// tracker counts elapsed time against a total duration.
type tracker struct {
	elapsed float64
	total   float64
}

// advance adds dt and reports whether the tracker is done.
func (t *tracker) advance(dt float64) bool {
	t.elapsed += dt
	return t.elapsed >= t.total
}

func (t tracker) progress() float64 {
	if t.total <= 0 {
		return 1
	}
	return clamp01(t.elapsed / t.total)
}

type programTransition struct {
	tracker
	from *program.Program
	to   *program.Program
	kind program.TransitionKind
}

type stopTransition struct {
	tracker
	item     *program.Item
	fromStep int
	toStep   int
	kind     program.StopAnimationKind

	// fresh transitions were created during the current tick and start advancing on the next one
	fresh bool
}

// ProgramTransition is a read-only view of the program transition in flight.
type ProgramTransition struct {
	From     *program.Program // nil when nothing was on air before
	To       *program.Program
	Kind     program.TransitionKind
	Elapsed  float64
	Total    float64
	Progress float64
}

// StopTransition is a read-only view of an item's stop transition in flight.
// Steps use stop timer numbering: 0 is the main content, n is stop n-1.
type StopTransition struct {
	Item     *program.Item
	FromStep int
	ToStep   int
	Kind     program.StopAnimationKind
	Elapsed  float64
	Total    float64
	Progress float64
}

// FromContent returns the text shown before the transition
func (t StopTransition) FromContent() string {
	return stepContent(t.Item, t.FromStep)
}

// ToContent returns the text shown after the transition
func (t StopTransition) ToContent() string {
	return stepContent(t.Item, t.ToStep)
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
