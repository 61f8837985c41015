package sequencer

import (
	"fmt"

	"github.com/ivlev/ledsign/internal/program"
)

// EventKind identifies a sequencer notification
type EventKind int

const (
	ProgramChanged EventKind = iota + 1
	StopChanged
	MainContentShowing
	ProgramTransitionStarted
	ProgramTransitionProgress
	ProgramTransitionCompleted
	StopTransitionStarted
	StopTransitionProgress
	StopTransitionCompleted
)

func (k EventKind) String() string {
	switch k {
	case ProgramChanged:
		return "program-changed"
	case StopChanged:
		return "stop-changed"
	case MainContentShowing:
		return "main-content-showing"
	case ProgramTransitionStarted:
		return "program-transition-started"
	case ProgramTransitionProgress:
		return "program-transition-progress"
	case ProgramTransitionCompleted:
		return "program-transition-completed"
	case StopTransitionStarted:
		return "stop-transition-started"
	case StopTransitionProgress:
		return "stop-transition-progress"
	case StopTransitionCompleted:
		return "stop-transition-completed"
	default:
		return "unknown"
	}
}

// Event is one notification produced by a control operation or a tick.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind
	Time float64 // sequencer clock, seconds of ticked playback

	// Program is the current program for ProgramChanged and the target
	// program for program transition events.
	Program     *program.Program
	FromProgram *program.Program

	Item *program.Item
	// Stop is the stop now shown (StopChanged) or the transition target;
	// nil means main content.
	Stop      *program.Stop
	FromStop  *program.Stop
	StopIndex int

	Progress float64 // [0,1], progress events only
}

// String renders the event as one log line
func (e Event) String() string {
	line := fmt.Sprintf("%7.2fs %s", e.Time, e.Kind)
	if e.FromProgram != nil {
		line += fmt.Sprintf(" from=%s", e.FromProgram.ID)
	}
	if e.Program != nil {
		line += fmt.Sprintf(" program=%s", e.Program.ID)
	}
	if e.Item != nil {
		line += fmt.Sprintf(" item=%d", e.Item.ID)
		switch e.Kind {
		case StopChanged:
			line += fmt.Sprintf(" stop=%d:%q", e.StopIndex, e.Stop.Name)
		case StopTransitionStarted, StopTransitionProgress, StopTransitionCompleted:
			line += fmt.Sprintf(" %q->%q", stopName(e.Item, e.FromStop), stopName(e.Item, e.Stop))
		}
	}
	switch e.Kind {
	case ProgramTransitionProgress, StopTransitionProgress:
		line += fmt.Sprintf(" progress=%.2f", e.Progress)
	}
	return line
}

func stopName(item *program.Item, s *program.Stop) string {
	if s == nil {
		return item.Content
	}
	return s.Name
}
