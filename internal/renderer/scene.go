package renderer

import (
	"time"

	"github.com/ivlev/ledsign/internal/program"
	"github.com/ivlev/ledsign/internal/sequencer"
)

// Scene is everything needed to draw one frame, detached from the sequencer
// so frames can be rendered on other goroutines.
type Scene struct {
	Width  int
	Height int

	Current    []ItemView
	Transition *ProgramTransitionView
}

// ItemView is one item as it appears in the frame
type ItemView struct {
	ID   int
	Kind program.ItemKind
	X, Y int
	Text string

	Stop *StopTransitionView
}

// StopTransitionView carries an item's stop animation
type StopTransitionView struct {
	From     string
	To       string
	Kind     program.StopAnimationKind
	Progress float64
}

// ProgramTransitionView carries the outgoing program during a program transition
type ProgramTransitionView struct {
	From     []ItemView
	Kind     program.TransitionKind
	Progress float64
}

// Capture reads the sequencer state into a Scene. now feeds clock items.
func Capture(seq *sequencer.Sequencer, width, height int, now time.Time) Scene {
	scene := Scene{Width: width, Height: height}

	current := seq.CurrentProgram()
	if current == nil {
		return scene
	}

	for _, it := range current.Items {
		if it == nil {
			continue
		}
		step := seq.CurrentStopIndex(it.ID)
		view := ItemView{
			ID:   it.ID,
			Kind: it.Kind,
			X:    it.X,
			Y:    it.Y,
			Text: resolveText(it, step, seq.DisplayContent(it), now),
		}
		if tr, ok := seq.StopTransition(it.ID); ok {
			view.Stop = &StopTransitionView{
				From:     resolveText(it, tr.FromStep, tr.FromContent(), now),
				To:       resolveText(it, tr.ToStep, tr.ToContent(), now),
				Kind:     tr.Kind,
				Progress: tr.Progress,
			}
		}
		scene.Current = append(scene.Current, view)
	}

	if pt, ok := seq.ProgramTransition(); ok && pt.From != nil {
		scene.Transition = &ProgramTransitionView{
			From:     mainViews(pt.From, now),
			Kind:     pt.Kind,
			Progress: pt.Progress,
		}
	}

	return scene
}

// mainViews shows a program that is no longer on air: every item on its main content.
func mainViews(p *program.Program, now time.Time) []ItemView {
	views := make([]ItemView, 0, len(p.Items))
	for _, it := range p.Items {
		if it == nil {
			continue
		}
		views = append(views, ItemView{
			ID:   it.ID,
			Kind: it.Kind,
			X:    it.X,
			Y:    it.Y,
			Text: resolveText(it, 0, it.Content, now),
		})
	}
	return views
}

// resolveText turns a clock item's main content, a time layout, into the
// time of day. Stops are shown literally.
func resolveText(it *program.Item, step int, content string, now time.Time) string {
	if it.Kind == program.ItemClock && step == 0 {
		return now.Format(content)
	}
	return content
}
