package sequencer

import "github.com/ivlev/ledsign/internal/program"

// stopPhase is the sub-state of an item's stop cycle. An item without a
// timer is idle.
type stopPhase int

const (
	// phaseCycling moves forward one step every stepDuration.
	phaseCycling stopPhase = iota
	// phaseAwaitingMain holds the main content for a full step after a
	// return to step 0, then jumps to the first stop.
	phaseAwaitingMain
)

type stopTimer struct {
	item         *program.Item
	phase        stopPhase
	step         int // 0 = main content, n = stop n-1
	elapsed      float64
	stepDuration float64
}

func newStopTimer(item *program.Item, p *program.Program) *stopTimer {
	return &stopTimer{
		item:         item,
		phase:        phaseCycling,
		stepDuration: item.Stops.StepDuration(p),
	}
}

// stepChange describes a boundary crossed during advance.
type stepChange struct {
	from int
	to   int
}

// advance moves the timer forward by dt. At most one step boundary is crossed
// per call.
func (t *stopTimer) advance(dt float64, p *program.Program) (stepChange, bool) {
	stops := 0
	if t.item.Stops != nil {
		stops = len(t.item.Stops.List)
	}

	t.elapsed += dt
	if t.elapsed < t.stepDuration {
		return stepChange{}, false
	}

	from := t.step
	t.elapsed = 0
	t.stepDuration = t.item.Stops.StepDuration(p)

	switch t.phase {
	case phaseAwaitingMain:
		t.phase = phaseCycling
		if stops == 0 {
			t.step = 0
			return stepChange{}, false
		}
		t.step = 1
	default:
		t.step = (t.step + 1) % (stops + 1)
		if t.step == 0 {
			t.phase = phaseAwaitingMain
		}
	}

	return stepChange{from: from, to: t.step}, true
}

// rewind puts the timer back on its main content for a full step.
func (t *stopTimer) rewind(p *program.Program) {
	t.step = 0
	t.elapsed = 0
	t.phase = phaseAwaitingMain
	t.stepDuration = t.item.Stops.StepDuration(p)
}

// stepContent resolves what an item shows on a given step.
func stepContent(item *program.Item, step int) string {
	if item == nil {
		return ""
	}
	if step <= 0 || item.Stops == nil || step > len(item.Stops.List) {
		return item.Content
	}
	return item.Stops.List[step-1].Name
}

// stepStop returns the stop shown on a step, nil for the main content.
func stepStop(item *program.Item, step int) *program.Stop {
	if item == nil || step <= 0 || item.Stops == nil || step > len(item.Stops.List) {
		return nil
	}
	return &item.Stops.List[step-1]
}
