package sequencer

import "github.com/ivlev/ledsign/internal/program"

// CurrentProgramIndex returns the index of the program on air
func (s *Sequencer) CurrentProgramIndex() int { return s.index }

// CurrentProgram returns the program on air, nil when there are no programs.
func (s *Sequencer) CurrentProgram() *program.Program {
	if s.index < 0 || s.index >= len(s.programs) {
		return nil
	}
	return s.programs[s.index]
}

// Programs returns a copy of the program list
func (s *Sequencer) Programs() []*program.Program {
	out := make([]*program.Program, len(s.programs))
	copy(out, s.programs)
	return out
}

func (s *Sequencer) IsPlaying() bool { return s.playing }
func (s *Sequencer) IsLooping() bool { return s.looping }

// ProgramElapsedTime returns how long the current program has been on air
func (s *Sequencer) ProgramElapsedTime() float64 { return s.elapsed }

// Clock returns the total ticked playback time
func (s *Sequencer) Clock() float64 { return s.clock }

// EffectiveDuration returns how long the current program will be held.
func (s *Sequencer) EffectiveDuration() float64 {
	return s.CurrentProgram().EffectiveDuration()
}

// IsActive reports whether the program with the given id is on air.
func (s *Sequencer) IsActive(programID string) bool {
	p := s.CurrentProgram()
	return p != nil && p.ID == programID
}

// CurrentStopIndex returns the step an item shows: 0 for main content, n for stop n-1.
func (s *Sequencer) CurrentStopIndex(itemID int) int {
	if t, ok := s.timers[itemID]; ok {
		return t.step
	}
	return 0
}

// DisplayContent resolves the text an item currently shows. It never mutates
// state.
func (s *Sequencer) DisplayContent(item *program.Item) string {
	if item == nil {
		return ""
	}
	if !item.HasStops() {
		return item.Content
	}
	return stepContent(item, s.CurrentStopIndex(item.ID))
}

func (s *Sequencer) IsInStopTransition(itemID int) bool {
	_, ok := s.stopTransitions[itemID]
	return ok
}

// StopTransitionProgress returns the item's stop transition progress, 0 when idle.
func (s *Sequencer) StopTransitionProgress(itemID int) float64 {
	if tr, ok := s.stopTransitions[itemID]; ok {
		return tr.progress()
	}
	return 0
}

// StopTransition returns a view of the item's stop transition, if one is running.
func (s *Sequencer) StopTransition(itemID int) (StopTransition, bool) {
	tr, ok := s.stopTransitions[itemID]
	if !ok {
		return StopTransition{}, false
	}
	return StopTransition{
		Item:     tr.item,
		FromStep: tr.fromStep,
		ToStep:   tr.toStep,
		Kind:     tr.kind,
		Elapsed:  tr.elapsed,
		Total:    tr.total,
		Progress: tr.progress(),
	}, true
}

func (s *Sequencer) IsInProgramTransition() bool {
	return s.programTransition != nil
}

// ProgramTransitionProgress returns the program transition progress, 0 when idle.
func (s *Sequencer) ProgramTransitionProgress() float64 {
	if s.programTransition == nil {
		return 0
	}
	return s.programTransition.progress()
}

// ProgramTransition returns a view of the program transition, if one is running.
func (s *Sequencer) ProgramTransition() (ProgramTransition, bool) {
	pt := s.programTransition
	if pt == nil {
		return ProgramTransition{}, false
	}
	return ProgramTransition{
		From:     pt.from,
		To:       pt.to,
		Kind:     pt.kind,
		Elapsed:  pt.elapsed,
		Total:    pt.total,
		Progress: pt.progress(),
	}, true
}
