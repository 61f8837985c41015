package program

// Document is a complete sign layout: display geometry plus the ordered programs.
type Document struct {
	Version  string     `yaml:"version"`
	Name     string     `yaml:"name"`
	Display  Display    `yaml:"display"`
	Programs []*Program `yaml:"programs"`
}

// Display describes the physical dot matrix
type Display struct {
	Width  int `yaml:"width"`  // dots
	Height int `yaml:"height"` // dots
}

// Size returns the matrix size, 96x16 when unset.
func (d Display) Size() (width, height int) {
	width, height = d.Width, d.Height
	if width <= 0 {
		width = 96
	}
	if height <= 0 {
		height = 16
	}
	return width, height
}

// Program is a time-boxed screen shown on the sign
type Program struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Duration   float64    `yaml:"duration"` // seconds
	Transition Transition `yaml:"transition"`
	Items      []*Item    `yaml:"items"`

	// IsActive is maintained by the sequencer, true only for the program on air.
	IsActive bool `yaml:"-"`
}

// Transition is the visual change used when a program comes on air
type Transition struct {
	Kind       TransitionKind `yaml:"kind"`
	DurationMs int            `yaml:"duration_ms"`
}

// Animated reports whether the transition produces a visible animation.
func (t Transition) Animated() bool {
	return t.Kind != TransitionDirect && t.DurationMs > 0
}

// Seconds returns the transition length in seconds
func (t Transition) Seconds() float64 {
	return float64(t.DurationMs) / 1000.0
}

// Item is a positioned content unit owned by one program.
type Item struct {
	ID      int      `yaml:"id"` // unique within the document
	Kind    ItemKind `yaml:"kind"`
	X       int      `yaml:"x"`
	Y       int      `yaml:"y"`
	Content string   `yaml:"content"` // main content

	Stops *StopSettings `yaml:"stops,omitempty"`
}

// HasStops reports whether the item cycles through intermediate stops.
func (it *Item) HasStops() bool {
	return it != nil && it.Stops != nil && len(it.Stops.List) > 0
}

// StopSettings configures an item's intermediate stops
type StopSettings struct {
	List          []Stop        `yaml:"list"`
	AutoDuration  bool          `yaml:"auto_duration"`
	FixedDuration float64       `yaml:"fixed_duration"` // seconds per step when AutoDuration is false
	Animation     StopAnimation `yaml:"animation"`
}

// Stop is one auxiliary content value
type Stop struct {
	Name string `yaml:"name"`
}

// StopAnimation is the visual change between two consecutive steps of an item.
type StopAnimation struct {
	Kind       StopAnimationKind `yaml:"kind"`
	DurationMs int               `yaml:"duration_ms"`
}

// Animated reports whether step changes are animated.
func (a StopAnimation) Animated() bool {
	return a.Kind != StopAnimationInstant && a.DurationMs > 0
}

// Seconds returns the animation length in seconds
func (a StopAnimation) Seconds() float64 {
	return float64(a.DurationMs) / 1000.0
}

// StepDuration returns how long each step (main content included) is held
// inside program p.
func (s *StopSettings) StepDuration(p *Program) float64 {
	if s == nil {
		return 0
	}
	if s.AutoDuration && len(s.List) > 0 {
		if p == nil {
			return 0
		}
		return p.Duration / float64(len(s.List)+1)
	}
	return s.FixedDuration
}

// CycleDuration returns the time needed to show the main content and every stop once.
func (s *StopSettings) CycleDuration(p *Program) float64 {
	if s == nil || len(s.List) == 0 {
		return 0
	}
	return float64(len(s.List)+1) * s.StepDuration(p)
}

// EffectiveDuration is the time the program is actually held: its own duration,
// extended to the longest stop cycle among its items.
func (p *Program) EffectiveDuration() float64 {
	if p == nil {
		return 0
	}
	d := p.Duration
	for _, it := range p.Items {
		if !it.HasStops() {
			continue
		}
		if c := it.Stops.CycleDuration(p); c > d {
			d = c
		}
	}
	return d
}
