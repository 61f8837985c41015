package program

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TransitionKind selects the program-level transition effect.
type TransitionKind int

const (
	TransitionDirect TransitionKind = iota
	TransitionFade
	TransitionSlideLeft
	TransitionSlideUp
	TransitionWipe
)

var transitionNames = map[TransitionKind]string{
	TransitionDirect:    "direct",
	TransitionFade:      "fade",
	TransitionSlideLeft: "slide-left",
	TransitionSlideUp:   "slide-up",
	TransitionWipe:      "wipe",
}

func (k TransitionKind) String() string {
	if s, ok := transitionNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseTransitionKind parses the YAML name of a transition. Empty means direct.
func ParseTransitionKind(s string) (TransitionKind, error) {
	if s == "" || s == "none" {
		return TransitionDirect, nil
	}
	for k, name := range transitionNames {
		if name == s {
			return k, nil
		}
	}
	return TransitionDirect, fmt.Errorf("unknown transition kind: %s", s)
}

func (k TransitionKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *TransitionKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseTransitionKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = parsed
	return nil
}

// StopAnimationKind selects how an item changes between stop steps.
type StopAnimationKind int

const (
	StopAnimationInstant StopAnimationKind = iota
	StopAnimationFade
	StopAnimationScrollUp
	StopAnimationScrollLeft
)

var stopAnimationNames = map[StopAnimationKind]string{
	StopAnimationInstant:    "instant",
	StopAnimationFade:       "fade",
	StopAnimationScrollUp:   "scroll-up",
	StopAnimationScrollLeft: "scroll-left",
}

func (k StopAnimationKind) String() string {
	if s, ok := stopAnimationNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseStopAnimationKind parses the YAML name of a stop animation. Empty means instant.
func ParseStopAnimationKind(s string) (StopAnimationKind, error) {
	if s == "" {
		return StopAnimationInstant, nil
	}
	for k, name := range stopAnimationNames {
		if name == s {
			return k, nil
		}
	}
	return StopAnimationInstant, fmt.Errorf("unknown stop animation: %s", s)
}

func (k StopAnimationKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *StopAnimationKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseStopAnimationKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = parsed
	return nil
}

// ItemKind is the type of content an item renders
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemClock
	ItemSymbol
	ItemQR
)

var itemKindNames = map[ItemKind]string{
	ItemText:   "text",
	ItemClock:  "clock",
	ItemSymbol: "symbol",
	ItemQR:     "qr",
}

func (k ItemKind) String() string {
	if s, ok := itemKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseItemKind parses the YAML name of an item kind. Empty means text.
func ParseItemKind(s string) (ItemKind, error) {
	if s == "" {
		return ItemText, nil
	}
	for k, name := range itemKindNames {
		if name == s {
			return k, nil
		}
	}
	return ItemText, fmt.Errorf("unknown item kind: %s", s)
}

func (k ItemKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *ItemKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseItemKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = parsed
	return nil
}
