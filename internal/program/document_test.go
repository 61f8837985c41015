package program

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
version: "1.0"
name: Route 42
display:
  width: 96
  height: 16
programs:
  - id: headline
    name: Headline
    duration: 6
    transition:
      kind: fade
      duration_ms: 300
    items:
      - id: 1
        kind: text
        content: "42 Harbour"
        stops:
          auto_duration: true
          animation:
            kind: scroll-up
            duration_ms: 200
          list:
            - name: Main St
            - name: Station
      - id: 2
        kind: clock
        x: 70
        content: "15:04"
  - name: Notice
    duration: 3
    items:
      - id: 3
        content: "Mind the gap"
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if doc.Display.Width != 96 || doc.Display.Height != 16 {
		t.Errorf("Expected display 96x16, got %dx%d", doc.Display.Width, doc.Display.Height)
	}
	if len(doc.Programs) != 2 {
		t.Fatalf("Expected 2 programs, got %d", len(doc.Programs))
	}

	head := doc.Programs[0]
	if head.Transition.Kind != TransitionFade || head.Transition.DurationMs != 300 {
		t.Errorf("Expected fade/300ms, got %s/%d", head.Transition.Kind, head.Transition.DurationMs)
	}
	if !head.Items[0].HasStops() {
		t.Fatal("Expected first item to carry stops")
	}
	if head.Items[0].Stops.Animation.Kind != StopAnimationScrollUp {
		t.Errorf("Expected scroll-up animation, got %s", head.Items[0].Stops.Animation.Kind)
	}
	if head.Items[1].Kind != ItemClock {
		t.Errorf("Expected clock item, got %s", head.Items[1].Kind)
	}

	notice := doc.Programs[1]
	if notice.ID == "" {
		t.Error("Expected generated id for program without one")
	}
	if notice.Transition.Kind != TransitionDirect {
		t.Errorf("Expected direct transition by default, got %s", notice.Transition.Kind)
	}
}

func TestParseDocumentRejectsUnknownKind(t *testing.T) {
	bad := strings.Replace(sampleYAML, "kind: fade", "kind: spiral", 1)
	if _, err := ParseDocument([]byte(bad)); err == nil {
		t.Error("Expected error for unknown transition kind")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{
			name: "valid",
			doc: Document{Programs: []*Program{
				{ID: "a", Duration: 2, Items: []*Item{{ID: 1}}},
			}},
		},
		{
			name: "zero duration without stops",
			doc: Document{Programs: []*Program{
				{ID: "a", Duration: 0},
			}},
			wantErr: true,
		},
		{
			name: "zero duration extended by fixed stop cycle",
			doc: Document{Programs: []*Program{
				{ID: "a", Duration: 0, Items: []*Item{{ID: 1, Stops: &StopSettings{FixedDuration: 1, List: []Stop{{Name: "x"}}}}}},
			}},
		},
		{
			name: "duplicate item ids",
			doc: Document{Programs: []*Program{
				{ID: "a", Duration: 1, Items: []*Item{{ID: 1}}},
				{ID: "b", Duration: 1, Items: []*Item{{ID: 1}}},
			}},
			wantErr: true,
		},
		{
			name: "fixed stop duration missing",
			doc: Document{Programs: []*Program{
				{ID: "a", Duration: 1, Items: []*Item{{ID: 1, Stops: &StopSettings{List: []Stop{{Name: "x"}}}}}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestEffectiveDuration(t *testing.T) {
	p := &Program{
		Duration: 4,
		Items: []*Item{
			{ID: 1, Stops: &StopSettings{AutoDuration: true, List: []Stop{{Name: "a"}, {Name: "b"}}}},
			{ID: 2, Stops: &StopSettings{FixedDuration: 2.5, List: []Stop{{Name: "a"}, {Name: "b"}}}},
			{ID: 3},
		},
	}

	if got := p.Items[0].Stops.StepDuration(p); math.Abs(got-4.0/3.0) > 1e-9 {
		t.Errorf("Expected auto step 1.333, got %f", got)
	}
	// Longest item wins: 3 steps * 2.5s
	if got := p.EffectiveDuration(); got != 7.5 {
		t.Errorf("Expected effective duration 7.5, got %f", got)
	}
}

func TestWriteReadDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sign.yaml")
	if err := WriteDocument(doc, path); err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}

	read, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}

	if read.Programs[1].ID != doc.Programs[1].ID {
		t.Errorf("Generated id not persisted: expected %s, got %s", doc.Programs[1].ID, read.Programs[1].ID)
	}
	if read.Programs[0].Items[0].Stops.Animation.Kind != StopAnimationScrollUp {
		t.Errorf("Stop animation lost on round trip")
	}
}

func TestMissingIDsAreStableAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sign.yaml")
	first, err := ParseDocument([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteDocument(&Document{Name: first.Name, Programs: []*Program{{Name: "Notice", Duration: 3}, {Name: "Notice", Duration: 3}}}, path); err != nil {
		t.Fatal(err)
	}

	a, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}
	b, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}

	for i := range a.Programs {
		if a.Programs[i].ID == "" || a.Programs[i].ID != b.Programs[i].ID {
			t.Errorf("Program %d: ids differ between loads: %q vs %q", i, a.Programs[i].ID, b.Programs[i].ID)
		}
	}
	if a.Programs[0].ID == a.Programs[1].ID {
		t.Error("Programs with the same name at different positions must get different ids")
	}
	if first.Programs[0].ID != "headline" {
		t.Errorf("Explicit id was overwritten: %q", first.Programs[0].ID)
	}
}
