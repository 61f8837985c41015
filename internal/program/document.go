package program

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is written into new documents
const CurrentVersion = "1.0"

// WriteDocument writes a document to a YAML file
func WriteDocument(doc *Document, path string) error {
	if doc.Version == "" {
		doc.Version = CurrentVersion
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ReadDocument reads a document from a YAML file, fills missing program ids
// and validates it.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument decodes YAML bytes into a validated document
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	doc.AssignIDs()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// AssignIDs gives an identity to every program that has none. The id is a
// name-based UUID of the document name, position and program name, so the
// same file always loads with the same ids.
func (d *Document) AssignIDs() {
	for i, p := range d.Programs {
		if p != nil && p.ID == "" {
			key := fmt.Sprintf("%s/%d/%s", d.Name, i, p.Name)
			p.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
		}
	}
}

// Validate reports every authoring problem in the document.
// Duplicate item ids are reported here; the sequencer itself tolerates them.
func (d *Document) Validate() error {
	var errs []error

	if d.Display.Width < 0 || d.Display.Height < 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d is negative", d.Display.Width, d.Display.Height))
	}

	programIDs := make(map[string]int)
	itemIDs := make(map[int]string)

	for i, p := range d.Programs {
		if p == nil {
			errs = append(errs, fmt.Errorf("program %d is empty", i))
			continue
		}
		if prev, dup := programIDs[p.ID]; dup && p.ID != "" {
			errs = append(errs, fmt.Errorf("program %d: id %q already used by program %d", i, p.ID, prev))
		}
		programIDs[p.ID] = i

		if p.Transition.DurationMs < 0 {
			errs = append(errs, fmt.Errorf("program %q: negative transition duration", p.Name))
		}
		if p.EffectiveDuration() <= 0 {
			errs = append(errs, fmt.Errorf("program %q: duration must be positive", p.Name))
		}

		for _, it := range p.Items {
			if it == nil {
				errs = append(errs, fmt.Errorf("program %q: empty item", p.Name))
				continue
			}
			if owner, dup := itemIDs[it.ID]; dup {
				errs = append(errs, fmt.Errorf("program %q: item id %d already used in program %q", p.Name, it.ID, owner))
			}
			itemIDs[it.ID] = p.Name

			if s := it.Stops; s != nil && len(s.List) > 0 {
				if !s.AutoDuration && s.FixedDuration <= 0 {
					errs = append(errs, fmt.Errorf("item %d: fixed stop duration must be positive", it.ID))
				}
				if s.Animation.DurationMs < 0 {
					errs = append(errs, fmt.Errorf("item %d: negative stop animation duration", it.ID))
				}
			}
		}
	}

	return errors.Join(errs...)
}
