// Package rules defines the step rule table for the application form:
// which fields belong to which step, which are required, and the
// score ceilings enforced during validation. The table can be loaded
// from an external JSON file so clerical changes to the form do not
// need a rebuild; compiled-in defaults cover the standard form.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Kind classifies a field for validation purposes.
type Kind string

const (
	KindText   Kind = "text"
	KindEmail  Kind = "email"
	KindPhone  Kind = "phone"
	KindDate   Kind = "date"
	KindURL    Kind = "url"
	KindCount  Kind = "count"
	KindOption Kind = "option"
	KindFile   Kind = "file"
)

// Upload size tiers, resolved to byte ceilings by the ingestor config.
const (
	TierGeneral  = "general"
	TierResearch = "research"
)

// Acknowledgement gates attached to steps.
const (
	AckInstructions = "instructions"
	AckTable2       = "table2"
)

// When activates a conditional requirement.
type When struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

// Field is one entry in the rule table.
type Field struct {
	Name      string   `json:"name"`
	Kind      Kind     `json:"kind"`
	Label     string   `json:"label,omitempty"` // printed caption for file fields

	Required  bool     `json:"required,omitempty"`
	MustMatch string   `json:"mustMatch,omitempty"` // byte-equal to another field
	Max       int      `json:"max,omitempty"`       // count ceiling (science stream)
	MaxArts   *int     `json:"maxArts,omitempty"`   // arts ceiling when it differs
	Options   []string `json:"options,omitempty"`
	Tier      string   `json:"tier,omitempty"`     // upload size tier for file fields
	Research  bool     `json:"research,omitempty"` // part of the Table 2 research score sheet

	RequiredWhen *When `json:"requiredWhen,omitempty"`
}

// CapFor resolves the count ceiling for a stream.
func (f *Field) CapFor(stream string) int {
	if stream == StreamArts && f.MaxArts != nil {
		return *f.MaxArts
	}
	return f.Max
}

// SumCap constrains the sum of several count fields.
type SumCap struct {
	Fields []string `json:"fields"`
	Max    int      `json:"max"`
}

// Step groups the fields validated together when the applicant advances.
type Step struct {
	Index             int      `json:"index"`
	Title             string   `json:"title"`
	Ack               string   `json:"ack,omitempty"`
	Fields            []Field  `json:"fields"`
	SumCaps           []SumCap `json:"sumCaps,omitempty"`
	RequiresChecklist bool     `json:"requiresChecklist,omitempty"`
}

// Table is the complete rule table.
type Table struct {
	Steps []Step `json:"steps"`

	fieldIndex map[string]fieldRef
}

type fieldRef struct {
	step  int
	field *Field
}

// Load reads a rule table from path, falling back to the compiled-in
// defaults when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule table %s: %w", path, err)
	}

	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse rule table %s: %w", path, err)
	}

	if err := t.init(); err != nil {
		return nil, fmt.Errorf("invalid rule table %s: %w", path, err)
	}
	return &t, nil
}

// init indexes fields and verifies table consistency.
func (t *Table) init() error {
	if len(t.Steps) == 0 {
		return fmt.Errorf("rule table has no steps")
	}

	t.fieldIndex = make(map[string]fieldRef)
	for i := range t.Steps {
		step := &t.Steps[i]
		if step.Index != i {
			return fmt.Errorf("step indexes must be contiguous from 0, got %d at position %d", step.Index, i)
		}
		if step.Ack != "" && step.Ack != AckInstructions && step.Ack != AckTable2 {
			return fmt.Errorf("step %d: unknown ack gate %q", step.Index, step.Ack)
		}

		for j := range step.Fields {
			f := &step.Fields[j]
			if f.Name == "" {
				return fmt.Errorf("step %d: field with empty name", step.Index)
			}
			if _, dup := t.fieldIndex[f.Name]; dup {
				return fmt.Errorf("duplicate field %q", f.Name)
			}
			if f.Kind == KindCount && f.Max < 0 {
				return fmt.Errorf("field %q: negative ceiling", f.Name)
			}
			if f.Kind == KindFile && f.Tier == "" {
				f.Tier = TierGeneral
			}
			t.fieldIndex[f.Name] = fieldRef{step: step.Index, field: f}
		}

		for _, sc := range step.SumCaps {
			for _, name := range sc.Fields {
				if _, ok := t.fieldIndex[name]; !ok {
					return fmt.Errorf("step %d: sum cap references unknown field %q", step.Index, name)
				}
			}
		}
	}

	// MustMatch and RequiredWhen targets must exist somewhere in the table.
	for name, ref := range t.fieldIndex {
		if ref.field.MustMatch != "" {
			if _, ok := t.fieldIndex[ref.field.MustMatch]; !ok {
				return fmt.Errorf("field %q: mustMatch references unknown field %q", name, ref.field.MustMatch)
			}
		}
		if ref.field.RequiredWhen != nil {
			if _, ok := t.fieldIndex[ref.field.RequiredWhen.Field]; !ok {
				return fmt.Errorf("field %q: requiredWhen references unknown field %q", name, ref.field.RequiredWhen.Field)
			}
		}
	}

	return nil
}

// StepCount returns the number of steps in the table.
func (t *Table) StepCount() int {
	return len(t.Steps)
}

// Step returns the rule set for one step.
func (t *Table) Step(index int) (*Step, bool) {
	if index < 0 || index >= len(t.Steps) {
		return nil, false
	}
	return &t.Steps[index], true
}

// Field looks up a field rule and the step it belongs to.
func (t *Table) Field(name string) (*Field, int, bool) {
	ref, ok := t.fieldIndex[name]
	if !ok {
		return nil, 0, false
	}
	return ref.field, ref.step, true
}

// KnownField reports whether the field is part of the form.
func (t *Table) KnownField(name string) bool {
	_, ok := t.fieldIndex[name]
	return ok
}

// FieldNames returns every field name in step order.
func (t *Table) FieldNames() []string {
	var names []string
	for _, step := range t.Steps {
		for _, f := range step.Fields {
			names = append(names, f.Name)
		}
	}
	return names
}

// ResearchFieldNames returns the Table 2 score fields in step order.
// The outbound submission payload groups these under a nested object.
func (t *Table) ResearchFieldNames() []string {
	var names []string
	for _, step := range t.Steps {
		for _, f := range step.Fields {
			if f.Research {
				names = append(names, f.Name)
			}
		}
	}
	return names
}

// Post streams determining which count ceiling applies.
const (
	StreamScience = "science"
	StreamArts    = "arts"
)

// Stream derives the applicant's stream from the post applied for.
func Stream(postAppliedFor string) string {
	if strings.Contains(strings.ToLower(postAppliedFor), "science") {
		return StreamScience
	}
	return StreamArts
}
