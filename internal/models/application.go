// internal/models/application.go
package models

import "time"

// Status tracks the lifecycle of an application draft.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// ApplicationRecord is the full state of one application draft: scalar
// field values, uploaded files, per-field validation errors, and the
// navigation position. Scalar values are stored as entered, keyed by
// field name; research counts live in Values alongside text fields.
type ApplicationRecord struct {
	ID            string `json:"id"`
	ApplicationNo string `json:"applicationNo"`
	Status        Status `json:"status"`
	CurrentStep   int    `json:"currentStep"`

	Values map[string]string        `json:"values"`
	Files  map[string]*EmbeddedFile `json:"files"`
	Errors map[string]string        `json:"errors"`

	// Document is the combined application PDF, set once on submission
	// so the applicant can download their copy afterwards.
	Document *EmbeddedFile `json:"document,omitempty"`

	Acknowledgements Acknowledgements      `json:"acknowledgements"`
	Checklist        VerificationChecklist `json:"checklist"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// NewApplicationRecord returns an empty draft positioned at the first step.
func NewApplicationRecord(id string, now time.Time) *ApplicationRecord {
	return &ApplicationRecord{
		ID:          id,
		Status:      StatusDraft,
		CurrentStep: 0,
		Values:      map[string]string{},
		Files:       map[string]*EmbeddedFile{},
		Errors:      map[string]string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Value returns the scalar value for a field, empty string when unset.
func (r *ApplicationRecord) Value(field string) string {
	return r.Values[field]
}

// IsSubmitted reports whether the draft is locked against mutation.
func (r *ApplicationRecord) IsSubmitted() bool {
	return r.Status == StatusSubmitted
}

// Acknowledgements are the explicit confirmations that gate individual steps.
type Acknowledgements struct {
	InstructionsRead bool `json:"instructionsRead"`
	Table2Confirmed  bool `json:"table2Confirmed"`
}

// AcknowledgementsUpdate carries a partial acknowledgement change.
// Only the flags a client actually sent are applied, so ticking one
// checkbox never clears the other.
type AcknowledgementsUpdate struct {
	InstructionsRead *bool `json:"instructionsRead"`
	Table2Confirmed  *bool `json:"table2Confirmed"`
}

// Apply copies the set flags onto the acknowledgements.
func (u AcknowledgementsUpdate) Apply(a *Acknowledgements) {
	if u.InstructionsRead != nil {
		a.InstructionsRead = *u.InstructionsRead
	}
	if u.Table2Confirmed != nil {
		a.Table2Confirmed = *u.Table2Confirmed
	}
}

// VerificationChecklist is the final pre-submit declaration: every entry
// must be confirmed before the submit pipeline may start.
type VerificationChecklist struct {
	Name      bool `json:"name"`
	FatherName bool `json:"fatherName"`
	Post      bool `json:"post"`
	DOB       bool `json:"dob"`
	Category  bool `json:"category"`
	Photo     bool `json:"photo"`
	Signature bool `json:"signature"`
	Documents bool `json:"documents"`
	Table2    bool `json:"table2"`
	Payment   bool `json:"payment"`
}

// AllConfirmed reports whether every checklist entry has been ticked.
func (c VerificationChecklist) AllConfirmed() bool {
	return c.Name && c.FatherName && c.Post && c.DOB && c.Category &&
		c.Photo && c.Signature && c.Documents && c.Table2 && c.Payment
}

// Missing lists the checklist entries still unconfirmed.
func (c VerificationChecklist) Missing() []string {
	var missing []string
	entries := []struct {
		key string
		ok  bool
	}{
		{"name", c.Name},
		{"fatherName", c.FatherName},
		{"post", c.Post},
		{"dob", c.DOB},
		{"category", c.Category},
		{"photo", c.Photo},
		{"signature", c.Signature},
		{"documents", c.Documents},
		{"table2", c.Table2},
		{"payment", c.Payment},
	}
	for _, e := range entries {
		if !e.ok {
			missing = append(missing, e.key)
		}
	}
	return missing
}

// ValidationError describes a single field-level failure during step validation.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validation error codes.
const (
	ValidationCodeMissingRequired = "MISSING_REQUIRED"
	ValidationCodeInvalidFormat   = "INVALID_FORMAT"
	ValidationCodeInvalidValue    = "INVALID_VALUE"
	ValidationCodeAboveMaximum    = "ABOVE_MAXIMUM"
	ValidationCodeMismatch        = "MISMATCH"
	ValidationCodeNotAcknowledged = "NOT_ACKNOWLEDGED"
)

// StepResult is the outcome of validating one step. Field-level
// failures land in Errors, keyed to the offending field; Gate carries
// a blocking step-wide failure (unticked acknowledgement, score-sum
// ceiling, unfinished checklist) that belongs to no single field.
type StepResult struct {
	Step   int               `json:"step"`
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
	Gate   string            `json:"gate,omitempty"`
}

// AttachmentResult records the fate of one attachment during merge.
type AttachmentResult struct {
	Field string `json:"field"`
	Name  string `json:"name"`
	Ok    bool   `json:"ok"`
	Pages int    `json:"pages,omitempty"`
	Error string `json:"error,omitempty"`
}
