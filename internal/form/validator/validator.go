// Package validator checks one step of the application form at a time
// against the rule table. Counts are entered as strings and must be
// explicit: a required count left blank is an error even when the
// correct answer is zero.
package validator

import (
	"fmt"
	"strconv"
	"strings"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/validation"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/models"
)

type Validator struct {
	table  *rules.Table
	logger logger.Logger
}

func New(table *rules.Table, log logger.Logger) *Validator {
	return &Validator{
		table:  table,
		logger: log.WithFields(map[string]interface{}{"component": "step-validator"}),
	}
}

// ValidateStep validates the named step of the record and returns every
// field-level failure. Fields in other steps are not inspected.
func (v *Validator) ValidateStep(rec *models.ApplicationRecord, stepIndex int) models.StepResult {
	step, ok := v.table.Step(stepIndex)
	if !ok {
		return models.StepResult{
			Step:  stepIndex,
			Valid: false,
			Errors: []models.ValidationError{{
				Field:   "step",
				Code:    models.ValidationCodeInvalidValue,
				Message: fmt.Sprintf("step %d does not exist", stepIndex),
			}},
		}
	}

	// Acknowledgement gates are checked ahead of field validation and
	// short-circuit: an unticked box blocks the step on its own, without
	// touching the per-field error map.
	if gate := v.checkAck(rec, step); gate != "" {
		return models.StepResult{Step: stepIndex, Valid: false, Gate: gate}
	}

	var errs []models.ValidationError

	stream := rules.Stream(rec.Value("postAppliedFor"))
	for i := range step.Fields {
		errs = append(errs, v.checkField(rec, &step.Fields[i], stream)...)
	}

	gate := v.checkSumCaps(rec, step)
	if gate == "" && step.RequiresChecklist && !rec.Checklist.AllConfirmed() {
		gate = fmt.Sprintf("Verification checklist incomplete: %s", strings.Join(rec.Checklist.Missing(), ", "))
	}

	result := models.StepResult{
		Step:   stepIndex,
		Valid:  len(errs) == 0 && gate == "",
		Errors: errs,
		Gate:   gate,
	}

	v.logger.Info("step validation completed", map[string]interface{}{
		"applicationId": rec.ID,
		"step":          stepIndex,
		"isValid":       result.Valid,
		"errorCount":    len(errs),
		"gated":         gate != "",
	})

	return result
}

// ValidateAll runs every step in order, used as the submit precondition.
func (v *Validator) ValidateAll(rec *models.ApplicationRecord) []models.StepResult {
	results := make([]models.StepResult, 0, v.table.StepCount())
	for i := 0; i < v.table.StepCount(); i++ {
		results = append(results, v.ValidateStep(rec, i))
	}
	return results
}

func (v *Validator) checkAck(rec *models.ApplicationRecord, step *rules.Step) string {
	switch step.Ack {
	case rules.AckInstructions:
		if !rec.Acknowledgements.InstructionsRead {
			return "You must confirm that you have read the instructions"
		}
	case rules.AckTable2:
		if !rec.Acknowledgements.Table2Confirmed {
			return "You must acknowledge that you have read the Table 2 instructions"
		}
	}
	return ""
}

func (v *Validator) checkField(rec *models.ApplicationRecord, f *rules.Field, stream string) []models.ValidationError {
	required := f.Required
	if f.RequiredWhen != nil {
		required = strings.TrimSpace(rec.Value(f.RequiredWhen.Field)) == f.RequiredWhen.Equals
	}

	if f.Kind == rules.KindFile {
		if required && rec.Files[f.Name] == nil {
			return []models.ValidationError{{
				Field:   f.Name,
				Code:    models.ValidationCodeMissingRequired,
				Message: fmt.Sprintf("%s upload is required", f.Name),
			}}
		}
		return nil
	}

	value := strings.TrimSpace(rec.Value(f.Name))
	if value == "" {
		if !required {
			return nil
		}
		msg := fmt.Sprintf("%s is required", f.Name)
		if f.Kind == rules.KindCount {
			msg = fmt.Sprintf("%s is required, enter 0 if not applicable", f.Name)
		}
		return []models.ValidationError{{
			Field:   f.Name,
			Code:    models.ValidationCodeMissingRequired,
			Message: msg,
		}}
	}

	var errs []models.ValidationError

	switch f.Kind {
	case rules.KindEmail:
		if !validation.ValidEmail(value) {
			errs = append(errs, invalidFormat(f.Name, "Invalid email format"))
		}
	case rules.KindPhone:
		if !validation.ValidPhone(value) {
			errs = append(errs, invalidFormat(f.Name, "Invalid phone number"))
		}
	case rules.KindDate:
		if !validation.ValidDate(value) {
			errs = append(errs, invalidFormat(f.Name, "Date must be in YYYY-MM-DD format"))
		}
	case rules.KindURL:
		if !validation.ValidURL(value) {
			errs = append(errs, invalidFormat(f.Name, "Invalid URL"))
		}
	case rules.KindOption:
		found := false
		for _, o := range f.Options {
			if value == o {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, models.ValidationError{
				Field:   f.Name,
				Code:    models.ValidationCodeInvalidValue,
				Message: fmt.Sprintf("%s must be one of %v", f.Name, f.Options),
			})
		}
	case rules.KindCount:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			errs = append(errs, models.ValidationError{
				Field:   f.Name,
				Code:    models.ValidationCodeInvalidValue,
				Message: fmt.Sprintf("%s must be a non-negative whole number", f.Name),
			})
			break
		}
		limit := f.CapFor(stream)
		if n > limit {
			errs = append(errs, models.ValidationError{
				Field:   f.Name,
				Code:    models.ValidationCodeAboveMaximum,
				Message: fmt.Sprintf("%s cannot exceed %d for the %s stream", f.Name, limit, stream),
			})
		}
	}

	// Byte-equal confirmation, no trimming or case folding.
	if f.MustMatch != "" && rec.Value(f.Name) != rec.Value(f.MustMatch) {
		errs = append(errs, models.ValidationError{
			Field:   f.Name,
			Code:    models.ValidationCodeMismatch,
			Message: fmt.Sprintf("%s does not match %s", f.Name, f.MustMatch),
		})
	}

	return errs
}

// checkSumCaps enforces cross-field score ceilings. A violation is a
// gate failure: it blocks the step as a whole rather than marking any
// one of the contributing fields.
func (v *Validator) checkSumCaps(rec *models.ApplicationRecord, step *rules.Step) string {
	for _, sc := range step.SumCaps {
		sum := 0
		for _, name := range sc.Fields {
			n, err := strconv.Atoi(strings.TrimSpace(rec.Value(name)))
			if err != nil {
				continue // per-field checks already reported this
			}
			sum += n
		}
		if sum > sc.Max {
			return fmt.Sprintf("combined total of %s cannot exceed %d", strings.Join(sc.Fields, ", "), sc.Max)
		}
	}
	return ""
}

func invalidFormat(field, message string) models.ValidationError {
	return models.ValidationError{
		Field:   field,
		Code:    models.ValidationCodeInvalidFormat,
		Message: message,
	}
}
