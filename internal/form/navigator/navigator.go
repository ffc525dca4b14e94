// Package navigator moves a draft through the form steps. Advancing
// runs the current step's validation and is refused while it fails;
// going back never validates, so applicants can always review earlier
// entries without losing anything.
package navigator

import (
	"context"
	"strconv"

	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/form/session"
	"recruitment-portal/internal/form/validator"
	"recruitment-portal/internal/models"
)

type Navigator struct {
	store     *session.Store
	validator *validator.Validator
	table     *rules.Table
	logger    logger.Logger
}

func New(store *session.Store, v *validator.Validator, table *rules.Table, log logger.Logger) *Navigator {
	return &Navigator{
		store:     store,
		validator: v,
		table:     table,
		logger:    log.WithFields(map[string]interface{}{"component": "step-navigator"}),
	}
}

// Next validates the current step and advances when it passes. A failed
// validation is not an error: the result carries the field failures and
// the draft stays where it was.
func (n *Navigator) Next(ctx context.Context, id string) (*models.ApplicationRecord, models.StepResult, error) {
	rec, err := n.store.Get(ctx, id)
	if err != nil {
		return nil, models.StepResult{}, err
	}
	if rec.IsSubmitted() {
		return nil, models.StepResult{}, errors.NewApplicationSubmittedError(id)
	}

	result := n.validator.ValidateStep(rec, rec.CurrentStep)
	step := strconv.Itoa(rec.CurrentStep)

	if !result.Valid {
		metrics.StepValidationsTotal.WithLabelValues(step, "blocked").Inc()
		if err := n.store.RecordStepErrors(ctx, rec, result); err != nil {
			return nil, models.StepResult{}, err
		}
		return rec, result, nil
	}

	metrics.StepValidationsTotal.WithLabelValues(step, "passed").Inc()

	if rec.CurrentStep < n.table.StepCount()-1 {
		rec.CurrentStep++
	}
	if err := n.store.Save(ctx, rec); err != nil {
		return nil, models.StepResult{}, err
	}

	n.logger.Info("advanced to next step", map[string]interface{}{
		"applicationId": rec.ID,
		"step":          rec.CurrentStep,
	})
	return rec, result, nil
}

// Back moves to the previous step without validating anything.
func (n *Navigator) Back(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	rec, err := n.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.IsSubmitted() {
		return nil, errors.NewApplicationSubmittedError(id)
	}

	if rec.CurrentStep > 0 {
		rec.CurrentStep--
	}
	if err := n.store.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
