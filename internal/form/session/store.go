// Package session persists application drafts in Redis. A draft holds
// everything the applicant has entered so far, uploads included, and
// expires after the configured TTL unless submitted first.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"recruitment-portal/internal/common/database"
	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/models"
)

const keyPrefix = "application:draft:"

type Store struct {
	redis  *database.RedisClient
	table  *rules.Table
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

func NewStore(redisClient *database.RedisClient, table *rules.Table, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		redis:  redisClient,
		table:  table,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "draft-store"}),
		now:    time.Now,
	}
}

// Create starts a new empty draft and persists it.
func (s *Store) Create(ctx context.Context) (*models.ApplicationRecord, error) {
	rec := models.NewApplicationRecord(uuid.New().String(), s.now().UTC())
	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}

	metrics.ActiveDrafts.Inc()
	s.logger.Info("draft created", map[string]interface{}{
		"applicationId": rec.ID,
	})
	return rec, nil
}

// Get loads a draft by ID.
func (s *Store) Get(ctx context.Context, id string) (*models.ApplicationRecord, error) {
	raw, err := s.redis.Get(ctx, keyPrefix+id)
	if err == redis.Nil {
		return nil, errors.NewApplicationNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}

	var rec models.ApplicationRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}
	return &rec, nil
}

// Save persists a draft, refreshing its TTL.
func (s *Store) Save(ctx context.Context, rec *models.ApplicationRecord) error {
	rec.UpdatedAt = s.now().UTC()

	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.NewSessionStoreFailedError(err)
	}
	if err := s.redis.Set(ctx, keyPrefix+rec.ID, payload, s.ttl); err != nil {
		return errors.NewSessionStoreFailedError(err)
	}
	return nil
}

// Delete removes a draft.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, keyPrefix+id); err != nil {
		return errors.NewSessionStoreFailedError(err)
	}
	metrics.ActiveDrafts.Dec()
	return nil
}

// UpdateFields applies scalar field updates to a draft. Updates are
// last-writer-wins: each write replaces the stored value and clears any
// stale validation error recorded for that field. File fields cannot be
// set here; they go through the ingestor.
func (s *Store) UpdateFields(ctx context.Context, id string, values map[string]string) (*models.ApplicationRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.IsSubmitted() {
		return nil, errors.NewApplicationSubmittedError(id)
	}

	for name, value := range values {
		field, _, ok := s.table.Field(name)
		if !ok {
			return nil, errors.NewUnknownFieldError(name)
		}
		if field.Kind == rules.KindFile {
			return nil, errors.NewUnknownFieldError(name)
		}
		rec.Values[name] = value
		delete(rec.Errors, name)
	}

	// Count fields are checked on entry so over-cap scores surface
	// immediately instead of at step navigation. The stream is resolved
	// after all writes land since postAppliedFor may be in the batch.
	stream := rules.Stream(rec.Value("postAppliedFor"))
	for name := range values {
		field, _, _ := s.table.Field(name)
		value := strings.TrimSpace(rec.Value(name))
		if field.Kind != rules.KindCount || value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		switch {
		case err != nil || n < 0:
			rec.Errors[name] = fmt.Sprintf("%s must be a non-negative whole number", name)
		case n > field.CapFor(stream):
			rec.Errors[name] = fmt.Sprintf("%s cannot exceed %d", name, field.CapFor(stream))
		}
	}

	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AttachFile stores an already-validated upload on the draft.
func (s *Store) AttachFile(ctx context.Context, id, field string, file *models.EmbeddedFile) (*models.ApplicationRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.IsSubmitted() {
		return nil, errors.NewApplicationSubmittedError(id)
	}

	rec.Files[field] = file
	delete(rec.Errors, field)

	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SetAcknowledgements applies a partial update to the step gate
// confirmations. Flags absent from the update keep their current value.
func (s *Store) SetAcknowledgements(ctx context.Context, id string, update models.AcknowledgementsUpdate) (*models.ApplicationRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.IsSubmitted() {
		return nil, errors.NewApplicationSubmittedError(id)
	}

	update.Apply(&rec.Acknowledgements)
	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SetChecklist updates the pre-submit verification checklist.
func (s *Store) SetChecklist(ctx context.Context, id string, checklist models.VerificationChecklist) (*models.ApplicationRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.IsSubmitted() {
		return nil, errors.NewApplicationSubmittedError(id)
	}

	rec.Checklist = checklist
	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordStepErrors writes step validation failures onto the draft so the
// client can re-render them, replacing previous errors for those fields.
func (s *Store) RecordStepErrors(ctx context.Context, rec *models.ApplicationRecord, result models.StepResult) error {
	for _, e := range result.Errors {
		rec.Errors[e.Field] = e.Message
	}
	return s.Save(ctx, rec)
}
