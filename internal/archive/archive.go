// Package archive persists submitted applications to PostgreSQL and
// mirrors a searchable summary into Elasticsearch. The relational row
// is the system of record; indexing is best effort and never blocks a
// submission.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"recruitment-portal/internal/common/database"
	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"
)

type Archiver struct {
	db     *sql.DB
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func New(db *sql.DB, es *database.ElasticsearchClient, index string, log logger.Logger) *Archiver {
	return &Archiver{
		db:     db,
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "archiver"}),
	}
}

// Store writes the submitted application to the database. Uploaded file
// payloads are not archived, only the form values and document stats.
func (a *Archiver) Store(ctx context.Context, rec *models.ApplicationRecord, documentPages int, documentBytes int) error {
	// Check for duplicate submission
	var exists bool
	err := a.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE application_no = $1
		)`, rec.ApplicationNo).Scan(&exists)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(fmt.Errorf("duplicate check failed: %w", err))
	}
	if exists {
		return errors.NewDuplicateApplicationError(rec.ApplicationNo)
	}

	formDataJSON, err := json.Marshal(rec.Values)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(fmt.Errorf("failed to marshal form data: %w", err))
	}

	submittedAt := time.Now().UTC()
	if rec.SubmittedAt != nil {
		submittedAt = *rec.SubmittedAt
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, application_no, applicant_name, email, post_applied_for,
			category, form_data, document_pages, document_bytes,
			status, submitted_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		rec.ID,
		rec.ApplicationNo,
		rec.Value("name"),
		rec.Value("email"),
		rec.Value("postAppliedFor"),
		rec.Value("category"),
		formDataJSON,
		documentPages,
		documentBytes,
		string(models.StatusSubmitted),
		submittedAt.Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(fmt.Errorf("insert failed: %w", err))
	}

	// Audit log entry is non-critical, log and continue on failure.
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"applicationNo":  rec.ApplicationNo,
		"postAppliedFor": rec.Value("postAppliedFor"),
		"documentPages":  documentPages,
	})
	if err != nil {
		auditDetailsJSON = []byte("{}")
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"application_submitted",
		"application",
		rec.ID,
		auditDetailsJSON,
		submittedAt.Format(time.RFC3339),
	)
	if err != nil {
		a.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": rec.ID,
		})
	}

	a.logger.Info("application archived", map[string]interface{}{
		"applicationId": rec.ID,
		"applicationNo": rec.ApplicationNo,
		"documentPages": documentPages,
	})
	return nil
}

// IndexSubmission mirrors a searchable summary of the submission into
// Elasticsearch. Failures are reported but callers treat them as
// non-fatal.
func (a *Archiver) IndexSubmission(ctx context.Context, rec *models.ApplicationRecord) error {
	if a.es == nil {
		return nil
	}

	doc, err := json.Marshal(map[string]interface{}{
		"applicationId":  rec.ID,
		"applicationNo":  rec.ApplicationNo,
		"name":           rec.Value("name"),
		"email":          rec.Value("email"),
		"postAppliedFor": rec.Value("postAppliedFor"),
		"category":       rec.Value("category"),
		"submittedAt":    rec.SubmittedAt,
	})
	if err != nil {
		return errors.NewIndexingFailedError(err)
	}

	if err := a.es.IndexDocument(ctx, a.index, rec.ID, doc); err != nil {
		return errors.NewIndexingFailedError(err)
	}

	a.logger.Info("submission indexed", map[string]interface{}{
		"applicationId": rec.ID,
		"index":         a.index,
	})
	return nil
}
