package submission

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recruitment-portal/internal/archive"
	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/common/observability"
	"recruitment-portal/internal/document/assemble"
	"recruitment-portal/internal/document/render"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/form/session"
	"recruitment-portal/internal/form/validator"
	"recruitment-portal/internal/models"
	"recruitment-portal/internal/notify"

	"github.com/google/uuid"
)

// Pipeline stages, in execution order.
const (
	StageGenerating = "generating"
	StageMerging    = "merging"
	StageArchiving  = "archiving"
	StageSending    = "sending"
)

// Final statuses.
const (
	StatusSuccess            = "success"
	StatusSuccessFailedEmail = "success-with-failed-email"
)

// Outcome summarizes a completed submission.
type Outcome struct {
	ApplicationNo string                    `json:"applicationNo"`
	Status        string                    `json:"status"`
	Pages         int                       `json:"pages"`
	Attachments   []models.AttachmentResult `json:"attachments"`
	FellBack      bool                      `json:"fellBack"`
	SubmittedAt   time.Time                 `json:"submittedAt"`
	DocumentURL   string                    `json:"documentUrl,omitempty"`
	Warning       string                    `json:"warning,omitempty"`
}

// Shown when the remote send fails: the applicant still holds the
// combined document and can deliver it by hand.
const manualSendAdvice = "Automatic delivery failed. Download your application document and email it to the college office."

// Orchestrator runs the submission pipeline. Render, merge and archive
// must succeed in order; a failure there leaves the draft editable so
// the applicant can retry. Once the document is archived the submission
// stands: a failed remote send or notification only degrades the
// reported status.
type Orchestrator struct {
	store       *session.Store
	validator   *validator.Validator
	table       *rules.Table
	renderer    *render.Renderer
	assembler   *assemble.Assembler
	archiver    *archive.Archiver
	notifier    *notify.Notifier
	client      *Client
	obs         *observability.Observability
	artifactDir string
	logger      logger.Logger
}

func NewOrchestrator(
	store *session.Store,
	v *validator.Validator,
	table *rules.Table,
	renderer *render.Renderer,
	assembler *assemble.Assembler,
	archiver *archive.Archiver,
	notifier *notify.Notifier,
	client *Client,
	obs *observability.Observability,
	artifactDir string,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:       store,
		validator:   v,
		table:       table,
		renderer:    renderer,
		assembler:   assembler,
		archiver:    archiver,
		notifier:    notifier,
		client:      client,
		obs:         obs,
		artifactDir: artifactDir,
		logger:      log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// NewApplicationNo mints an application number like TRGC-2026-3F0A81BC.
func NewApplicationNo(now time.Time) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TRGC-%d-%s", now.Year(), fragment)
}

// Submit validates the full record and runs the pipeline to completion.
func (o *Orchestrator) Submit(ctx context.Context, id string) (*Outcome, error) {
	started := time.Now()

	rec, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.IsSubmitted() {
		return nil, errors.NewApplicationSubmittedError(id)
	}

	if !rec.Checklist.AllConfirmed() {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, errors.NewChecklistIncompleteError(
			"unconfirmed: " + strings.Join(rec.Checklist.Missing(), ", "))
	}

	// Every step must pass before anything is generated.
	results := o.validator.ValidateAll(rec)
	var failed []map[string]interface{}
	for _, res := range results {
		if !res.Valid {
			if err := o.store.RecordStepErrors(ctx, rec, res); err != nil {
				o.logger.Warn("failed to record validation errors", map[string]interface{}{
					"error":         err,
					"applicationId": id,
				})
			}
			if res.Gate != "" {
				failed = append(failed, map[string]interface{}{
					"step": res.Step,
					"gate": res.Gate,
				})
			}
			for _, ve := range res.Errors {
				failed = append(failed, map[string]interface{}{
					"step":    res.Step,
					"field":   ve.Field,
					"code":    ve.Code,
					"message": ve.Message,
				})
			}
		}
	}
	if len(failed) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		se := errors.NewStepValidationFailedError(
			fmt.Sprintf("%d field errors", len(failed)))
		se.Metadata = map[string]interface{}{"errors": failed}
		return nil, se
	}

	if rec.ApplicationNo == "" {
		rec.ApplicationNo = NewApplicationNo(started)
		// Persist the number before any downstream stage sees it, so a
		// failed attempt retries under the same application number.
		if err := o.store.Save(ctx, rec); err != nil {
			return nil, err
		}
	}

	var base []byte
	if err := o.timed(StageGenerating, func() error {
		var renderErr error
		base, renderErr = o.renderer.Render(rec)
		return renderErr
	}); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	var asm *assemble.Result
	if err := o.timed(StageMerging, func() error {
		result, mergeErr := o.assembler.Assemble(base, o.collectAttachments(rec))
		if mergeErr != nil {
			return mergeErr
		}
		asm = result
		return nil
	}); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	stamped, err := o.assembler.StampApplicationNo(asm.Merged, rec.ApplicationNo)
	if err != nil {
		// Stamping is cosmetic, ship the unstamped document.
		o.logger.Warn("application number stamp failed", map[string]interface{}{
			"error":         err,
			"applicationNo": rec.ApplicationNo,
		})
		stamped = asm.Merged
	}

	submittedAt := time.Now().UTC()
	rec.Status = models.StatusSubmitted
	rec.SubmittedAt = &submittedAt

	if err := o.timed(StageArchiving, func() error {
		return o.archiver.Store(ctx, rec, asm.Pages, len(stamped))
	}); err != nil {
		rec.Status = models.StatusDraft
		rec.SubmittedAt = nil
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	// The document exists and the archive row is committed; from here
	// nothing can fail the submission. A lost remote send degrades the
	// outcome to success-with-failed-email and the applicant is told to
	// deliver the document by hand.
	status := StatusSuccess
	warning := ""
	if err := o.timed(StageSending, func() error {
		return o.client.Send(ctx, rec, stamped)
	}); err != nil {
		status = StatusSuccessFailedEmail
		warning = manualSendAdvice
	}

	rec.Document = &models.EmbeddedFile{
		Name:        notify.AttachmentFileName(rec.Value("name")),
		ContentType: "application/pdf",
		Data:        stamped,
	}
	o.persistArtifact(rec, stamped)

	if err := o.store.Save(ctx, rec); err != nil {
		o.logger.Warn("failed to lock submitted record", map[string]interface{}{
			"error":         err,
			"applicationId": id,
		})
	}

	if err := o.archiver.IndexSubmission(ctx, rec); err != nil {
		o.logger.Warn("search indexing failed", map[string]interface{}{
			"error":         err,
			"applicationNo": rec.ApplicationNo,
		})
	}

	if err := o.notifier.SendApplicantConfirmation(ctx, rec); err != nil {
		o.logger.Error("applicant confirmation failed", map[string]interface{}{
			"error":         err,
			"applicationNo": rec.ApplicationNo,
		})
		status = StatusSuccessFailedEmail
	}
	if err := o.notifier.SendPrincipalCopy(ctx, rec, stamped); err != nil {
		o.logger.Error("principal copy failed", map[string]interface{}{
			"error":         err,
			"applicationNo": rec.ApplicationNo,
		})
		status = StatusSuccessFailedEmail
	}
	if err := o.notifier.SendSMS(ctx, rec); err != nil {
		// SMS is strictly best effort, does not degrade the status.
		o.logger.Warn("confirmation SMS failed", map[string]interface{}{
			"applicationNo": rec.ApplicationNo,
		})
	}

	metrics.SubmissionsTotal.WithLabelValues(status).Inc()
	if o.obs != nil {
		o.obs.RecordSubmissionDuration(ctx, time.Since(started), status)
	}

	o.logger.Info("submission complete", map[string]interface{}{
		"applicationNo": rec.ApplicationNo,
		"status":        status,
		"pages":         asm.Pages,
		"durationMs":    time.Since(started).Milliseconds(),
	})

	return &Outcome{
		ApplicationNo: rec.ApplicationNo,
		Status:        status,
		Pages:         asm.Pages,
		Attachments:   asm.Attachments,
		FellBack:      asm.FellBack,
		SubmittedAt:   submittedAt,
		Warning:       warning,
	}, nil
}

// persistArtifact keeps one local copy of the combined document when an
// artifact directory is configured.
func (o *Orchestrator) persistArtifact(rec *models.ApplicationRecord, document []byte) {
	if o.artifactDir == "" {
		return
	}
	path := filepath.Join(o.artifactDir, notify.AttachmentFileName(rec.Value("name")))
	if err := os.WriteFile(path, document, 0o644); err != nil {
		o.logger.Warn("artifact write failed", map[string]interface{}{
			"path":  path,
			"error": err,
		})
		return
	}
	o.logger.Info("artifact written", map[string]interface{}{
		"path":  path,
		"bytes": len(document),
	})
}

// collectAttachments gathers uploaded files in rule-table order so the
// merged document pages follow the form's own sequence.
func (o *Orchestrator) collectAttachments(rec *models.ApplicationRecord) []assemble.Attachment {
	var attachments []assemble.Attachment
	for _, step := range o.table.Steps {
		for i := range step.Fields {
			f := &step.Fields[i]
			if f.Kind != rules.KindFile || f.Name == "photo" || f.Name == "signature" {
				// Photo and signature are drawn into the form itself.
				continue
			}
			if file, ok := rec.Files[f.Name]; ok && file != nil {
				attachments = append(attachments, assemble.Attachment{Field: f.Name, Label: f.Label, File: file})
			}
		}
	}
	return attachments
}

func (o *Orchestrator) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.SubmissionStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		o.logger.Error("pipeline stage failed", map[string]interface{}{
			"stage": stage,
			"error": err,
		})
	}
	return err
}
