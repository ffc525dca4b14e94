// Package ingest accepts file uploads into a draft. Every upload is
// checked against the field's size tier and the allowed content types
// before it is attached; an oversized or mistyped file never reaches
// the store.
package ingest

import (
	"context"
	"net/http"

	"recruitment-portal/internal/common/config"
	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/form/session"
	"recruitment-portal/internal/models"
)

type Ingestor struct {
	store   *session.Store
	table   *rules.Table
	cfg     config.UploadConfig
	allowed map[string]bool
	logger  logger.Logger
}

func New(store *session.Store, table *rules.Table, cfg config.UploadConfig, log logger.Logger) *Ingestor {
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[t] = true
	}
	return &Ingestor{
		store:   store,
		table:   table,
		cfg:     cfg,
		allowed: allowed,
		logger:  log.WithFields(map[string]interface{}{"component": "file-ingestor"}),
	}
}

// Accept validates and attaches an upload to the draft.
func (i *Ingestor) Accept(ctx context.Context, id, field, name, contentType string, data []byte) (*models.ApplicationRecord, error) {
	rule, _, ok := i.table.Field(field)
	if !ok || rule.Kind != rules.KindFile {
		metrics.FileUploadsTotal.WithLabelValues(field, "rejected").Inc()
		return nil, errors.NewUnknownFieldError(field)
	}

	// Multipart clients routinely declare application/octet-stream for
	// anything; sniff the real type from the bytes in that case too.
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !i.allowed[contentType] {
		metrics.FileUploadsTotal.WithLabelValues(field, "rejected").Inc()
		return nil, errors.NewFileTypeUnsupportedError(field, contentType)
	}

	limit := i.limitFor(rule)
	if int64(len(data)) > limit {
		metrics.FileUploadsTotal.WithLabelValues(field, "rejected").Inc()
		return nil, errors.NewFileTooLargeError(field, int64(len(data)), limit)
	}

	rec, err := i.store.AttachFile(ctx, id, field, &models.EmbeddedFile{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		metrics.FileUploadsTotal.WithLabelValues(field, "failed").Inc()
		return nil, err
	}

	metrics.FileUploadsTotal.WithLabelValues(field, "accepted").Inc()
	i.logger.Info("file accepted", map[string]interface{}{
		"applicationId": id,
		"field":         field,
		"contentType":   contentType,
		"sizeBytes":     len(data),
	})
	return rec, nil
}

// AcceptDataURI decodes a data-URI payload and runs it through Accept.
func (i *Ingestor) AcceptDataURI(ctx context.Context, id, field, name, uri string) (*models.ApplicationRecord, error) {
	file, err := models.ParseDataURI(name, uri)
	if err != nil {
		metrics.FileUploadsTotal.WithLabelValues(field, "rejected").Inc()
		return nil, errors.NewFileDecodeFailedError(field, err)
	}
	return i.Accept(ctx, id, field, name, file.ContentType, file.Data)
}

// LimitFor exposes the byte ceiling that applies to a file field.
func (i *Ingestor) LimitFor(field string) int64 {
	rule, _, ok := i.table.Field(field)
	if !ok || rule.Kind != rules.KindFile {
		return i.cfg.GeneralMaxBytes
	}
	return i.limitFor(rule)
}

func (i *Ingestor) limitFor(rule *rules.Field) int64 {
	if rule.Tier == rules.TierResearch {
		return i.cfg.ResearchMaxBytes
	}
	return i.cfg.GeneralMaxBytes
}
