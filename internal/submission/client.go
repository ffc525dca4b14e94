// Package submission drives the final pipeline: validate the whole
// record, render and merge the document, archive it, and hand it to
// the collection endpoint.
package submission

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"recruitment-portal/internal/common/errors"
	httpclient "recruitment-portal/internal/common/http"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/models"
	"recruitment-portal/internal/notify"

	"github.com/xeipuuv/gojsonschema"
)

// Client posts the finished application to the collection endpoint.
// The endpoint's response body is treated as opaque: any 2xx status
// counts as accepted. There is exactly one attempt per submission —
// a failed send degrades the outcome instead of being retried, and
// only an explicit re-submission tries again.
type Client struct {
	endpoint string
	table    *rules.Table
	http     *httpclient.Client
	schema   *gojsonschema.Schema
	logger   logger.Logger
}

func NewClient(endpoint string, timeout time.Duration, table *rules.Table, schemaPath string, log logger.Logger) (*Client, error) {
	c := &Client{
		endpoint: endpoint,
		table:    table,
		http:     httpclient.NewClient(timeout),
		logger:   log.WithFields(map[string]interface{}{"component": "submission-client"}),
	}

	if schemaPath != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("read submission schema: %w", err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse submission schema: %w", err)
		}
		c.schema = schema
	}

	return c, nil
}

// BuildPayload shapes the record into the wire format the collection
// endpoint expects: every scalar form value at the top level, the
// Table 2 scores grouped under a nested "research" object, and the
// merged document as base64.
func BuildPayload(table *rules.Table, rec *models.ApplicationRecord, document []byte) map[string]interface{} {
	research := map[string]interface{}{}
	isResearch := map[string]bool{}
	for _, name := range table.ResearchFieldNames() {
		isResearch[name] = true
		research[name] = rec.Value(name)
	}

	payload := map[string]interface{}{
		"applicationNo": rec.ApplicationNo,
		"research":      research,
		"pdfBase64":     base64.StdEncoding.EncodeToString(document),
		"fileName":      notify.AttachmentFileName(rec.Value("name")),
	}
	for field, value := range rec.Values {
		if isResearch[field] {
			continue
		}
		payload[field] = value
	}
	return payload
}

func (c *Client) validatePayload(payload map[string]interface{}) error {
	if c.schema == nil {
		return nil
	}
	result, err := c.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("payload failed schema validation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Send posts the payload once. Any network failure or non-2xx status
// is reported to the caller; Send never retries on its own.
func (c *Client) Send(ctx context.Context, rec *models.ApplicationRecord, document []byte) error {
	payload := BuildPayload(c.table, rec, document)
	if err := c.validatePayload(payload); err != nil {
		return errors.NewRemoteSendFailedError(err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.NewRemoteSendFailedError(err)
	}

	resp, err := c.http.PostJSON(ctx, c.endpoint, body)
	if err != nil {
		c.logger.Warn("submission request failed", map[string]interface{}{
			"applicationNo": rec.ApplicationNo,
			"error":         err,
		})
		return errors.NewRemoteSendFailedError(err)
	}

	// Response body is opaque, drain and discard.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Info("submission accepted", map[string]interface{}{
			"applicationNo": rec.ApplicationNo,
			"status":        resp.StatusCode,
		})
		return nil
	}

	return errors.NewRemoteSendFailedError(
		fmt.Errorf("endpoint returned status %d", resp.StatusCode))
}
