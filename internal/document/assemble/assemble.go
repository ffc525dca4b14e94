// Package assemble appends PDF attachments to the rendered form. Each
// attachment is probed before merging; a corrupt or non-PDF attachment
// is skipped and reported rather than sinking the whole document. If
// the merge itself fails, the bare form is returned so the submission
// can still go out.
package assemble

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
	"recruitment-portal/internal/models"
)

// Attachment is one candidate file for the merged document, in form order.
type Attachment struct {
	Field string
	Label string // printed caption, falls back to the field name
	File  *models.EmbeddedFile
}

func (a Attachment) caption() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Field
}

// Result is the outcome of an assembly run.
type Result struct {
	Merged      []byte
	Pages       int
	Attachments []models.AttachmentResult
	FellBack    bool
}

type Assembler struct {
	conf   *model.Configuration
	logger logger.Logger
}

func New(log logger.Logger) *Assembler {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Assembler{
		conf:   conf,
		logger: log.WithFields(map[string]interface{}{"component": "document-assembler"}),
	}
}

// Assemble merges valid PDF attachments onto the base form in order.
func (a *Assembler) Assemble(base []byte, attachments []Attachment) (*Result, error) {
	basePages, err := api.PageCount(bytes.NewReader(base), a.conf)
	if err != nil {
		return nil, fmt.Errorf("base document unreadable: %w", err)
	}

	result := &Result{}
	readers := []io.ReadSeeker{bytes.NewReader(base)}

	for _, att := range attachments {
		ar := models.AttachmentResult{Field: att.Field}
		if att.File != nil {
			ar.Name = att.File.Name
		}

		switch {
		case att.File == nil:
			ar.Error = "no file uploaded"
		case !att.File.IsPDF():
			ar.Error = fmt.Sprintf("not a PDF (%s)", att.File.ContentType)
		default:
			pages, err := api.PageCount(bytes.NewReader(att.File.Data), a.conf)
			if err != nil {
				ar.Error = fmt.Sprintf("unreadable PDF: %v", err)
			} else {
				ar.Ok = true
				ar.Pages = pages
				readers = append(readers, bytes.NewReader(a.captioned(att)))
			}
		}

		result.Attachments = append(result.Attachments, ar)
	}

	if len(readers) == 1 {
		// Nothing mergeable, the form stands alone.
		result.Merged = base
		result.Pages = basePages
		metrics.DocumentPages.WithLabelValues("merged").Observe(float64(basePages))
		return result, nil
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, a.conf); err != nil {
		// Fall back to the bare form rather than losing the submission.
		a.logger.Warn("merge failed, falling back to base document", map[string]interface{}{
			"error":       err.Error(),
			"attachments": len(readers) - 1,
		})
		result.Merged = base
		result.Pages = basePages
		result.FellBack = true
		for i := range result.Attachments {
			if result.Attachments[i].Ok {
				result.Attachments[i].Ok = false
				result.Attachments[i].Error = "merge failed"
			}
		}
		metrics.DocumentPages.WithLabelValues("merged").Observe(float64(basePages))
		return result, nil
	}

	merged := buf.Bytes()
	pages, err := api.PageCount(bytes.NewReader(merged), a.conf)
	if err != nil {
		pages = basePages
	}

	result.Merged = merged
	result.Pages = pages
	metrics.DocumentPages.WithLabelValues("merged").Observe(float64(pages))

	a.logger.Info("document assembled", map[string]interface{}{
		"basePages":  basePages,
		"totalPages": pages,
		"attached":   len(readers) - 1,
	})
	return result, nil
}

// captioned stamps the attachment's caption onto each of its pages so
// the annexure stays identifiable inside the combined document. On a
// stamping failure the attachment goes in uncaptioned.
func (a *Assembler) captioned(att Attachment) []byte {
	wm, err := api.TextWatermark(
		"Annexure: "+att.caption(),
		"points:8, scale:1 abs, pos:tc, off:0 -6, fillc:#444444, rot:0",
		true, false, types.POINTS,
	)
	if err != nil {
		return att.File.Data
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(att.File.Data), &buf, nil, wm, a.conf); err != nil {
		a.logger.Warn("attachment caption stamp failed", map[string]interface{}{
			"field": att.Field,
			"error": err.Error(),
		})
		return att.File.Data
	}
	return buf.Bytes()
}

// StampApplicationNo stamps the allotted application number across the
// bottom of every page of the final document. A stamping failure is not
// fatal: the unstamped document is returned with the error.
func (a *Assembler) StampApplicationNo(doc []byte, applicationNo string) ([]byte, error) {
	wm, err := api.TextWatermark(
		"Application No: "+applicationNo,
		"points:8, scale:1 abs, pos:bc, off:0 6, fillc:#444444, rot:0",
		true, false, types.POINTS,
	)
	if err != nil {
		return doc, err
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(doc), &buf, nil, wm, a.conf); err != nil {
		return doc, err
	}
	return buf.Bytes(), nil
}
