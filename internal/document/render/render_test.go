package render

import (
	"bytes"
	"testing"
	"time"

	"recruitment-portal/internal/common/config"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/models"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	return New(config.DocumentConfig{
		InstitutionName: "Tara Govind College",
		InstitutionCity: "Lucknow",
		AffiliationLine: "(Affiliated to the State University)",
		PostNoticeLine:  "Application for Teaching Posts",
	}, rules.Default(), logger.NewTestLogger(t))
}

func sampleRecord() *models.ApplicationRecord {
	rec := models.NewApplicationRecord("render-test-1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	for k, v := range map[string]string{
		"postAppliedFor": "Assistant Professor (History)",
		"category":       "GEN",
		"name":           "Asha Verma",
		"fatherName":     "Ramesh Verma",
		"dob":            "1990-06-15",
		"email":          "asha@example.com",
		"contactNo1":     "9876543210",
		"academicMasters": "4",
		"teachingExpAbove15": "6",
		"resPapers":      "3",
		"utrNo":          "UTR123456789",
		"draftDate":      "2026-02-20",
		"draftAmount":    "1500",
		"bankName":       "State Bank",
		"parentName":     "Ramesh Verma",
		"place":          "Lucknow",
		"date":           "2026-03-01",
		"hasNOC":         "no",
	} {
		rec.Values[k] = v
	}
	return rec
}

func TestRender_ProducesPDF(t *testing.T) {
	r := newTestRenderer(t)

	doc, err := r.Render(sampleRecord())
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "output is not a PDF")
	// Letterhead plus six score tables will not fit on one page.
	assert.Greater(t, len(doc), 2000)
}

func TestRender_StableLayoutForSameRecord(t *testing.T) {
	r := newTestRenderer(t)
	rec := sampleRecord()

	first, err := r.Render(rec)
	require.NoError(t, err)
	second, err := r.Render(rec)
	require.NoError(t, err)

	// The raw bytes differ between runs because the PDF writer mints
	// fresh internal resource identifiers, but the layout must not: the
	// same record always fills the same number of pages.
	firstPages, err := api.PageCount(bytes.NewReader(first), nil)
	require.NoError(t, err)
	secondPages, err := api.PageCount(bytes.NewReader(second), nil)
	require.NoError(t, err)
	assert.Equal(t, firstPages, secondPages)
	assert.InDelta(t, len(first), len(second), 64)
}

func TestRender_UnreadableImageFallsBackToPlaceholder(t *testing.T) {
	r := newTestRenderer(t)
	rec := sampleRecord()

	// Three bytes of JPEG magic is not a decodable image. The form must
	// still render, with the placeholder boxes in place of the uploads.
	rec.Files["photo"] = &models.EmbeddedFile{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}}
	rec.Files["signature"] = &models.EmbeddedFile{Name: "signature.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}}

	doc, err := r.Render(rec)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRender_EmptyRecordStillRenders(t *testing.T) {
	r := newTestRenderer(t)
	rec := models.NewApplicationRecord("render-test-empty", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	// A draft with nothing filled in renders blanks, not an error, so
	// the preview endpoint works from step zero.
	doc, err := r.Render(rec)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRender_NOCBlockOnlyWhenDeclared(t *testing.T) {
	r := newTestRenderer(t)

	withNOC := sampleRecord()
	withNOC.Values["hasNOC"] = "yes"
	withNOC.Values["empName"] = "Govt Degree College"
	withNOC.Values["empDesignation"] = "Assistant Professor"
	withNOC.Values["empDept"] = "History"

	without, err := r.Render(sampleRecord())
	require.NoError(t, err)
	with, err := r.Render(withNOC)
	require.NoError(t, err)

	// The employer block adds content, the two documents must differ.
	assert.NotEqual(t, without, with)
	assert.Greater(t, len(with), len(without))
}
