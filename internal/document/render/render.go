// Package render produces the printable application form as a PDF. The
// layout mirrors the institution's paper form: letterhead, photograph
// box, personal details, score sheets with claimed counts against their
// ceilings, payment details, and the signed declaration.
//
// Rendering is deterministic at the layout level: the document creation
// date is pinned to the record's last update, so rendering the same
// draft twice yields the same pages in the same order. The raw bytes
// may still differ between runs because gofpdf derives fresh internal
// resource identifiers each time.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"recruitment-portal/internal/common/config"
	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/models"
)

type Renderer struct {
	doc    config.DocumentConfig
	table  *rules.Table
	logger logger.Logger
}

func New(doc config.DocumentConfig, table *rules.Table, log logger.Logger) *Renderer {
	return &Renderer{
		doc:    doc,
		table:  table,
		logger: log.WithFields(map[string]interface{}{"component": "document-renderer"}),
	}
}

// Render produces the application form PDF for a record.
func (r *Renderer) Render(rec *models.ApplicationRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(rec.UpdatedAt)
	pdf.SetModificationDate(rec.UpdatedAt)
	pdf.SetTitle("Application for the Post of "+rec.Value("postAppliedFor"), false)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		left := "Application No: " + orDash(rec.ApplicationNo)
		right := fmt.Sprintf("Page %d of {nb}", pdf.PageNo())
		pdf.CellFormat(95, 6, left, "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, right, "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	r.letterhead(pdf)
	r.photoBox(pdf, rec)
	r.personalSection(pdf, rec)

	r.sectionHeader(pdf, "SCORE SHEETS")
	r.academicTable(pdf, rec)
	r.teachingTable(pdf, rec)
	r.adminTable(pdf, rec)
	r.countTable(pdf, rec, "Table: Responsibilities Held", responsibilityLabels)
	r.countTable(pdf, rec, "Table: Committee Memberships", committeeLabels)
	r.researchTable(pdf, rec)
	r.paymentTable(pdf, rec)
	r.declaration(pdf, rec)

	if pdf.Err() {
		return nil, errors.NewRenderFailedError(pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.NewRenderFailedError(err)
	}

	r.logger.Info("form rendered", map[string]interface{}{
		"applicationId": rec.ID,
		"pages":         pdf.PageCount(),
		"sizeBytes":     buf.Len(),
	})
	return buf.Bytes(), nil
}

func (r *Renderer) letterhead(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Times", "B", 16)
	pdf.CellFormat(0, 8, r.doc.InstitutionName, "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 10)
	if r.doc.AffiliationLine != "" {
		pdf.CellFormat(0, 5, r.doc.AffiliationLine, "", 1, "C", false, 0, "")
	}
	if r.doc.InstitutionCity != "" {
		pdf.CellFormat(0, 5, r.doc.InstitutionCity, "", 1, "C", false, 0, "")
	}
	if r.doc.PostNoticeLine != "" {
		pdf.Ln(2)
		pdf.SetFont("Times", "I", 10)
		pdf.CellFormat(0, 5, r.doc.PostNoticeLine, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *Renderer) photoBox(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord) {
	pageWidth, _ := pdf.GetPageSize()
	x, y, w, h := pageWidth-50, 40.0, 35.0, 45.0

	photo := rec.Files["photo"]
	if r.registerImage(pdf, "applicant-photo", photo) {
		pdf.ImageOptions("applicant-photo", x, y, w, h, false, imageOptions(photo), 0, "")
	} else {
		pdf.Rect(x, y, w, h, "D")
		pdf.SetFont("Arial", "", 7)
		pdf.Text(x+7, y+23, "Affix photograph")
	}
}

// registerImage loads an embedded image into the document. A missing or
// undecodable image is not fatal: the caller draws a placeholder box
// instead, so a corrupt upload can never block rendering.
func (r *Renderer) registerImage(pdf *gofpdf.Fpdf, name string, f *models.EmbeddedFile) bool {
	if !f.IsImage() {
		return false
	}
	pdf.RegisterImageOptionsReader(name, imageOptions(f), bytes.NewReader(f.Data))
	if pdf.Err() {
		r.logger.Warn("embedded image unreadable, using placeholder", map[string]interface{}{
			"image": name,
			"error": pdf.Error(),
		})
		pdf.ClearError()
		return false
	}
	return true
}

func (r *Renderer) personalSection(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord) {
	pdf.SetFont("Times", "B", 12)
	pdf.CellFormat(0, 7, "Application for the Post of "+orDash(rec.Value("postAppliedFor")), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Times", "", 10)
	for _, l := range personalLabels {
		value := rec.Value(l.field)
		if value == "" && l.field != "name" {
			value = "-"
		}
		pdf.SetFont("Times", "B", 10)
		pdf.CellFormat(65, 6, l.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Times", "", 10)
		// Long addresses wrap within the value column.
		if len(value) > 60 {
			pdf.MultiCell(125, 6, value, "", "L", false)
		} else {
			pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(3)
}

func (r *Renderer) sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Times", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(1)
}

func (r *Renderer) tableTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Times", "B", 11)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
}

func (r *Renderer) tableHeaderRow(pdf *gofpdf.Fpdf, criterion string) {
	pdf.SetFont("Times", "B", 9)
	pdf.CellFormat(110, 6, criterion, "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Claimed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Maximum", "1", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 9)
}

func (r *Renderer) countRow(pdf *gofpdf.Fpdf, label, claimed string, max int) {
	pdf.CellFormat(110, 6, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, orDash(claimed), "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%d", max), "1", 1, "C", false, 0, "")
}

func (r *Renderer) academicTable(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord) {
	r.tableTitle(pdf, "Table 1: Academic Record")
	r.tableHeaderRow(pdf, "Qualification (0.5 / 0.4 / 0.3 / 0.2 marks per percentage, max 5 each)")
	for _, l := range academicLabels {
		r.countRow(pdf, l.label, rec.Value(l.field), r.capOf(l.field, rec))
	}
	pdf.Ln(3)
}

func (r *Renderer) teachingTable(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord) {
	r.tableTitle(pdf, "Table: Teaching Experience")
	r.tableHeaderRow(pdf, "Criterion")
	r.countRow(pdf, "Teaching experience above 15 years of service", rec.Value("teachingExpAbove15"), r.capOf("teachingExpAbove15", rec))
	pdf.Ln(3)
}

func (r *Renderer) adminTable(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord) {
	r.tableTitle(pdf, "Table: Administrative Experience (combined ceiling 25)")
	r.tableHeaderRow(pdf, "Position held")
	for _, l := range adminLabels {
		r.countRow(pdf, l.label, rec.Value(l.field), r.capOf(l.field, rec))
	}
	pdf.Ln(3)
}

func (r *Renderer) countTable(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord, title string, labels []labelled) {
	r.tableTitle(pdf, title)
	r.tableHeaderRow(pdf, "Criterion")
	for _, l := range labels {
		r.countRow(pdf, l.label, rec.Value(l.field), r.capOf(l.field, rec))
	}
	pdf.Ln(3)
}

func (r *Renderer) researchTable(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord) {
	stream := rules.Stream(rec.Value("postAppliedFor"))
	r.tableTitle(pdf, fmt.Sprintf("Table 2: Research and Academic Contributions (%s stream ceilings)", stream))
	r.tableHeaderRow(pdf, "Contribution")
	for _, l := range researchLabels {
		r.countRow(pdf, l.label, rec.Value(l.field), r.capOf(l.field, rec))
	}

	if link := rec.Value("googleDriveLink"); link != "" {
		pdf.Ln(2)
		pdf.SetFont("Times", "", 9)
		pdf.MultiCell(0, 5, "Supporting documents (drive link): "+link, "", "L", false)
	}
	pdf.Ln(3)
}

func (r *Renderer) paymentTable(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord) {
	r.tableTitle(pdf, "Application Fee Payment Details")
	pdf.SetFont("Times", "", 10)
	for _, l := range paymentLabels {
		pdf.SetFont("Times", "B", 10)
		pdf.CellFormat(65, 6, l.label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Times", "", 10)
		pdf.CellFormat(125, 6, orDash(rec.Value(l.field)), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (r *Renderer) declaration(pdf *gofpdf.Fpdf, rec *models.ApplicationRecord) {
	r.tableTitle(pdf, "Declaration")
	pdf.SetFont("Times", "", 10)

	text := fmt.Sprintf(
		"I, %s, D/o S/o W/o %s, hereby declare that the entries made in this "+
			"application form are true to the best of my knowledge and belief. If anything is "+
			"found false at any stage, my candidature may be cancelled without any notice.",
		orDash(rec.Value("name")), orDash(rec.Value("parentName")),
	)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(4)

	if rec.Value("hasNOC") == "yes" {
		r.tableTitle(pdf, "Employer Details (NOC enclosed)")
		pdf.SetFont("Times", "", 10)
		for _, l := range nocLabels {
			pdf.SetFont("Times", "B", 10)
			pdf.CellFormat(65, 6, l.label, "", 0, "L", false, 0, "")
			pdf.SetFont("Times", "", 10)
			pdf.CellFormat(0, 6, orDash(rec.Value(l.field)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Times", "", 10)
	pdf.CellFormat(95, 6, "Place: "+orDash(rec.Value("place")), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+orDash(rec.Value("date")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if sig := rec.Files["signature"]; r.registerImage(pdf, "applicant-signature", sig) {
		x, _ := pdf.GetPageSize()
		pdf.ImageOptions("applicant-signature", x-70, pdf.GetY(), 45, 18, false, imageOptions(sig), 0, "")
		pdf.Ln(20)
	} else {
		pdf.Ln(12)
	}
	pdf.SetFont("Times", "", 10)
	pdf.CellFormat(0, 6, "Signature of the Applicant", "", 1, "R", false, 0, "")
}

func (r *Renderer) capOf(field string, rec *models.ApplicationRecord) int {
	rule, _, ok := r.table.Field(field)
	if !ok {
		return 0
	}
	return rule.CapFor(rules.Stream(rec.Value("postAppliedFor")))
}

func imageOptions(f *models.EmbeddedFile) gofpdf.ImageOptions {
	imageType := "JPG"
	if f != nil && f.ContentType == "image/png" {
		imageType = "PNG"
	}
	return gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
