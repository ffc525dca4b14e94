// Package http exposes the application portal over REST.
package http

import (
	"bytes"
	"io"

	"recruitment-portal/internal/archive"
	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/document/render"
	"recruitment-portal/internal/form/ingest"
	"recruitment-portal/internal/form/navigator"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/form/session"
	"recruitment-portal/internal/models"
	"recruitment-portal/internal/submission"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	store        *session.Store
	navigator    *navigator.Navigator
	ingestor     *ingest.Ingestor
	renderer     *render.Renderer
	orchestrator *submission.Orchestrator
	archiver     *archive.Archiver
	table        *rules.Table
	errors       *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(
	store *session.Store,
	nav *navigator.Navigator,
	ing *ingest.Ingestor,
	renderer *render.Renderer,
	orch *submission.Orchestrator,
	archiver *archive.Archiver,
	table *rules.Table,
	log logger.Logger,
) *Handler {
	return &Handler{
		store:        store,
		navigator:    nav,
		ingestor:     ing,
		renderer:     renderer,
		orchestrator: orch,
		archiver:     archiver,
		table:        table,
		errors:       errors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// fail normalizes any error into a standard response envelope.
func (h *Handler) fail(c *fiber.Ctx, operation string, err error) error {
	se := h.errors.Handle(operation, err)
	return c.Status(errors.HTTPStatus(se.Code)).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    se.Code,
			"message": se.Message,
			"details": se.Details,
		},
	})
}

// view strips file payloads down to metadata so responses stay small.
func (h *Handler) view(rec *models.ApplicationRecord) fiber.Map {
	files := fiber.Map{}
	for field, f := range rec.Files {
		if f == nil {
			continue
		}
		files[field] = fiber.Map{
			"name":        f.Name,
			"contentType": f.ContentType,
			"size":        f.Size(),
		}
	}
	view := fiber.Map{
		"id":               rec.ID,
		"applicationNo":    rec.ApplicationNo,
		"status":           rec.Status,
		"currentStep":      rec.CurrentStep,
		"totalSteps":       h.table.StepCount(),
		"values":           rec.Values,
		"files":            files,
		"errors":           rec.Errors,
		"acknowledgements": rec.Acknowledgements,
		"checklist":        rec.Checklist,
		"createdAt":        rec.CreatedAt,
		"updatedAt":        rec.UpdatedAt,
		"submittedAt":      rec.SubmittedAt,
	}
	if rec.Document != nil {
		view["document"] = fiber.Map{
			"fileName": rec.Document.Name,
			"size":     rec.Document.Size(),
			"url":      documentPath(rec.ID),
		}
	}
	return view
}

func documentPath(id string) string {
	return "/applications/" + id + "/document"
}

func (h *Handler) CreateApplication(c *fiber.Ctx) error {
	rec, err := h.store.Create(c.Context())
	if err != nil {
		return h.fail(c, "create-application", err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.view(rec))
}

func (h *Handler) GetApplication(c *fiber.Ctx) error {
	rec, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "get-application", err)
	}
	return c.JSON(h.view(rec))
}

func (h *Handler) UpdateFields(c *fiber.Ctx) error {
	var values map[string]string
	if err := c.BodyParser(&values); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	rec, err := h.store.UpdateFields(c.Context(), c.Params("id"), values)
	if err != nil {
		return h.fail(c, "update-fields", err)
	}
	return c.JSON(h.view(rec))
}

func (h *Handler) UploadFile(c *fiber.Ctx) error {
	id := c.Params("id")
	field := c.Params("field")

	// Multipart upload, or a JSON body carrying a data URI.
	if fh, err := c.FormFile("file"); err == nil {
		src, err := fh.Open()
		if err != nil {
			return h.fail(c, "upload-file", err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return h.fail(c, "upload-file", err)
		}
		rec, err := h.ingestor.Accept(c.Context(), id, field, fh.Filename,
			fh.Header.Get("Content-Type"), data)
		if err != nil {
			return h.fail(c, "upload-file", err)
		}
		return c.JSON(h.view(rec))
	}

	var body struct {
		Name    string `json:"name"`
		DataURI string `json:"dataUri"`
	}
	if err := c.BodyParser(&body); err != nil || body.DataURI == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expected multipart file or dataUri"})
	}
	rec, err := h.ingestor.AcceptDataURI(c.Context(), id, field, body.Name, body.DataURI)
	if err != nil {
		return h.fail(c, "upload-file", err)
	}
	return c.JSON(h.view(rec))
}

func (h *Handler) SetAcknowledgements(c *fiber.Ctx) error {
	var update models.AcknowledgementsUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	rec, err := h.store.SetAcknowledgements(c.Context(), c.Params("id"), update)
	if err != nil {
		return h.fail(c, "set-acknowledgements", err)
	}
	return c.JSON(h.view(rec))
}

func (h *Handler) SetChecklist(c *fiber.Ctx) error {
	var checklist models.VerificationChecklist
	if err := c.BodyParser(&checklist); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	rec, err := h.store.SetChecklist(c.Context(), c.Params("id"), checklist)
	if err != nil {
		return h.fail(c, "set-checklist", err)
	}
	return c.JSON(h.view(rec))
}

func (h *Handler) Next(c *fiber.Ctx) error {
	rec, result, err := h.navigator.Next(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "next-step", err)
	}
	if !result.Valid {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"step":   result.Step,
			"valid":  false,
			"errors": result.Errors,
			"gate":   result.Gate,
		})
	}
	return c.JSON(h.view(rec))
}

func (h *Handler) Back(c *fiber.Ctx) error {
	rec, err := h.navigator.Back(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "back-step", err)
	}
	return c.JSON(h.view(rec))
}

// Preview renders the form document alone, without attachment merging.
func (h *Handler) Preview(c *fiber.Ctx) error {
	rec, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "preview", err)
	}
	doc, err := h.renderer.Render(rec)
	if err != nil {
		return h.fail(c, "preview", err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="preview.pdf"`)
	return c.Send(doc)
}

func (h *Handler) Submit(c *fiber.Ctx) error {
	outcome, err := h.orchestrator.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "submit", err)
	}
	outcome.DocumentURL = documentPath(c.Params("id"))
	return c.JSON(outcome)
}

// DownloadDocument streams the combined application PDF produced at
// submission time.
func (h *Handler) DownloadDocument(c *fiber.Ctx) error {
	rec, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "download-document", err)
	}
	if rec.Document == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no document yet, the application has not been submitted",
		})
	}
	c.Set(fiber.HeaderContentType, rec.Document.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+rec.Document.Name+`"`)
	return c.Send(rec.Document.Data)
}

func (h *Handler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.archiver.ExportCSV(c.Context(), &buf, h.table.FieldNames()); err != nil {
		return h.fail(c, "export-csv", err)
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="applications.csv"`)
	return c.Send(buf.Bytes())
}

func (h *Handler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
