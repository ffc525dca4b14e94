package http

import (
	"time"

	"recruitment-portal/internal/common/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application with all portal routes registered.
func NewApp(cfg config.ServerConfig, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "recruitment-portal",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
	})

	app.Use(recover.New())

	app.Get("/healthz", h.Healthz)

	apps := app.Group("/applications")
	apps.Post("/", h.CreateApplication)
	apps.Get("/:id", h.GetApplication)
	apps.Patch("/:id/fields", h.UpdateFields)
	apps.Post("/:id/files/:field", h.UploadFile)
	apps.Put("/:id/acknowledgements", h.SetAcknowledgements)
	apps.Put("/:id/checklist", h.SetChecklist)
	apps.Post("/:id/next", h.Next)
	apps.Post("/:id/back", h.Back)
	apps.Get("/:id/preview", h.Preview)
	apps.Get("/:id/document", h.DownloadDocument)
	apps.Post("/:id/submit", h.Submit)

	app.Get("/admin/applications/export", h.ExportCSV)

	return app
}
