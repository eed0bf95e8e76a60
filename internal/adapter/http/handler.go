// Package http exposes the resume builder over fiber.
package http

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resume-builder/internal/dashboard"
	"resume-builder/internal/domain"
	"resume-builder/internal/metrics"
	"resume-builder/internal/refdata"
	"resume-builder/internal/registration"
	"resume-builder/internal/session"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResumeStore persists a submitted resume and returns its id.
type ResumeStore interface {
	Save(ctx context.Context, p domain.SavePayload) (int64, error)
}

// UserStore persists registered users.
type UserStore interface {
	Insert(ctx context.Context, u dashboard.User) (dashboard.User, error)
}

// Deps are the collaborators of the handlers. Resumes, UserStore and Refs
// may be nil.
type Deps struct {
	Sessions     *session.Registry
	Processor    *usecase.Processor
	Resumes      ResumeStore
	Refs         *refdata.Store
	Registration *registration.Validator
	Users        *dashboard.Store
	UserStore    UserStore
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	Logger       *slog.Logger
	Now          func() time.Time
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Users == nil {
		d.Users = dashboard.NewStore(nil)
	}
	if d.Registration == nil {
		d.Registration = registration.New(d.Refs)
	}
	return &Handler{Deps: d}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))

	s := app.Group("/sessions")
	s.Post("/", h.CreateSession)
	s.Get("/:id", h.GetSession)
	s.Delete("/:id", h.DeleteSession)
	s.Post("/:id/reset", h.ResetSession)
	s.Put("/:id/personal", h.SetPersonal)
	s.Put("/:id/photo", h.SetPhoto)
	s.Put("/:id/visibility/:section", h.SetVisibility)
	s.Put("/:id/skills", h.SetSkills)
	s.Put("/:id/declaration", h.SetDeclaration)
	s.Post("/:id/entries/:kind", h.AddEntry)
	s.Patch("/:id/entries/:kind/:entryId", h.UpdateEntry)
	s.Delete("/:id/entries/:kind/:entryId", h.RemoveEntry)
	s.Post("/:id/preview", h.Preview)
	s.Get("/:id/preview", h.GetPreview)
	s.Post("/:id/export", h.Export)

	api := app.Group("/api")
	api.Post("/save-resume", h.SaveResume)
	api.Get("/reference/:kind", h.Reference)
	api.Post("/register", h.RegisterUser)
	api.Get("/dashboard/users", h.DashboardUsers)
	api.Get("/dashboard/stats", h.DashboardStats)
	api.Get("/dashboard/export", h.DashboardExport)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "sessions": h.Sessions.Len()})
}

// ErrorHandler is the fiber fallback for errors no handler rendered.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return writeError(c, err)
}

// writeError maps pipeline errors to status codes.
func writeError(c *fiber.Ctx, err error) error {
	var (
		ve *domain.ValidationError
		pe *domain.PreconditionError
		ce *domain.CollaboratorError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "errors": ve.Fields})
	case errors.As(err, &pe):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": pe.Message})
	case errors.As(err, &ce):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": ce.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, session.ErrUnknownKind):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
