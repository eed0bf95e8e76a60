package http

import (
	"encoding/json"
	"fmt"
	"strings"

	"resume-builder/internal/dashboard"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/refdata"
	"resume-builder/internal/registration"

	"github.com/gofiber/fiber/v2"
)

// SaveResume is the persistence endpoint the preview step posts to.
func (h *Handler) SaveResume(c *fiber.Ctx) error {
	if h.Resumes == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(domain.SaveResult{Error: "persistence is not configured"})
	}
	body := c.Body()
	if err := model.ValidatePayload(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.SaveResult{Error: err.Error()})
	}
	var p domain.SavePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(domain.SaveResult{Error: err.Error()})
	}

	id, err := h.Resumes.Save(c.UserContext(), p)
	if err != nil {
		h.Logger.Error("save resume failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(domain.SaveResult{Error: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(domain.SaveResult{
		Success:  true,
		Message:  "Resume saved successfully!",
		ResumeID: fmt.Sprint(id),
	})
}

func (h *Handler) Reference(c *fiber.Ctx) error {
	if h.Refs == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "reference data is not loaded"})
	}
	kind, ok := refdata.ParseKind(c.Params("kind"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown reference list"})
	}
	return c.JSON(h.Refs.List(kind))
}

// RegisterUser validates the registration form and adds the user to the
// dashboard.
func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	var form registration.Form
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid payload")
	}
	form, err := h.Registration.Validate(form)
	if err != nil {
		h.Metrics.Registrations.WithLabelValues("invalid").Inc()
		return writeError(c, err)
	}

	u := dashboard.User{
		Name:           form.FullName,
		Status:         form.Status,
		City:           form.CityCapital,
		UserType:       form.Type,
		OnboardingDate: form.OnboardingDate,
	}
	if h.UserStore != nil {
		if u, err = h.UserStore.Insert(c.UserContext(), u); err != nil {
			h.Metrics.Registrations.WithLabelValues("error").Inc()
			return writeError(c, &domain.CollaboratorError{Op: "store user", Err: err})
		}
	}
	h.Users.Add(u)
	h.Metrics.Registrations.WithLabelValues("valid").Inc()
	h.Logger.Info("user registered", "type", u.UserType, "city", u.City)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration submitted successfully!",
		"user":    u,
	})
}

func (h *Handler) DashboardUsers(c *fiber.Ctx) error {
	users := h.Users.Search(c.Query("q"))
	return c.JSON(fiber.Map{"success": true, "count": len(users), "users": users})
}

func (h *Handler) DashboardStats(c *fiber.Ctx) error {
	return c.JSON(h.Users.Stats())
}

func (h *Handler) DashboardExport(c *fiber.Ctx) error {
	f, err := dashboard.ParseFormat(strings.ToLower(c.Query("format")))
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := dashboard.Export(h.Users.All(), f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, f.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.FileName(h.Now())))
	return c.Send(out)
}
