package http

import (
	"fmt"
	"io"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/export"
	"resume-builder/internal/model"
	"resume-builder/internal/session"

	"github.com/gofiber/fiber/v2"
)

type sessionView struct {
	ID string `json:"id"`
	session.State
	HasPreview bool `json:"hasPreview"`
}

func view(s *session.Session) sessionView {
	st := s.Snapshot()
	return sessionView{ID: s.ID, State: st, HasPreview: st.Preview != ""}
}

func (h *Handler) session(c *fiber.Ctx) (*session.Session, error) {
	return h.Sessions.Get(c.Params("id"))
}

func (h *Handler) CreateSession(c *fiber.Ctx) error {
	s := h.Sessions.Create()
	h.Metrics.ActiveSessions.Set(float64(h.Sessions.Len()))
	h.Logger.Info("session created", "session", s.ID)
	return c.Status(fiber.StatusCreated).JSON(view(s))
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view(s))
}

func (h *Handler) DeleteSession(c *fiber.Ctx) error {
	if err := h.Sessions.Delete(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	h.Metrics.ActiveSessions.Set(float64(h.Sessions.Len()))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ResetSession(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	s.Reset()
	return c.JSON(view(s))
}

func (h *Handler) SetPersonal(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in model.PersonalInfo
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid payload")
	}
	s.SetPersonal(in)
	return c.JSON(view(s))
}

func (h *Handler) SetPhoto(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "photo file is required")
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return badRequest(c, "photo must be an image")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fmt.Errorf("reading photo: %w", err))
	}
	s.SetPhoto(&model.Photo{ContentType: ct, Data: data})
	return c.SendStatus(fiber.StatusNoContent)
}

type visibilityReq struct {
	Visible bool `json:"visible"`
}

func (h *Handler) SetVisibility(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	sec, ok := model.ParseSection(c.Params("section"))
	if !ok {
		return badRequest(c, "unknown section")
	}
	var req visibilityReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	s.SetVisibility(sec, req.Visible)
	return c.JSON(view(s))
}

func (h *Handler) SetSkills(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in model.SkillSet
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid payload")
	}
	s.SetSkills(in)
	return c.JSON(view(s))
}

type declarationReq struct {
	Text         string `json:"text"`
	Accepted     bool   `json:"accepted"`
	IncludePhoto *bool  `json:"includePhoto"`
}

func (h *Handler) SetDeclaration(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var req declarationReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	s.SetDeclaration(req.Text, req.Accepted, req.IncludePhoto)
	return c.JSON(view(s))
}

func (h *Handler) AddEntry(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	kind, ok := model.ParseSection(c.Params("kind"))
	if !ok {
		return badRequest(c, "unknown entry kind")
	}
	id, err := s.AddEntry(kind)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

type textReq struct {
	Text string `json:"text"`
}

func (h *Handler) UpdateEntry(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	kind, ok := model.ParseSection(c.Params("kind"))
	if !ok {
		return badRequest(c, "unknown entry kind")
	}
	id := c.Params("entryId")

	switch kind {
	case model.SectionExperience:
		var in model.ExperienceEntry
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid payload")
		}
		e, msg, err := s.UpdateExperience(id, in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"entry": e, "duration": e.Duration, "error": msg})
	case model.SectionEducation:
		var in model.EducationEntry
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid payload")
		}
		e, err := s.UpdateEducation(id, in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"entry": e})
	case model.SectionProjects:
		var in model.ProjectEntry
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid payload")
		}
		e, err := s.UpdateProject(id, in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"entry": e})
	case model.SectionHobbies, model.SectionCertifications:
		var in textReq
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid payload")
		}
		if err := s.UpdateText(kind, id, in.Text); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"entry": model.TextEntry{ID: id, Text: in.Text}})
	}
	return writeError(c, session.ErrUnknownKind)
}

func (h *Handler) RemoveEntry(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	kind, ok := model.ParseSection(c.Params("kind"))
	if !ok {
		return badRequest(c, "unknown entry kind")
	}
	if err := s.RemoveEntry(kind, c.Params("entryId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Preview validates and renders the session. With ?save=true the resume is
// then sent to persistence; a failed save is reported but keeps the preview.
func (h *Handler) Preview(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.Processor.Preview(c.UserContext(), s)
	if err != nil {
		return writeError(c, err)
	}

	out := fiber.Map{"html": res.HTML, "resume": res.Resume}
	if c.QueryBool("save") {
		saved, err := h.Processor.Save(c.UserContext(), res.Resume)
		if err != nil {
			out["saveError"] = err.Error()
		} else {
			out["save"] = saved
		}
	}
	return c.JSON(out)
}

func (h *Handler) GetPreview(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	html := s.Snapshot().Preview
	if html == "" {
		return writeError(c, domain.ErrNoPreview)
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *Handler) Export(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	mode, err := export.ParseMode(c.Query("mode"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	var includePhoto *bool
	if v := c.Query("photo"); v != "" {
		b := c.QueryBool("photo")
		includePhoto = &b
	}

	art, err := h.Processor.Export(c.UserContext(), s, mode, includePhoto)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, art.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", art.FileName))
	c.Set("X-Page-Count", fmt.Sprint(art.Pages))
	return c.Send(art.Bytes)
}
