package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/export"
	"resume-builder/internal/metrics"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/session"
)

// Saver hands a flattened resume to the persistence collaborator.
type Saver interface {
	Save(ctx context.Context, p domain.SavePayload) (domain.SaveResult, error)
}

// Exporter turns preview markup into a PDF.
type Exporter interface {
	Export(ctx context.Context, previewHTML string, opts export.Options) (export.Artifact, error)
}

// Processor composes the pipeline: preview, then optionally save, and export
// from the last successful preview.
type Processor struct {
	saver    Saver
	exporter Exporter
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewProcessor(s Saver, e Exporter, m *metrics.Metrics, logger *slog.Logger) *Processor {
	if m == nil {
		m = metrics.Nop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{saver: s, exporter: e, metrics: m, logger: logger}
}

// PreviewResult is what a successful preview produced.
type PreviewResult struct {
	Resume model.Resume
	HTML   string
}

// Preview checks the declaration, validates every section and, when all pass,
// aggregates and renders the resume and stores it as the session's preview.
// A failed preview leaves the previous one in place.
func (p *Processor) Preview(ctx context.Context, s *session.Session) (PreviewResult, error) {
	var out PreviewResult
	err := s.Update(func(st *session.State) error {
		if !st.Accepted {
			st.SetError("declaration", domain.ErrDeclarationRequired.Message)
			return domain.ErrDeclarationRequired
		}
		st.SetError("declaration", "")

		res := Validate(st)
		if !res.Valid {
			return &domain.ValidationError{Fields: res.Errors}
		}

		resume := Aggregate(st)
		if err := model.ValidateDocument(resume); err != nil {
			return fmt.Errorf("aggregate: %w", err)
		}
		html, err := render.HTML(resume, render.Options{IncludePhoto: st.IncludePhoto})
		if err != nil {
			return err
		}
		st.Preview = html
		out = PreviewResult{Resume: resume, HTML: html}
		return nil
	})
	p.metrics.Previews.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return PreviewResult{}, err
	}
	p.logger.Info("preview rendered", "session", s.ID, "experience", len(out.Resume.Experience),
		"education", len(out.Resume.Education), "projects", len(out.Resume.Projects))
	return out, nil
}

// Save sends r to the persistence collaborator. The session is never touched,
// so a failed save leaves preview and export available.
func (p *Processor) Save(ctx context.Context, r model.Resume) (domain.SaveResult, error) {
	if p.saver == nil {
		return domain.SaveResult{}, &domain.CollaboratorError{Op: "save resume", Err: errors.New("persistence is not configured")}
	}
	res, err := p.saver.Save(ctx, NewSavePayload(r))
	if err != nil {
		p.metrics.Saves.WithLabelValues("failure").Inc()
		p.logger.Warn("warning: failed to save resume", "error", err)
		return domain.SaveResult{}, err
	}
	p.metrics.Saves.WithLabelValues("ok").Inc()
	p.logger.Info("resume saved", "resume_id", res.ResumeID)
	return res, nil
}

// Export renders the session's last successful preview. includePhoto
// overrides the session flag when non-nil. A second export of the same
// session fails with domain.ErrExportInProgress until the first finishes.
func (p *Processor) Export(ctx context.Context, s *session.Session, mode export.Mode, includePhoto *bool) (export.Artifact, error) {
	if !s.BeginExport() {
		p.metrics.Exports.WithLabelValues(string(mode), exportOutcome(domain.ErrExportInProgress)).Inc()
		return export.Artifact{}, domain.ErrExportInProgress
	}
	defer s.EndExport()

	snap := s.Snapshot()
	opts := export.Options{IncludePhoto: snap.IncludePhoto, Mode: mode}
	if includePhoto != nil {
		opts.IncludePhoto = *includePhoto
	}

	start := time.Now()
	art, err := p.exporter.Export(ctx, snap.Preview, opts)
	p.metrics.Exports.WithLabelValues(string(mode), exportOutcome(err)).Inc()
	if err != nil {
		return export.Artifact{}, err
	}
	p.metrics.ExportDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	return art, nil
}

func outcome(err error) string {
	var (
		ve *domain.ValidationError
		pe *domain.PreconditionError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid"
	case errors.As(err, &pe):
		return "precondition"
	}
	return "error"
}

func exportOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoPreview):
		return "no_preview"
	case errors.Is(err, domain.ErrExportInProgress):
		return "busy"
	}
	return "failure"
}
