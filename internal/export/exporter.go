// Package export turns a rendered preview into a downloadable PDF.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/render"
)

// Mode selects how the PDF is produced.
type Mode string

const (
	// ModeRaster captures the preview as one tall image and paginates it.
	ModeRaster Mode = "raster"
	// ModePrint uses the browser's print pipeline for vector output.
	ModePrint Mode = "print"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeRaster:
		return ModeRaster, nil
	case ModePrint:
		return ModePrint, nil
	}
	return "", fmt.Errorf("unknown export mode %q", s)
}

type Options struct {
	IncludePhoto bool
	Mode         Mode
}

// Artifact is the finished download.
type Artifact struct {
	FileName    string
	ContentType string
	Bytes       []byte
	Pages       int
}

// Surface loads preview markup into a rendering engine.
type Surface interface {
	Open(ctx context.Context, html string) (Page, error)
}

// Page is one loaded preview.
type Page interface {
	SetVisible(ctx context.Context, elementID string, visible bool) error
	// Capture returns a full-height PNG of the document.
	Capture(ctx context.Context) ([]byte, error)
	PrintPDF(ctx context.Context) ([]byte, error)
	Close() error
}

// DefaultConcurrency is how many browser renders run at once unless
// WithConcurrency says otherwise.
const DefaultConcurrency = 2

// Exporter renders previews to PDF. Renders beyond the concurrency cap wait
// for a free slot; one export per session is enforced by the caller.
type Exporter struct {
	surface Surface
	timeout time.Duration
	logger  *slog.Logger
	slots   chan struct{}
}

type ExporterOption func(*Exporter)

func WithConcurrency(n int) ExporterOption {
	return func(e *Exporter) {
		if n > 0 {
			e.slots = make(chan struct{}, n)
		}
	}
}

func NewExporter(s Surface, timeout time.Duration, logger *slog.Logger, opts ...ExporterOption) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	e := &Exporter{surface: s, timeout: timeout, logger: logger, slots: make(chan struct{}, DefaultConcurrency)}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Export renders previewHTML to a PDF. It fails with domain.ErrNoPreview
// when there is nothing to export.
func (e *Exporter) Export(ctx context.Context, previewHTML string, opts Options) (Artifact, error) {
	if strings.TrimSpace(previewHTML) == "" {
		return Artifact{}, domain.ErrNoPreview
	}
	select {
	case e.slots <- struct{}{}:
	case <-ctx.Done():
		return Artifact{}, &domain.CollaboratorError{Op: "wait for renderer", Err: ctx.Err()}
	}
	defer func() { <-e.slots }()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	pg, err := e.surface.Open(ctx, previewHTML)
	if err != nil {
		return Artifact{}, &domain.CollaboratorError{Op: "open preview", Err: err}
	}
	defer func() {
		if err := pg.Close(); err != nil {
			e.logger.Warn("export: closing preview page", "error", err)
		}
	}()

	var data []byte
	err = e.withoutPhoto(ctx, pg, !opts.IncludePhoto, func() error {
		var err error
		if opts.Mode == ModePrint {
			data, err = pg.PrintPDF(ctx)
			return err
		}
		data, err = pg.Capture(ctx)
		return err
	})
	if err != nil {
		return Artifact{}, &domain.CollaboratorError{Op: "capture preview", Err: err}
	}

	art := Artifact{FileName: "resume.pdf", ContentType: "application/pdf"}
	if opts.Mode == ModePrint {
		art.Bytes = data
		if n, err := PageCount(data); err == nil {
			art.Pages = n
		} else {
			e.logger.Warn("export: counting pages", "error", err)
		}
		return art, nil
	}

	pages, err := Slice(data)
	if err != nil {
		return Artifact{}, err
	}
	pdf, err := Assemble(pages)
	if err != nil {
		return Artifact{}, err
	}
	art.Bytes = pdf
	art.Pages = len(pages)
	e.logger.Info("export: assembled", "pages", art.Pages, "bytes", len(pdf))
	return art, nil
}

// withoutPhoto hides the photo element for the duration of fn and restores
// it afterwards whatever fn returns.
func (e *Exporter) withoutPhoto(ctx context.Context, pg Page, hide bool, fn func() error) error {
	if !hide {
		return fn()
	}
	if err := pg.SetVisible(ctx, render.PhotoElementID, false); err != nil {
		return fmt.Errorf("hide photo: %w", err)
	}
	defer func() {
		if err := pg.SetVisible(context.WithoutCancel(ctx), render.PhotoElementID, true); err != nil {
			e.logger.Warn("export: restoring photo", "error", err)
		}
	}()
	return fn()
}
