package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/internal/export"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpSurface loads preview markup into a headless Chrome tab.
type ChromedpSurface struct {
	execPath string
	// Scale is the device scale factor used for raster captures.
	Scale float64
}

func NewChromedpSurface(execPath string) *ChromedpSurface {
	return &ChromedpSurface{execPath: execPath, Scale: 2}
}

func (s *ChromedpSurface) Open(ctx context.Context, html string) (export.Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.execPath != "" {
		opts = append(opts, chromedp.ExecPath(s.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	p := &chromedpPage{ctx: cctx, cancel: func() { cancelCtx(); cancelAlloc() }}

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		p.cancel()
		return nil, err
	}
	p.tmpDir = tmpDir

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		_ = p.Close()
		return nil, err
	}

	// A4 at 96 dpi is 794 px wide.
	err = chromedp.Run(cctx,
		chromedp.EmulateViewport(794, 1123, chromedp.EmulateScale(s.Scale)),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("load preview: %w", err)
	}
	return p, nil
}

type chromedpPage struct {
	ctx    context.Context
	cancel context.CancelFunc
	tmpDir string
}

func (p *chromedpPage) SetVisible(_ context.Context, elementID string, visible bool) error {
	display := "none"
	if visible {
		display = ""
	}
	js := fmt.Sprintf(`(function(){var el=document.getElementById(%q);if(el){el.style.display=%q;}return !!el;})()`, elementID, display)
	var found bool
	return chromedp.Run(p.ctx, chromedp.Evaluate(js, &found))
}

func (p *chromedpPage) Capture(_ context.Context) ([]byte, error) {
	var buf []byte
	// quality 100 selects PNG
	if err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *chromedpPage) PrintPDF(_ context.Context) ([]byte, error) {
	var pdfBuf []byte
	err := chromedp.Run(p.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		// A4: 210mm x 297mm -> inches: 8.27 x 11.69
		pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
			WithPaperWidth(8.27).
			WithPaperHeight(11.69).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

func (p *chromedpPage) Close() error {
	p.cancel()
	if p.tmpDir == "" {
		return nil
	}
	return os.RemoveAll(p.tmpDir)
}
