package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// A4 portrait in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Paginate returns the vertical offset, in millimetres, at which the full
// image is placed on each page. The image is scaled to the page width; the
// first page shows it at 0 and every further page shifts it up by the height
// already consumed, so offsets are 0 or negative. One offset per page.
func Paginate(imgW, imgH int) []float64 {
	if imgW <= 0 || imgH <= 0 {
		return nil
	}
	imgHeight := float64(imgH) * PageWidthMM / float64(imgW)
	heightLeft := imgHeight
	offsets := []float64{0}
	heightLeft -= PageHeightMM
	for heightLeft > 0 {
		offsets = append(offsets, heightLeft-imgHeight)
		heightLeft -= PageHeightMM
	}
	return offsets
}

// Slice cuts the page windows out of one tall PNG. Each window has the A4
// aspect ratio at the image's own resolution; the last one is padded white.
func Slice(pngData []byte) ([][]byte, error) {
	src, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	b := src.Bounds()
	scale := float64(b.Dx()) / PageWidthMM
	pageH := int(math.Round(PageHeightMM * scale))

	var pages [][]byte
	for _, off := range Paginate(b.Dx(), b.Dy()) {
		top := b.Min.Y + int(math.Round(-off*scale))
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), pageH))
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(dst, dst.Bounds(), src, image.Pt(b.Min.X, top), draw.Over)

		var buf bytes.Buffer
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode page: %w", err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}

var disableConfigDir sync.Once

// Assemble builds a PDF with one full-bleed A4 page per image.
func Assemble(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("assemble: no pages")
	}
	disableConfigDir.Do(api.DisableConfigDir)

	imp, err := api.Import("formsize:A4, position:full", types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("import details: %w", err)
	}
	readers := make([]io.Reader, 0, len(pages))
	for _, p := range pages {
		readers = append(readers, bytes.NewReader(p))
	}
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, nil); err != nil {
		return nil, fmt.Errorf("import images: %w", err)
	}
	return out.Bytes(), nil
}

// PageCount reports the number of pages of a PDF.
func PageCount(pdf []byte) (int, error) {
	disableConfigDir.Do(api.DisableConfigDir)
	return api.PageCount(bytes.NewReader(pdf), nil)
}
