package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"slidesmith/deck"
	"slidesmith/render"
)

// Page dimensions in millimeters for a 1280x720 slide captured at 96 DPI.
const (
	pdfPageWidthMM  = 338.7
	pdfPageHeightMM = 190.5
)

// PDFExportService builds the paged raster projection: each slide's rendered
// interactive representation is captured as a 1280x720 frame and appended as
// one page. Capture failures for an individual slide are logged and skipped
// rather than aborting the export; zero captured slides yield an empty but
// valid document, since this path depends on display capture.
type PDFExportService struct {
	html    *render.HTMLService
	capture CaptureFunc
	logger  func(string)
}

// NewPDFExportService creates the raster exporter. capture defaults to the
// headless Chrome implementation when nil.
func NewPDFExportService(html *render.HTMLService, capture CaptureFunc, logger func(string)) *PDFExportService {
	if capture == nil {
		capture = ChromeCapture
	}
	return &PDFExportService{html: html, capture: capture, logger: logger}
}

func (s *PDFExportService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// ExportDeck captures every slide and assembles the multi-page PDF. Page
// order equals slide order.
func (s *PDFExportService) ExportDeck(slides []deck.Slide, branding deck.Branding) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(pdfPageWidthMM, pdfPageHeightMM).
		WithLeftMargin(0).
		WithTopMargin(0).
		WithRightMargin(0).
		Build()
	m := maroto.New(cfg)

	captured := 0
	for i, sl := range slides {
		page := s.html.RenderSlidePage(sl, branding)
		png, err := s.capture(page, render.SlideWidth, render.SlideHeight)
		if err != nil {
			s.log(fmt.Sprintf("[PDF] capture failed for slide %d (%s), skipping: %v", i+1, sl.ID, err))
			continue
		}
		m.AddRows(row.New(pdfPageHeightMM).Add(
			col.New(12).Add(
				image.NewFromBytes(png, extension.Png, props.Rect{Percent: 100}),
			),
		))
		captured++
	}
	s.log(fmt.Sprintf("[PDF] captured %d of %d slides", captured, len(slides)))

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return document.GetBytes(), nil
}
