package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"slidesmith/deck"
	"slidesmith/layout"
)

// PPTExportService rebuilds each slide's composition from the shared layout
// plan using GoPPT primitives (pure Go, zero dependencies). It does not
// reuse the captured rasters: the presentation file carries real shapes and
// text runs. Any failure aborts the whole export with a single error.
type PPTExportService struct {
	AppIdentity string
}

// NewPPTExportService creates a new GoPPT-backed exporter.
func NewPPTExportService(appIdentity string) *PPTExportService {
	return &PPTExportService{AppIdentity: appIdentity}
}

// PPT layout constants, 16:9 widescreen.
const (
	emuPerInch = 914400

	pptSlideWidth   = int64(10.0 * emuPerInch)
	pptSlideHeight  = int64(5.625 * emuPerInch)
	pptMarginLeft   = int64(0.5 * emuPerInch)
	pptContentWidth = int64(9.0 * emuPerInch)

	pptFontTitle     = 30
	pptFontCover     = 44
	pptFontBigNumber = 96
	pptFontQuote     = 28
	pptFontCaption   = 14
	pptFontFooter    = 10

	// Content font sizes for the three dynamic tiers.
	pptFontTier0 = 18
	pptFontTier1 = 15
	pptFontTier2 = 12
)

// helper: create a solid fill
func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

// helper: set paragraph alignment to center
func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// argbFromHex converts a "#RRGGBB" branding color into GoPPT's ARGB form.
func argbFromHex(hex, fallback string) string {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		h = strings.TrimPrefix(fallback, "#")
	}
	return "FF" + strings.ToUpper(h)
}

// ExportDeck builds the presentation file for the full deck.
func (s *PPTExportService) ExportDeck(slides []deck.Slide, branding deck.Branding) ([]byte, error) {
	if len(slides) == 0 {
		return nil, fmt.Errorf("cannot export an empty deck")
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = slides[0].Title
	p.GetDocumentProperties().Creator = s.AppIdentity

	for i, sl := range slides {
		var slide *ppt.Slide
		if i == 0 {
			slide = p.GetActiveSlide()
		} else {
			slide = p.CreateSlide()
		}
		s.buildSlide(slide, sl, branding)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPT writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save PPT: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PPTExportService) buildSlide(slide *ppt.Slide, sl deck.Slide, b deck.Branding) {
	plan, known := layout.For(sl.Layout)
	switch {
	case !known:
		s.buildFallback(slide, sl, b)
	case plan.FullBleed:
		s.buildFullBleed(slide, sl, b)
	case plan.Quote:
		s.addMasthead(slide, sl.Title, b)
		s.buildQuote(slide, sl, b)
	case plan.BigNumber:
		s.addMasthead(slide, sl.Title, b)
		s.buildBigNumber(slide, sl, b)
	default:
		s.addMasthead(slide, sl.Title, b)
		s.buildColumns(slide, sl, b, plan)
	}
	s.addSpeakerNotes(slide, sl)
}

// buildFullBleed covers TITLE, SECTION_HEADER and CLOSING: a distinct
// full-bleed background, no shared masthead decoration.
func (s *PPTExportService) buildFullBleed(slide *ppt.Slide, sl deck.Slide, b deck.Branding) {
	primary := argbFromHex(b.PrimaryColor, "#1E40AF")

	bg := slide.CreateRichTextShape()
	bg.SetOffsetX(0).SetOffsetY(0)
	bg.SetWidth(pptSlideWidth).SetHeight(pptSlideHeight)
	bg.SetFill(solidFill(primary))

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(2.1 * emuPerInch))
	titleShape.SetWidth(pptContentWidth).SetHeight(int64(1.2 * emuPerInch))
	tr := titleShape.CreateTextRun(sl.Title)
	tr.GetFont().SetSize(pptFontCover).SetBold(true).SetColor(ppt.ColorWhite)
	alignCenter(titleShape.GetActiveParagraph())

	if b.CompanyName != "" {
		coShape := slide.CreateRichTextShape()
		coShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(3.5 * emuPerInch))
		coShape.SetWidth(pptContentWidth).SetHeight(int64(0.4 * emuPerInch))
		coTr := coShape.CreateTextRun(b.CompanyName)
		coTr.GetFont().SetSize(pptFontCaption).SetColor(ppt.NewColor("CCFFFFFF"))
		alignCenter(coShape.GetActiveParagraph())
	}
}

// addMasthead applies the shared page decoration every non-full-bleed layout
// carries: accent bar, title, footer branding text.
func (s *PPTExportService) addMasthead(slide *ppt.Slide, title string, b deck.Branding) {
	secondary := argbFromHex(b.SecondaryColor, "#3B82F6")
	primary := argbFromHex(b.PrimaryColor, "#1E40AF")

	topBar := slide.CreateRichTextShape()
	topBar.SetOffsetX(0).SetOffsetY(0)
	topBar.SetWidth(pptSlideWidth).SetHeight(int64(0.08 * emuPerInch))
	topBar.SetFill(solidFill(secondary))

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(0.3 * emuPerInch))
	titleShape.SetWidth(pptContentWidth).SetHeight(int64(0.6 * emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(pptFontTitle).SetBold(true).SetColor(ppt.NewColor(primary))

	if b.CompanyName != "" {
		footerShape := slide.CreateRichTextShape()
		footerShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(5.2 * emuPerInch))
		footerShape.SetWidth(pptContentWidth).SetHeight(int64(0.3 * emuPerInch))
		ftTr := footerShape.CreateTextRun(b.CompanyName)
		ftTr.GetFont().SetSize(pptFontFooter).SetColor(ppt.NewColor("FF94A3B8"))
	}
}

// buildColumns renders the bulleted layouts: the content sequence is split
// into the plan's column count with the same midpoint rule the interactive
// renderer uses, and a TWO_COLUMN visual displaces the second chunk.
func (s *PPTExportService) buildColumns(slide *ppt.Slide, sl deck.Slide, b deck.Branding, plan layout.Plan) {
	chunks, visualInSecond := layout.ColumnsFor(sl)

	fontSize := pptFontTier0
	if plan.DynamicFont {
		switch layout.FontTier(sl.Content) {
		case 1:
			fontSize = pptFontTier1
		case 2:
			fontSize = pptFontTier2
		}
	}

	cols := len(chunks)
	if visualInSecond {
		cols++
	}
	if cols == 0 {
		return
	}
	gap := int64(0.25 * emuPerInch)
	colWidth := (pptContentWidth - gap*int64(cols-1)) / int64(cols)
	startY := int64(1.2 * emuPerInch)
	colHeight := int64(3.8 * emuPerInch)

	itemNumber := 0
	for ci, chunk := range chunks {
		x := pptMarginLeft + int64(ci)*(colWidth+gap)
		shape := slide.CreateRichTextShape()
		shape.SetOffsetX(x).SetOffsetY(startY)
		shape.SetWidth(colWidth).SetHeight(colHeight)
		if b.ContentBackground == "card" || b.ContentBackground == "subtle" {
			shape.SetFill(solidFill("FFF8FAFC"))
		}

		for li, item := range chunk {
			if li > 0 {
				shape.CreateParagraph()
			}
			itemNumber++
			marker := "• "
			if plan.Numbered {
				marker = fmt.Sprintf("%d. ", itemNumber)
			}
			tr := shape.CreateTextRun(marker + item)
			tr.GetFont().SetSize(fontSize).SetColor(ppt.NewColor("FF334155"))
		}
	}

	if visualInSecond {
		x := pptMarginLeft + colWidth + gap
		s.addVisualShape(slide, sl, b, x, startY, colWidth, colHeight)
	} else if plan.ShowsVisual && sl.HasVisual() && sl.Layout == deck.LayoutContentBullets {
		s.addAnchoredVisual(slide, sl, b)
	}
}

// addAnchoredVisual places a CONTENT_BULLETS visual at its committed
// percentage anchors, converted to slide EMU.
func (s *PPTExportService) addAnchoredVisual(slide *ppt.Slide, sl deck.Slide, b deck.Branding) {
	v := sl.Visual
	w := int64(float64(pptSlideWidth) * v.Width / 100 * v.Scale * 0.35)
	h := w * 9 / 16
	x := int64(float64(pptSlideWidth)*v.HorizontalPos/100) - w/2
	y := int64(float64(pptSlideHeight)*v.VerticalPos/100) - h/2
	s.addVisualShape(slide, sl, b, clampEMU(x, 0, pptSlideWidth-w), clampEMU(y, 0, pptSlideHeight-h), w, h)
}

// addVisualShape embeds the resolved visual into the given box. Generated
// images arrive as data URIs and embed directly; icons are inline SVG, which
// the presentation format's drawing shape cannot carry, so they render as an
// accent tile labeled with the icon keyword.
func (s *PPTExportService) addVisualShape(slide *ppt.Slide, sl deck.Slide, b deck.Branding, x, y, w, h int64) {
	v := sl.Visual
	if v == nil {
		return
	}

	if strings.HasPrefix(v.Content, "data:image") {
		imgBytes, mimeType, err := decodeDataURI(v.Content)
		if err == nil {
			imgShape := slide.CreateDrawingShape()
			imgShape.SetImageData(imgBytes, mimeType)
			imgShape.SetOffsetX(x).SetOffsetY(y)
			imgShape.SetWidth(w).SetHeight(h)
			return
		}
	}

	// Icon, unresolved, or undecodable: accent tile with the keyword.
	tile := slide.CreateRichTextShape()
	tile.SetOffsetX(x).SetOffsetY(y)
	tile.SetWidth(w).SetHeight(h)
	tile.SetFill(solidFill(argbFromHex(b.SecondaryColor, "#3B82F6")))
	label := v.IconName
	if label == "" {
		label = v.Prompt
	}
	if label != "" {
		tr := tile.CreateTextRun(label)
		tr.GetFont().SetSize(pptFontCaption).SetBold(true).SetColor(ppt.ColorWhite)
		alignCenter(tile.GetActiveParagraph())
	}
}

func (s *PPTExportService) buildQuote(slide *ppt.Slide, sl deck.Slide, b deck.Branding) {
	if len(sl.Content) == 0 {
		return
	}
	quoteShape := slide.CreateRichTextShape()
	quoteShape.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(1.8 * emuPerInch))
	quoteShape.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(1.6 * emuPerInch))
	tr := quoteShape.CreateTextRun("“" + sl.Content[0] + "”")
	tr.GetFont().SetSize(pptFontQuote).SetColor(ppt.NewColor(argbFromHex(b.PrimaryColor, "#1E40AF")))
	alignCenter(quoteShape.GetActiveParagraph())

	if len(sl.Content) > 1 {
		attrShape := slide.CreateRichTextShape()
		attrShape.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(3.6 * emuPerInch))
		attrShape.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(0.5 * emuPerInch))
		aTr := attrShape.CreateTextRun("— " + sl.Content[1])
		aTr.GetFont().SetSize(pptFontCaption).SetColor(ppt.NewColor("FF64748B"))
		alignCenter(attrShape.GetActiveParagraph())
	}
}

// buildBigNumber renders the first content item at display size beneath a
// small title; remaining items become supporting lines.
func (s *PPTExportService) buildBigNumber(slide *ppt.Slide, sl deck.Slide, b deck.Branding) {
	if len(sl.Content) == 0 {
		return
	}
	numShape := slide.CreateRichTextShape()
	numShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(1.5 * emuPerInch))
	numShape.SetWidth(pptContentWidth).SetHeight(int64(1.8 * emuPerInch))
	tr := numShape.CreateTextRun(sl.Content[0])
	tr.GetFont().SetSize(pptFontBigNumber).SetBold(true).SetColor(ppt.NewColor(argbFromHex(b.PrimaryColor, "#1E40AF")))
	alignCenter(numShape.GetActiveParagraph())

	if len(sl.Content) > 1 {
		supShape := slide.CreateRichTextShape()
		supShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(3.6 * emuPerInch))
		supShape.SetWidth(pptContentWidth).SetHeight(int64(1.2 * emuPerInch))
		for i, item := range sl.Content[1:] {
			if i > 0 {
				supShape.CreateParagraph()
			}
			sTr := supShape.CreateTextRun(item)
			sTr.GetFont().SetSize(pptFontTier1).SetColor(ppt.NewColor("FF64748B"))
			alignCenter(supShape.GetActiveParagraph())
		}
	}
}

// buildFallback mirrors the interactive renderer's contract for layout
// values outside the closed set: a visible marker, never a failed export.
func (s *PPTExportService) buildFallback(slide *ppt.Slide, sl deck.Slide, b deck.Branding) {
	s.addMasthead(slide, sl.Title, b)
	msgShape := slide.CreateRichTextShape()
	msgShape.SetOffsetX(pptMarginLeft).SetOffsetY(int64(2.2 * emuPerInch))
	msgShape.SetWidth(pptContentWidth).SetHeight(int64(0.8 * emuPerInch))
	tr := msgShape.CreateTextRun(fmt.Sprintf("Layout %q is not implemented", string(sl.Layout)))
	tr.GetFont().SetSize(pptFontTier1).SetColor(ppt.NewColor("FFDC2626"))
	alignCenter(msgShape.GetActiveParagraph())
}

// addSpeakerNotes attaches notes as an off-canvas annotation below the slide
// body. The format library exposes no notes part, so the annotation shape
// sits outside the visible canvas instead of on the slide face.
func (s *PPTExportService) addSpeakerNotes(slide *ppt.Slide, sl deck.Slide) {
	if sl.SpeakerNotes == "" {
		return
	}
	notesShape := slide.CreateRichTextShape()
	notesShape.SetOffsetX(pptMarginLeft).SetOffsetY(pptSlideHeight + int64(0.2*emuPerInch))
	notesShape.SetWidth(pptContentWidth).SetHeight(int64(0.8 * emuPerInch))
	tr := notesShape.CreateTextRun("Notes: " + sl.SpeakerNotes)
	tr.GetFont().SetSize(pptFontFooter).SetColor(ppt.NewColor("FF94A3B8"))
}

// decodeDataURI splits a data URI into raw bytes and mime type.
func decodeDataURI(uri string) ([]byte, string, error) {
	parts := strings.SplitN(uri, ",", 2)
	if len(parts) != 2 {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	mimeType := "image/png"
	if strings.Contains(parts[0], "image/jpeg") {
		mimeType = "image/jpeg"
	} else if strings.Contains(parts[0], "image/gif") {
		mimeType = "image/gif"
	}
	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", fmt.Errorf("undecodable image data: %w", err)
	}
	return raw, mimeType, nil
}

func clampEMU(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
