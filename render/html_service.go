// Package render is the HTML backend of the layout engine. It is a pure
// function of (slide, branding, mode): the interactive client hydrates the
// emitted data attributes, and the raster exporter captures the same markup
// headlessly, so both surfaces see one composition.
package render

import (
	"fmt"
	"html"
	"strings"

	"slidesmith/deck"
	"slidesmith/layout"
)

// Mode selects between the editable interactive view and the static view
// used for capture.
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeStatic      Mode = "static"
)

// Slide canvas dimensions in CSS pixels; the raster exporter captures at
// exactly this size.
const (
	SlideWidth  = 1280
	SlideHeight = 720
)

// HTMLService renders slides to HTML.
type HTMLService struct{}

// NewHTMLService creates the HTML renderer.
func NewHTMLService() *HTMLService {
	return &HTMLService{}
}

// RenderSlide renders one slide to a self-contained slide element.
func (s *HTMLService) RenderSlide(sl deck.Slide, b deck.Branding, mode Mode) string {
	var buf strings.Builder

	plan, known := layout.For(sl.Layout)
	if !known {
		s.renderFallback(&buf, sl)
		return buf.String()
	}

	classes := []string{"slide", "layout-" + strings.ToLower(string(sl.Layout))}
	if plan.FullBleed {
		classes = append(classes, "full-bleed")
	}
	fmt.Fprintf(&buf, `<div class="%s" data-slide-id="%s">`, strings.Join(classes, " "), html.EscapeString(sl.ID))

	switch {
	case plan.FullBleed:
		s.renderFullBleed(&buf, sl, b)
	case plan.Quote:
		s.renderQuote(&buf, sl, b, mode)
	case plan.BigNumber:
		s.renderBigNumber(&buf, sl, b, mode)
	default:
		s.renderStandard(&buf, sl, b, plan, mode)
	}

	buf.WriteString(`</div>`)
	return buf.String()
}

// RenderSlidePage wraps one slide in a complete HTML document at canvas
// size, used by the raster exporter.
func (s *HTMLService) RenderSlidePage(sl deck.Slide, b deck.Branding) string {
	var buf strings.Builder
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<style>\n")
	buf.WriteString(stylesheet(b))
	buf.WriteString("\nhtml,body{margin:0;padding:0;}\n</style>\n</head>\n<body>\n")
	buf.WriteString(s.RenderSlide(sl, b, ModeStatic))
	buf.WriteString("\n</body>\n</html>")
	return buf.String()
}

// RenderDeck renders the whole visible deck as one scrollable document for
// the interactive view.
func (s *HTMLService) RenderDeck(slides []deck.Slide, b deck.Branding, mode Mode) string {
	var buf strings.Builder
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>Deck</title>\n<style>\n")
	buf.WriteString(stylesheet(b))
	buf.WriteString("\n</style>\n</head>\n<body>\n<main id=\"deck\" data-scroll-anchor=\"bottom\">\n")
	for _, sl := range slides {
		buf.WriteString(s.RenderSlide(sl, b, mode))
		buf.WriteString("\n")
	}
	buf.WriteString("</main>\n</body>\n</html>")
	return buf.String()
}

// renderFallback is the visible "not implemented" surface for layout values
// outside the closed set. The renderer must never hard-fail on malformed
// enum values coming out of synthesis.
func (s *HTMLService) renderFallback(buf *strings.Builder, sl deck.Slide) {
	fmt.Fprintf(buf, `<div class="slide layout-unknown" data-slide-id="%s">`, html.EscapeString(sl.ID))
	fmt.Fprintf(buf, `<div class="unknown-layout">Layout %q is not implemented</div>`, html.EscapeString(string(sl.Layout)))
	fmt.Fprintf(buf, `<h2 class="title">%s</h2>`, html.EscapeString(sl.Title))
	buf.WriteString(`</div>`)
}

func (s *HTMLService) renderFullBleed(buf *strings.Builder, sl deck.Slide, b deck.Branding) {
	buf.WriteString(`<div class="full-bleed-inner">`)
	if b.LogoData != "" && sl.Layout != deck.LayoutSectionHeader {
		fmt.Fprintf(buf, `<img class="logo" src="%s" alt="">`, html.EscapeString(b.LogoData))
	}
	fmt.Fprintf(buf, `<h1 class="title">%s</h1>`, html.EscapeString(sl.Title))
	if b.CompanyName != "" {
		fmt.Fprintf(buf, `<div class="company">%s</div>`, html.EscapeString(b.CompanyName))
	}
	buf.WriteString(`</div>`)
}

func (s *HTMLService) renderQuote(buf *strings.Builder, sl deck.Slide, b deck.Branding, mode Mode) {
	s.renderMasthead(buf, sl, b)
	buf.WriteString(`<figure class="quote">`)
	if len(sl.Content) > 0 {
		fmt.Fprintf(buf, `<blockquote%s>%s</blockquote>`, editableAttrs(mode, sl.ID, 0), html.EscapeString(sl.Content[0]))
	}
	if len(sl.Content) > 1 {
		fmt.Fprintf(buf, `<figcaption%s>%s</figcaption>`, editableAttrs(mode, sl.ID, 1), html.EscapeString(sl.Content[1]))
	}
	buf.WriteString(`</figure>`)
}

func (s *HTMLService) renderBigNumber(buf *strings.Builder, sl deck.Slide, b deck.Branding, mode Mode) {
	s.renderMasthead(buf, sl, b)
	buf.WriteString(`<div class="big-number-body">`)
	if len(sl.Content) > 0 {
		fmt.Fprintf(buf, `<div class="big-number"%s>%s</div>`, editableAttrs(mode, sl.ID, 0), html.EscapeString(sl.Content[0]))
	}
	if len(sl.Content) > 1 {
		buf.WriteString(`<ul class="supporting">`)
		for i, item := range sl.Content[1:] {
			fmt.Fprintf(buf, `<li%s>%s</li>`, editableAttrs(mode, sl.ID, i+1), html.EscapeString(item))
		}
		buf.WriteString(`</ul>`)
	}
	buf.WriteString(`</div>`)
}

func (s *HTMLService) renderStandard(buf *strings.Builder, sl deck.Slide, b deck.Branding, plan layout.Plan, mode Mode) {
	s.renderMasthead(buf, sl, b)

	chunks, visualInSecond := layout.ColumnsFor(sl)
	tier := 0
	if plan.DynamicFont {
		tier = layout.FontTier(sl.Content)
	}

	cols := len(chunks)
	if visualInSecond {
		cols++
	}
	fmt.Fprintf(buf, `<div class="content cols-%d size-%d">`, cols, tier)

	itemIndex := 0
	for _, chunk := range chunks {
		buf.WriteString(`<div class="col">`)
		if plan.Numbered {
			buf.WriteString(`<ol class="items">`)
		} else {
			buf.WriteString(`<ul class="items">`)
		}
		for _, item := range chunk {
			fmt.Fprintf(buf, `<li%s>%s</li>`, editableAttrs(mode, sl.ID, itemIndex), html.EscapeString(item))
			itemIndex++
		}
		if plan.Numbered {
			buf.WriteString(`</ol>`)
		} else {
			buf.WriteString(`</ul>`)
		}
		buf.WriteString(`</div>`)
	}

	if visualInSecond {
		buf.WriteString(`<div class="col col-visual">`)
		s.renderVisual(buf, sl, mode)
		buf.WriteString(`</div>`)
	} else if plan.ShowsVisual && sl.Layout != deck.LayoutTwoColumn {
		s.renderVisual(buf, sl, mode)
	}

	buf.WriteString(`</div>`)
}

// renderMasthead emits the shared accent bar, title and footer branding used
// by every non-full-bleed layout.
func (s *HTMLService) renderMasthead(buf *strings.Builder, sl deck.Slide, b deck.Branding) {
	buf.WriteString(`<div class="accent-bar"></div>`)
	fmt.Fprintf(buf, `<h2 class="title">%s</h2>`, html.EscapeString(sl.Title))
	if b.CompanyName != "" {
		fmt.Fprintf(buf, `<footer class="footer">%s</footer>`, html.EscapeString(b.CompanyName))
	}
}

func (s *HTMLService) renderVisual(buf *strings.Builder, sl deck.Slide, mode Mode) {
	if !sl.HasVisual() {
		return
	}
	v := sl.Visual
	style := fmt.Sprintf("left:%.1f%%;top:%.1f%%;width:%.1f%%;transform:translate(-50%%,-50%%) scale(%.2f);",
		v.HorizontalPos, v.VerticalPos, v.Width, v.Scale)
	attrs := ""
	if mode == ModeInteractive {
		attrs = ` data-visual-drag="true" data-visual-resize="true"`
	}
	fmt.Fprintf(buf, `<div class="visual visual-%s" style="%s"%s>`, v.Kind, style, attrs)
	switch {
	case v.Content == "":
		fmt.Fprintf(buf, `<div class="visual-placeholder" data-visual-pending="true">%s</div>`, html.EscapeString(placeholderLabel(*v)))
	case v.Kind == deck.VisualIcon:
		// Hydration delivers sanitized inline SVG; emit it verbatim.
		buf.WriteString(v.Content)
	default:
		fmt.Fprintf(buf, `<img src="%s" alt="%s">`, html.EscapeString(v.Content), html.EscapeString(v.Prompt))
	}
	buf.WriteString(`</div>`)
}

func placeholderLabel(v deck.Visual) string {
	if v.Kind == deck.VisualIcon {
		return v.IconName
	}
	return "Generating visual..."
}

// editableAttrs returns the interactive edit-in-place contract attributes.
// The client commits on blur, discards unchanged text, and expresses
// reorder/duplicate/delete as a full content-array replacement.
func editableAttrs(mode Mode, slideID string, index int) string {
	if mode != ModeInteractive {
		return ""
	}
	return fmt.Sprintf(` contenteditable="true" draggable="true" data-slide-id="%s" data-block-index="%d"`, html.EscapeString(slideID), index)
}
