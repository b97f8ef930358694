package render

import (
	"fmt"
	"strings"

	"slidesmith/deck"
)

// stylesheet derives the deck CSS from branding. Colors, font, corner
// radius, dark mode and the content background variant all come from here;
// layout geometry stays in the markup classes.
func stylesheet(b deck.Branding) string {
	bg, fg, muted := "#ffffff", "#1e293b", "#64748b"
	if b.DarkMode {
		bg, fg, muted = "#0f172a", "#f1f5f9", "#94a3b8"
	}
	radius := "12px"
	if b.CornerStyle == "sharp" {
		radius = "0"
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, `
body { background: %s; color: %s; font-family: %q, -apple-system, "Segoe UI", Roboto, sans-serif; }
.slide { position: relative; width: %dpx; height: %dpx; overflow: hidden; background: %s; box-sizing: border-box; padding: 48px 64px; }
.accent-bar { position: absolute; top: 0; left: 0; width: 100%%; height: 10px; background: %s; }
.title { color: %s; font-size: 40px; margin: 16px 0 24px; }
.footer { position: absolute; bottom: 16px; left: 64px; font-size: 14px; color: %s; }
.full-bleed { background: linear-gradient(135deg, %s, %s); color: #ffffff; display: flex; align-items: center; justify-content: center; text-align: center; }
.full-bleed .title { color: #ffffff; font-size: 64px; }
.full-bleed .company { font-size: 20px; opacity: 0.85; margin-top: 12px; }
.full-bleed .logo { max-height: 64px; margin-bottom: 24px; }
.layout-section_header .title { font-size: 52px; }
.content { display: grid; gap: 32px; margin-top: 8px; }
.cols-1 { grid-template-columns: 1fr; }
.cols-2 { grid-template-columns: 1fr 1fr; }
.cols-3 { grid-template-columns: 1fr 1fr 1fr; }
.size-0 .items li { font-size: 32px; }
.size-1 .items li { font-size: 26px; }
.size-2 .items li { font-size: 20px; }
.items li { margin: 12px 0; line-height: 1.5; }
.quote { display: flex; flex-direction: column; justify-content: center; height: 70%%; margin: 0; }
.quote blockquote { font-size: 42px; font-style: italic; margin: 0; }
.quote blockquote::before { content: "\201C"; color: %s; font-size: 72px; }
.quote figcaption { margin-top: 24px; font-size: 22px; color: %s; }
.big-number-body { text-align: center; margin-top: 32px; }
.big-number { font-size: 160px; font-weight: 800; color: %s; line-height: 1.1; }
.supporting { list-style: none; padding: 0; font-size: 22px; color: %s; }
.visual { position: absolute; }
.visual img, .visual svg { width: 100%%; height: auto; border-radius: %s; }
.col-visual .visual { position: relative; left: auto; top: auto; transform: none; }
.visual-placeholder { display: flex; align-items: center; justify-content: center; min-height: 120px; border: 2px dashed %s; border-radius: %s; color: %s; font-size: 16px; }
.unknown-layout { padding: 24px; border: 2px dashed #dc2626; border-radius: %s; color: #dc2626; font-size: 20px; }
`,
		bg, fg, b.FontFamily,
		SlideWidth, SlideHeight, bg,
		b.SecondaryColor,
		b.PrimaryColor,
		muted,
		b.PrimaryColor, b.SecondaryColor,
		b.SecondaryColor, muted,
		b.PrimaryColor, muted,
		radius,
		muted, radius, muted,
		radius,
	)

	switch b.ContentBackground {
	case "card":
		fmt.Fprintf(&buf, ".col { background: rgba(148,163,184,0.12); border-radius: %s; padding: 20px 28px; }\n", radius)
	case "subtle":
		buf.WriteString(".col { background: rgba(148,163,184,0.06); padding: 16px 24px; }\n")
	case "gradient":
		fmt.Fprintf(&buf, ".col { background: linear-gradient(180deg, rgba(148,163,184,0.12), transparent); border-radius: %s; padding: 20px 28px; }\n", radius)
	case "bordered":
		fmt.Fprintf(&buf, ".col { border: 1px solid %s; border-radius: %s; padding: 20px 28px; }\n", b.SecondaryColor, radius)
	}

	return strings.TrimSpace(buf.String())
}
