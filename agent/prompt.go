package agent

import (
	"fmt"
	"strings"
)

// DetailLevel controls deck length and content density.
type DetailLevel string

const (
	DetailBrief    DetailLevel = "brief"
	DetailStandard DetailLevel = "standard"
	DetailDetailed DetailLevel = "detailed"
)

// quantityDirective returns the slide-count instruction for a detail level.
// Unknown levels fall back to standard.
func quantityDirective(level DetailLevel) string {
	switch level {
	case DetailBrief:
		return "Produce 5-8 slides. Keep only the essential points."
	case DetailDetailed:
		return "Produce 15-20 or more slides. Cover the material exhaustively; split dense topics across multiple slides."
	default:
		return "Produce 10-12 slides with balanced coverage."
	}
}

// depthDirective returns the content-density instruction for a detail level.
func depthDirective(level DetailLevel) string {
	switch level {
	case DetailBrief:
		return "At most 5 short content items per slide. Prefer one idea per slide over crowded slides."
	case DetailDetailed:
		return "Up to 6 content items per slide; when a topic needs more, add a continuation slide rather than overfilling."
	default:
		return "3-5 content items per slide."
	}
}

const layoutHeuristics = `Layout selection rules:
- TITLE for the opening slide only; CLOSING for the final slide only.
- AGENDA early in the deck when the material has 3+ major parts.
- SECTION_HEADER between major chapters of the material.
- BIG_NUMBER when a single statistic or figure carries the point; put the figure as the first content item.
- QUOTE for an impactful verbatim line; put the quote as the first content item and the attribution as the second.
- TWO_COLUMN for comparisons, before/after pairs, or content paired with an image.
- THREE_COLUMN for exactly three parallel concepts.
- CONTENT_BULLETS for everything else.`

const schemaDirective = `Respond with ONLY a JSON array, no prose. Each element:
{
  "id": "placeholder",
  "title": "short slide title",
  "layout": "TITLE|AGENDA|SECTION_HEADER|CONTENT_BULLETS|TWO_COLUMN|THREE_COLUMN|QUOTE|BIG_NUMBER|CLOSING",
  "content": ["bullet or paragraph", ...],
  "visual": {"kind": "icon|image|illustration|none", "prompt": "image generation prompt", "iconName": "single keyword"},
  "speakerNotes": "what the presenter says",
  "duration": 1
}
Rules for "visual": use "icon" with an iconName for conceptual slides, "image" or "illustration" with a prompt for slides that benefit from a picture, and "none" otherwise. TITLE and CLOSING slides take "none". "content" may be an empty array for TITLE, SECTION_HEADER and CLOSING.`

// BuildSynthesisPrompt assembles the system and user messages for one
// synthesis call.
func BuildSynthesisPrompt(rawText string, level DetailLevel) (system string, user string) {
	var b strings.Builder
	b.WriteString("You are a presentation designer. Convert the user's raw notes into a slide deck.\n\n")
	b.WriteString(quantityDirective(level))
	b.WriteString("\n")
	b.WriteString(depthDirective(level))
	b.WriteString("\n\n")
	b.WriteString(layoutHeuristics)
	b.WriteString("\n\n")
	b.WriteString(schemaDirective)
	return b.String(), fmt.Sprintf("Create the deck from this material:\n\n%s", rawText)
}
