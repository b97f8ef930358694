package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"slidesmith/deck"
)

// rawSlide mirrors the JSON shape the model is asked to emit. Model-supplied
// ids are untrusted and discarded.
type rawSlide struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Layout       string          `json:"layout"`
	Content      []string        `json:"content"`
	Visual       *rawVisual      `json:"visual"`
	SpeakerNotes string          `json:"speakerNotes"`
	Duration     json.RawMessage `json:"duration"`
}

type rawVisual struct {
	Kind     string `json:"kind"`
	Type     string `json:"type"` // some models emit "type" instead of "kind"
	Prompt   string `json:"prompt"`
	IconName string `json:"iconName"`
}

// stripCodeFence removes a markdown code-fence wrapper if present, tolerating
// a language tag after the opening fence.
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.Index(t, "\n"); nl >= 0 {
		firstLine := strings.TrimSpace(t[:nl])
		// A language tag like "json" sits alone on the fence line.
		if firstLine == "" || !strings.ContainsAny(firstLine, "[{") {
			t = t[nl+1:]
		}
	}
	if idx := strings.LastIndex(t, "```"); idx >= 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

// ParseSlides parses a model response into the slide list, assigning final
// ids derived from the generation timestamp plus positional index. Parse
// failures fail fast; there is no partial recovery.
func ParseSlides(response string, generatedAt time.Time) ([]deck.Slide, error) {
	payload := stripCodeFence(response)
	var raw []rawSlide
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("response is not a valid slide array: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("response contained an empty slide array")
	}

	slides := make([]deck.Slide, 0, len(raw))
	for i, r := range raw {
		if strings.TrimSpace(r.Title) == "" {
			return nil, fmt.Errorf("slide %d is missing a title", i+1)
		}
		s := deck.Slide{
			ID:           fmt.Sprintf("slide-%d-%d", generatedAt.UnixMilli(), i),
			Title:        strings.TrimSpace(r.Title),
			Layout:       deck.Layout(strings.ToUpper(strings.TrimSpace(r.Layout))),
			Content:      r.Content,
			SpeakerNotes: strings.TrimSpace(r.SpeakerNotes),
			Duration:     parseDuration(r.Duration),
		}
		if s.Content == nil {
			s.Content = []string{}
		}
		if v := normalizeVisual(r.Visual); v != nil {
			s.Visual = v
		}
		slides = append(slides, s)
	}
	return slides, nil
}

// parseDuration tolerates the model emitting duration as a number or a
// string like "2" or "2 min".
func parseDuration(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		digits := strings.TrimRight(s, " minutes")
		if _, err := fmt.Sscanf(digits, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

func normalizeVisual(r *rawVisual) *deck.Visual {
	if r == nil {
		return nil
	}
	kind := r.Kind
	if kind == "" {
		kind = r.Type
	}
	k := deck.VisualKind(strings.ToLower(strings.TrimSpace(kind)))
	switch k {
	case deck.VisualIcon, deck.VisualImage, deck.VisualIllustration:
	default:
		// "none", empty, or anything unrecognized: no visual at all.
		return nil
	}
	v := &deck.Visual{
		Kind:     k,
		Prompt:   strings.TrimSpace(r.Prompt),
		IconName: strings.TrimSpace(r.IconName),
	}
	v.Normalize()
	return v
}
