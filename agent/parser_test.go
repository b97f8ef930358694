package agent

import (
	"strings"
	"testing"
	"time"

	"slidesmith/deck"
)

const sampleResponse = `[
  {"id": "model-made-this-up", "title": "Opening", "layout": "TITLE", "content": [],
   "visual": {"kind": "none"}, "speakerNotes": "welcome everyone", "duration": 1},
  {"title": "Key Points", "layout": "content_bullets",
   "content": ["first", "second"],
   "visual": {"kind": "icon", "iconName": "target"}, "duration": "2"},
  {"title": "The Market", "layout": "TWO_COLUMN",
   "content": ["left", "right"],
   "visual": {"type": "image", "prompt": "a crowded marketplace"}}
]`

func TestParseSlides(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	slides, err := ParseSlides(sampleResponse, at)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(slides))
	}

	if slides[0].ID != "slide-1700000000000-0" || slides[2].ID != "slide-1700000000000-2" {
		t.Fatalf("ids not derived from timestamp and index: %s, %s", slides[0].ID, slides[2].ID)
	}
	if slides[0].ID == "model-made-this-up" {
		t.Fatal("model-supplied id must be discarded")
	}
	if slides[0].Visual != nil {
		t.Fatal(`visual kind "none" must produce no visual`)
	}
	if slides[0].SpeakerNotes != "welcome everyone" || slides[0].Duration != 1 {
		t.Fatalf("notes or duration lost: %+v", slides[0])
	}

	if slides[1].Layout != deck.LayoutContentBullets {
		t.Fatalf("layout not normalized to upper case: %s", slides[1].Layout)
	}
	if slides[1].Visual == nil || slides[1].Visual.Kind != deck.VisualIcon || slides[1].Visual.IconName != "target" {
		t.Fatalf("icon visual not parsed: %+v", slides[1].Visual)
	}
	if slides[1].Duration != 2 {
		t.Fatalf("string duration not parsed: %d", slides[1].Duration)
	}

	// "type" accepted as an alias for "kind".
	if slides[2].Visual == nil || slides[2].Visual.Kind != deck.VisualImage {
		t.Fatalf("type-keyed visual not parsed: %+v", slides[2].Visual)
	}
	if slides[2].Visual.Width != 100 || slides[2].Visual.VerticalPos != 50 {
		t.Fatalf("visual geometry not defaulted: %+v", slides[2].Visual)
	}
}

func TestParseSlidesStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"
	slides, err := ParseSlides(fenced, time.Now())
	if err != nil {
		t.Fatalf("fenced response failed to parse: %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(slides))
	}

	bare := "```\n" + sampleResponse + "\n```"
	if _, err := ParseSlides(bare, time.Now()); err != nil {
		t.Fatalf("fence without language tag failed to parse: %v", err)
	}
}

func TestParseSlidesFailFast(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "sure! here is your deck"},
		{"object not array", `{"title": "x"}`},
		{"empty array", `[]`},
		{"missing title", `[{"layout": "TITLE", "content": []}]`},
		{"truncated", `[{"title": "a", "layout": "TITLE"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSlides(tt.response, time.Now()); err == nil {
				t.Fatal("expected a parse error")
			}
		})
	}
}

func TestParseSlidesUnknownLayoutPreserved(t *testing.T) {
	// Unknown layouts are kept verbatim; rendering falls back per slide.
	slides, err := ParseSlides(`[{"title": "x", "layout": "HEXAGON", "content": []}]`, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slides[0].Layout != deck.Layout("HEXAGON") {
		t.Fatalf("layout mangled: %s", slides[0].Layout)
	}
	if slides[0].Layout.IsKnown() {
		t.Fatal("HEXAGON must not be a known layout")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`3`, 3},
		{`"4"`, 4},
		{`"2 min"`, 2},
		{`"soon"`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			response := `[{"title": "x", "layout": "TITLE", "content": [], "duration": ` + tt.raw + `}]`
			slides, err := ParseSlides(response, time.Now())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if slides[0].Duration != tt.want {
				t.Fatalf("duration %s: expected %d, got %d", tt.raw, tt.want, slides[0].Duration)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[1]`, `[1]`},
		{"tagged fence", "```json\n[1]\n```", `[1]`},
		{"bare fence", "```\n[1]\n```", `[1]`},
		{"surrounding whitespace", "  \n```json\n[1]\n```\n ", `[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeVisualRejectsUnknownKind(t *testing.T) {
	v := normalizeVisual(&rawVisual{Kind: "hologram", Prompt: "x"})
	if v != nil {
		t.Fatalf("unknown kind must yield no visual, got %+v", v)
	}
}

func TestParseSlidesTrimsFields(t *testing.T) {
	slides, err := ParseSlides(`[{"title": "  Padded  ", "layout": " title ", "content": []}]`, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slides[0].Title != "Padded" {
		t.Fatalf("title not trimmed: %q", slides[0].Title)
	}
	if slides[0].Layout != deck.LayoutTitle {
		t.Fatalf("layout not trimmed and upper-cased: %q", slides[0].Layout)
	}
	if !strings.HasPrefix(slides[0].ID, "slide-") {
		t.Fatalf("unexpected id shape: %s", slides[0].ID)
	}
}
