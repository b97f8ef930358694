package export

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"slidesmith/deck"
)

func exportSlides() []deck.Slide {
	return []deck.Slide{
		{
			ID: "slide-5-0", Title: "Opening", Layout: deck.LayoutTitle,
			Content: []string{}, SpeakerNotes: "welcome", Duration: 1,
		},
		{
			ID: "slide-5-1", Title: "Numbers", Layout: deck.LayoutBigNumber,
			Content: []string{"42%", "of responses"},
			Visual: &deck.Visual{
				Kind: deck.VisualIcon, IconName: "chart", Content: "<svg>c</svg>",
				Width: 60, Scale: 1.2, VerticalPos: 30, HorizontalPos: 70,
			},
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc := NewJSONService("Slidesmith")
	branding := deck.DefaultBranding()
	branding.CompanyName = "Acme"
	generatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	data, err := svc.ExportDeck(exportSlides(), branding, generatedAt)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	doc, err := svc.ImportDeck(data)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !reflect.DeepEqual(doc.Slides, exportSlides()) {
		t.Fatalf("slides did not survive the round trip:\n%+v", doc.Slides)
	}
	if !reflect.DeepEqual(doc.Branding, branding) {
		t.Fatalf("branding did not survive the round trip: %+v", doc.Branding)
	}
	if doc.Meta.GeneratedAt != "2026-03-01T12:00:00Z" {
		t.Fatalf("generation timestamp mangled: %s", doc.Meta.GeneratedAt)
	}
	if doc.Meta.App != "Slidesmith" {
		t.Fatalf("app identity missing: %s", doc.Meta.App)
	}
}

func TestExportEnvelopeFields(t *testing.T) {
	svc := NewJSONService("Slidesmith")
	data, err := svc.ExportDeck(exportSlides(), deck.DefaultBranding(), time.Now())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, key := range []string{"file_type", "format_version", "meta", "branding", "slides"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("envelope missing %q", key)
		}
	}
	if !strings.Contains(string(raw["file_type"]), DocumentFileType) {
		t.Fatalf("wrong file type: %s", raw["file_type"])
	}
}

func TestImportRejectsForeignFileType(t *testing.T) {
	svc := NewJSONService("Slidesmith")
	_, err := svc.ImportDeck([]byte(`{"file_type": "Sketchpad_Project", "slides": []}`))
	if err == nil {
		t.Fatal("foreign file type must be rejected")
	}
	if !strings.Contains(err.Error(), "Sketchpad_Project") {
		t.Fatalf("rejection should name the offending type: %v", err)
	}
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	svc := NewJSONService("Slidesmith")
	if _, err := svc.ImportDeck([]byte(`{"file_type": `)); err == nil {
		t.Fatal("malformed document must be rejected")
	}
}

func TestExportEmptyDeck(t *testing.T) {
	svc := NewJSONService("Slidesmith")
	data, err := svc.ExportDeck(nil, deck.DefaultBranding(), time.Now())
	if err != nil {
		t.Fatalf("empty deck export failed: %v", err)
	}
	doc, err := svc.ImportDeck(data)
	if err != nil {
		t.Fatalf("empty deck import failed: %v", err)
	}
	if len(doc.Slides) != 0 {
		t.Fatalf("expected no slides, got %d", len(doc.Slides))
	}
}
