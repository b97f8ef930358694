package export

import (
	"bytes"
	"encoding/base64"
	"testing"

	"slidesmith/deck"
)

func TestPPTExportAllLayouts(t *testing.T) {
	slides := []deck.Slide{
		{ID: "slide-9-0", Title: "Opening", Layout: deck.LayoutTitle},
		{ID: "slide-9-1", Title: "Agenda", Layout: deck.LayoutAgenda, Content: []string{"one", "two", "three"}},
		{ID: "slide-9-2", Title: "Part One", Layout: deck.LayoutSectionHeader},
		{
			ID: "slide-9-3", Title: "Points", Layout: deck.LayoutContentBullets,
			Content:      []string{"a", "b"},
			SpeakerNotes: "dwell here",
			Visual:       &deck.Visual{Kind: deck.VisualIcon, IconName: "target", Width: 60, Scale: 1, VerticalPos: 50, HorizontalPos: 80},
		},
		{
			ID: "slide-9-4", Title: "Compare", Layout: deck.LayoutTwoColumn,
			Content: []string{"left a", "left b", "right a", "right b"},
			Visual: &deck.Visual{
				Kind: deck.VisualImage, Prompt: "a skyline",
				Content: "data:image/png;base64," + base64.StdEncoding.EncodeToString(onePixelPNG),
				Width:   100, Scale: 1, VerticalPos: 50, HorizontalPos: 50,
			},
		},
		{ID: "slide-9-5", Title: "Triplet", Layout: deck.LayoutThreeColumn, Content: []string{"x", "y", "z"}},
		{ID: "slide-9-6", Title: "Wisdom", Layout: deck.LayoutQuote, Content: []string{"Less is more.", "Mies van der Rohe"}},
		{ID: "slide-9-7", Title: "Impact", Layout: deck.LayoutBigNumber, Content: []string{"3x", "faster rollout"}},
		{ID: "slide-9-8", Title: "Oddball", Layout: deck.Layout("SPIRAL"), Content: []string{"ignored"}},
		{ID: "slide-9-9", Title: "Thanks", Layout: deck.LayoutClosing},
	}

	b := deck.DefaultBranding()
	b.CompanyName = "Acme"
	svc := NewPPTExportService("Slidesmith")
	data, err := svc.ExportDeck(slides, b)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
	// A .pptx file is a zip container.
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("output is not a zip container: % x", data[:4])
	}
}

func TestPPTExportEmptyDeck(t *testing.T) {
	svc := NewPPTExportService("Slidesmith")
	if _, err := svc.ExportDeck(nil, deck.DefaultBranding()); err == nil {
		t.Fatal("empty deck must be an error")
	}
}

func TestArgbFromHex(t *testing.T) {
	tests := []struct {
		name     string
		hex      string
		fallback string
		want     string
	}{
		{"plain", "#1e40af", "#000000", "FF1E40AF"},
		{"no hash", "3B82F6", "#000000", "FF3B82F6"},
		{"padded", "  #AABBCC ", "#000000", "FFAABBCC"},
		{"too short", "#FFF", "#123456", "FF123456"},
		{"empty", "", "#123456", "FF123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := argbFromHex(tt.hex, tt.fallback); got != tt.want {
				t.Fatalf("argbFromHex(%q) = %q, want %q", tt.hex, got, tt.want)
			}
		})
	}
}

func TestDecodeDataURI(t *testing.T) {
	raw, mimeType, err := decodeDataURI("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("pngbytes")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mimeType != "image/png" || string(raw) != "pngbytes" {
		t.Fatalf("unexpected decode: %s %q", mimeType, raw)
	}

	_, mimeType, err = decodeDataURI("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg")))
	if err != nil || mimeType != "image/jpeg" {
		t.Fatalf("jpeg mime not detected: %s %v", mimeType, err)
	}

	if _, _, err := decodeDataURI("data:image/png;base64"); err == nil {
		t.Fatal("URI without payload must fail")
	}
	if _, _, err := decodeDataURI("data:image/png;base64,!!!"); err == nil {
		t.Fatal("undecodable payload must fail")
	}
}

func TestClampEMU(t *testing.T) {
	if clampEMU(-5, 0, 100) != 0 {
		t.Fatal("low clamp failed")
	}
	if clampEMU(500, 0, 100) != 100 {
		t.Fatal("high clamp failed")
	}
	if clampEMU(42, 0, 100) != 42 {
		t.Fatal("in-range value changed")
	}
}
