package export

import (
	"encoding/json"
	"fmt"
	"time"

	"slidesmith/deck"
)

const (
	// DocumentFileType identifies the structured export format.
	DocumentFileType = "Slidesmith_Deck"
	// DocumentFormatVersion is bumped on breaking format changes.
	DocumentFormatVersion = "1.0"
)

// DocumentMeta is the metadata envelope on every structured export.
type DocumentMeta struct {
	GeneratedAt string `json:"generatedAt"` // RFC3339
	ExportedAt  string `json:"exportedAt"`  // RFC3339
	App         string `json:"app"`
}

// DeckDocument is the lossless round-trip format: parsing an exported
// document reconstructs an identical slide list and branding.
type DeckDocument struct {
	FileType      string        `json:"file_type"`
	FormatVersion string        `json:"format_version"`
	Meta          DocumentMeta  `json:"meta"`
	Branding      deck.Branding `json:"branding"`
	Slides        []deck.Slide  `json:"slides"`
}

// JSONService handles the structured data projection.
type JSONService struct {
	AppIdentity string
}

// NewJSONService creates the structured exporter.
func NewJSONService(appIdentity string) *JSONService {
	return &JSONService{AppIdentity: appIdentity}
}

// BuildDocument assembles the export document without serializing it.
func (s *JSONService) BuildDocument(slides []deck.Slide, branding deck.Branding, generatedAt time.Time) DeckDocument {
	return DeckDocument{
		FileType:      DocumentFileType,
		FormatVersion: DocumentFormatVersion,
		Meta: DocumentMeta{
			GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
			ExportedAt:  time.Now().UTC().Format(time.RFC3339),
			App:         s.AppIdentity,
		},
		Branding: branding,
		Slides:   slides,
	}
}

// ExportDeck serializes the full deck plus branding verbatim. Any failure
// aborts the whole export with a single error.
func (s *JSONService) ExportDeck(slides []deck.Slide, branding deck.Branding, generatedAt time.Time) ([]byte, error) {
	doc := s.BuildDocument(slides, branding, generatedAt)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize deck document: %w", err)
	}
	return data, nil
}

// ImportDeck parses a structured export back into a document. Unknown file
// types are rejected before any field is trusted.
func (s *JSONService) ImportDeck(data []byte) (DeckDocument, error) {
	var doc DeckDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return DeckDocument{}, fmt.Errorf("not a valid deck document: %w", err)
	}
	if doc.FileType != DocumentFileType {
		return DeckDocument{}, fmt.Errorf("unexpected file type %q", doc.FileType)
	}
	return doc, nil
}
