package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"slidesmith/agent"
	"slidesmith/config"
	"slidesmith/database"
	"slidesmith/deck"
	"slidesmith/export"
	"slidesmith/hydrate"
	"slidesmith/render"
)

const appIdentity = "Slidesmith"

// App wires the synthesis, hydration, reveal, rendering and export services
// around one canonical deck store.
type App struct {
	// mu guards cfg, synth and pipeline, which are swapped wholesale when
	// the configuration changes at runtime.
	mu        sync.RWMutex
	cfg       config.Config
	store     *deck.Store
	scheduler *deck.Scheduler
	synth     *agent.Synthesizer
	pipeline  *hydrate.Pipeline
	html      *render.HTMLService
	jsonSvc   *export.JSONService
	pdfSvc    *export.PDFExportService
	pptSvc    *export.PPTExportService
	decks     *database.DeckService
	hub       *Hub
	logger    func(string)

	generating atomic.Bool
	exporting  atomic.Bool
}

// NewApp assembles the application. llm is injected so tests can stub the
// model; decks may be nil when persistence is disabled.
func NewApp(cfg config.Config, llm agent.TextGenerator, decks *database.DeckService, hub *Hub, log func(string)) *App {
	store := deck.NewStore(log)
	htmlSvc := render.NewHTMLService()

	a := &App{
		cfg:       cfg,
		store:     store,
		scheduler: deck.NewScheduler(store, time.Duration(cfg.RevealInterval)*time.Millisecond, log),
		synth:     agent.NewSynthesizer(llm, log),
		html:      htmlSvc,
		jsonSvc:   export.NewJSONService(appIdentity),
		pdfSvc:    export.NewPDFExportService(htmlSvc, nil, log),
		pptSvc:    export.NewPPTExportService(appIdentity),
		decks:     decks,
		hub:       hub,
		logger:    log,
	}

	icons := hydrate.NewIconService(cfg.IconEndpoint, log)
	images := hydrate.NewImageService(cfg, log)
	a.pipeline = hydrate.NewPipeline(store, icons, images, cfg.HydrationLimit, log)

	a.scheduler.OnReveal = func(ev deck.RevealEvent) {
		hub.Broadcast(Event{Type: "slide_revealed", Payload: map[string]interface{}{
			"slide":   ev.Slide,
			"visible": ev.Visible,
			"total":   ev.Total,
			"scroll":  "bottom",
		}})
	}
	a.scheduler.OnComplete = func() {
		hub.Broadcast(Event{Type: "reveal_complete"})
	}
	a.pipeline.OnHydrated = func(slideID string) {
		if slide, ok := store.SlideByID(slideID); ok {
			hub.Broadcast(Event{Type: "visual_hydrated", Payload: slide})
		}
	}
	a.pipeline.OnFailed = func(herr *hydrate.HydrationError) {
		hub.Broadcast(Event{Type: "visual_unavailable", Payload: map[string]string{
			"slideId": herr.SlideID,
			"error":   herr.Err.Error(),
		}})
	}
	return a
}

// GenerateDeck runs one full synthesis: model call, deck replacement, reveal
// start, hydration launch. The call blocks until synthesis resolves or
// fails; on failure the previous deck is left untouched.
func (a *App) GenerateDeck(ctx context.Context, rawText string, level agent.DetailLevel) ([]deck.Slide, error) {
	if !a.generating.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("a generation is already in progress")
	}
	defer a.generating.Store(false)

	a.mu.RLock()
	synth, pipeline := a.synth, a.pipeline
	a.mu.RUnlock()

	slides, generatedAt, err := synth.Synthesize(ctx, rawText, level)
	if err != nil {
		return nil, err
	}

	a.store.Replace(slides, generatedAt)
	a.scheduler.Start()
	pipeline.HydrateDeck(context.Background(), slides)
	return slides, nil
}

// ApplyConfig installs a changed configuration: a fresh synthesizer around
// the reloaded model client, a fresh hydration pipeline and the new reveal
// cadence. The current deck, reveal run and branding are untouched.
func (a *App) ApplyConfig(cfg config.Config, llm agent.TextGenerator) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg = cfg
	a.synth = agent.NewSynthesizer(llm, a.logger)

	icons := hydrate.NewIconService(cfg.IconEndpoint, a.logger)
	images := hydrate.NewImageService(cfg, a.logger)
	p := hydrate.NewPipeline(a.store, icons, images, cfg.HydrationLimit, a.logger)
	p.OnHydrated = a.pipeline.OnHydrated
	p.OnFailed = a.pipeline.OnFailed
	a.pipeline = p

	a.scheduler.SetInterval(time.Duration(cfg.RevealInterval) * time.Millisecond)
}

// DeckState is the interactive client's view of the current run.
type DeckState struct {
	Slides      []deck.Slide  `json:"slides"`
	Visible     int           `json:"visible"`
	RevealState string        `json:"revealState"`
	Branding    deck.Branding `json:"branding"`
}

// State snapshots the current deck, watermark and branding.
func (a *App) State() DeckState {
	return DeckState{
		Slides:      a.store.Slides(),
		Visible:     a.store.VisibleCount(),
		RevealState: a.scheduler.State().String(),
		Branding:    a.store.Branding(),
	}
}

// RenderView renders the currently visible prefix as the interactive page.
func (a *App) RenderView() string {
	return a.html.RenderDeck(a.store.VisibleSlides(), a.store.Branding(), render.ModeInteractive)
}

// ReplaceSlideContent swaps a slide's whole content array (covers edit,
// reorder, duplicate and delete of individual items).
func (a *App) ReplaceSlideContent(id string, content []string) error {
	if !a.store.ReplaceContent(id, content) {
		return fmt.Errorf("slide %s not found", id)
	}
	return nil
}

// SetSlideTitle commits an edited title.
func (a *App) SetSlideTitle(id, title string) error {
	if !a.store.SetTitle(id, title) {
		return fmt.Errorf("slide %s not found", id)
	}
	return nil
}

// SwitchSlideLayout changes a slide's layout variant.
func (a *App) SwitchSlideLayout(id string, l deck.Layout) error {
	if !a.store.SwitchLayout(id, l) {
		return fmt.Errorf("slide %s not found", id)
	}
	return nil
}

// UpdateVisualGeometry commits a gesture-end geometry update.
func (a *App) UpdateVisualGeometry(id string, upd deck.GeometryUpdate) error {
	if !a.store.UpdateVisualGeometry(id, upd) {
		return fmt.Errorf("slide %s has no adjustable visual", id)
	}
	return nil
}

// RegenerateVisual re-resolves one slide's visual, awaited by the caller.
func (a *App) RegenerateVisual(ctx context.Context, id string, kind deck.VisualKind, prompt string) (deck.Visual, error) {
	a.mu.RLock()
	pipeline := a.pipeline
	a.mu.RUnlock()
	return pipeline.Regenerate(ctx, id, kind, prompt)
}

// Branding returns the current branding configuration.
func (a *App) Branding() deck.Branding {
	return a.store.Branding()
}

// SetBranding installs new branding; an explicit user action only.
func (a *App) SetBranding(b deck.Branding) {
	a.store.SetBranding(b)
}

// beginExport serializes export operations; triggering controls are
// disabled while one is in flight.
func (a *App) beginExport() error {
	if !a.exporting.CompareAndSwap(false, true) {
		return fmt.Errorf("an export is already in progress")
	}
	return nil
}

// ExportJSON serializes the full deck to the structured format.
func (a *App) ExportJSON() ([]byte, error) {
	if err := a.beginExport(); err != nil {
		return nil, err
	}
	defer a.exporting.Store(false)
	return a.jsonSvc.ExportDeck(a.store.Slides(), a.store.Branding(), a.store.GeneratedAt())
}

// ExportPDF captures each slide and assembles the paged raster document.
func (a *App) ExportPDF() ([]byte, error) {
	if err := a.beginExport(); err != nil {
		return nil, err
	}
	defer a.exporting.Store(false)
	return a.pdfSvc.ExportDeck(a.store.Slides(), a.store.Branding())
}

// ExportPPTX rebuilds the deck in the presentation file format.
func (a *App) ExportPPTX() ([]byte, error) {
	if err := a.beginExport(); err != nil {
		return nil, err
	}
	defer a.exporting.Store(false)
	return a.pptSvc.ExportDeck(a.store.Slides(), a.store.Branding())
}

// SaveDeck persists the current deck document.
func (a *App) SaveDeck(id, title string) (database.DeckRecord, error) {
	if a.decks == nil {
		return database.DeckRecord{}, fmt.Errorf("persistence is disabled")
	}
	doc, err := a.jsonSvc.ExportDeck(a.store.Slides(), a.store.Branding(), a.store.GeneratedAt())
	if err != nil {
		return database.DeckRecord{}, err
	}
	if title == "" {
		if slides := a.store.Slides(); len(slides) > 0 {
			title = slides[0].Title
		}
	}
	return a.decks.SaveDeck(database.DeckRecord{ID: id, Title: title, Document: doc})
}

// LoadDeck restores a saved deck, fully visible, replacing the current one.
func (a *App) LoadDeck(id string) error {
	if a.decks == nil {
		return fmt.Errorf("persistence is disabled")
	}
	rec, err := a.decks.LoadDeck(id)
	if err != nil {
		return err
	}
	doc, err := a.jsonSvc.ImportDeck(rec.Document)
	if err != nil {
		return err
	}
	generatedAt, _ := time.Parse(time.RFC3339, doc.Meta.GeneratedAt)
	a.store.Replace(doc.Slides, generatedAt)
	a.store.SetBranding(doc.Branding)
	a.store.ShowAll()
	a.scheduler.Complete()
	a.hub.Broadcast(Event{Type: "deck_loaded", Payload: a.State()})
	return nil
}

// ListDecks lists saved decks.
func (a *App) ListDecks() ([]database.DeckRecord, error) {
	if a.decks == nil {
		return nil, fmt.Errorf("persistence is disabled")
	}
	return a.decks.ListDecks()
}

// DeleteDeck removes a saved deck.
func (a *App) DeleteDeck(id string) error {
	if a.decks == nil {
		return fmt.Errorf("persistence is disabled")
	}
	return a.decks.DeleteDeck(id)
}
