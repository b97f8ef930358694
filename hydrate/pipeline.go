// Package hydrate resolves slide visual placeholders into renderable
// content: inline SVG for icons, data URIs for generated images. Resolution
// runs after synthesis without blocking reveal; results merge back into the
// canonical deck keyed by slide id, so a late arrival can never land on the
// wrong slide.
package hydrate

import (
	"context"
	"fmt"

	"slidesmith/deck"
)

// IconSearcher resolves an icon keyword to inline SVG markup ("" on miss).
type IconSearcher interface {
	Search(ctx context.Context, keyword string) (string, error)
}

// ImageGenerator resolves a prompt plus illustration style to a data URI.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, style string) (string, error)
}

// HydrationError reports a per-slide, per-asset resolution failure. It never
// propagates to deck-level state; the slide keeps its placeholder.
type HydrationError struct {
	SlideID string
	Kind    deck.VisualKind
	Err     error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("visual hydration failed for slide %s (%s): %v", e.SlideID, e.Kind, e.Err)
}

func (e *HydrationError) Unwrap() error { return e.Err }

// Pipeline hydrates a deck's visuals concurrently. In-flight resolutions are
// capped by a semaphore; above the cap each slide is still fire-and-forget.
type Pipeline struct {
	icons  IconSearcher
	images ImageGenerator
	store  *deck.Store
	sem    chan struct{}
	logger func(string)

	// OnHydrated fires after a result merges into the store (and not when a
	// stale result is dropped). Optional.
	OnHydrated func(slideID string)
	// OnFailed fires when a slide's visual cannot be resolved. Optional.
	OnFailed func(err *HydrationError)
}

// NewPipeline creates a hydration pipeline over the given store and
// resolution services. limit caps concurrent in-flight resolutions.
func NewPipeline(store *deck.Store, icons IconSearcher, images ImageGenerator, limit int, logger func(string)) *Pipeline {
	if limit <= 0 {
		limit = 8
	}
	return &Pipeline{
		icons:  icons,
		images: images,
		store:  store,
		sem:    make(chan struct{}, limit),
		logger: logger,
	}
}

func (p *Pipeline) log(msg string) {
	if p.logger != nil {
		p.logger(msg)
	}
}

// HydrateDeck launches one resolution per slide with a resolvable visual and
// returns immediately. Slides with visual kind "none" never issue an
// outbound call.
func (p *Pipeline) HydrateDeck(ctx context.Context, slides []deck.Slide) {
	for _, s := range slides {
		if !s.HasVisual() {
			continue
		}
		go p.hydrateOne(ctx, s.ID, *s.Visual)
	}
}

func (p *Pipeline) hydrateOne(ctx context.Context, slideID string, v deck.Visual) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-p.sem }()

	content, err := p.resolve(ctx, v)
	if err != nil {
		herr := &HydrationError{SlideID: slideID, Kind: v.Kind, Err: err}
		p.log("[HYDRATE] " + herr.Error())
		if p.OnFailed != nil {
			p.OnFailed(herr)
		}
		return
	}
	if content == "" {
		// Icon miss: leave the placeholder in place, nothing to merge.
		return
	}
	if p.store.ApplyVisualContent(slideID, v.Kind, content) {
		if p.OnHydrated != nil {
			p.OnHydrated(slideID)
		}
	}
}

func (p *Pipeline) resolve(ctx context.Context, v deck.Visual) (string, error) {
	switch v.Kind {
	case deck.VisualIcon:
		return p.icons.Search(ctx, v.IconName)
	case deck.VisualImage, deck.VisualIllustration:
		return p.images.Generate(ctx, v.Prompt, p.store.Branding().IllustrationStyle)
	default:
		return "", nil
	}
}

// Regenerate re-resolves one slide's visual synchronously (awaited by the
// triggering control). On success only the visual sub-record is replaced; on
// failure nothing mutates and the error surfaces to the caller for inline
// display. A second regeneration racing the first resolves to
// last-write-wins.
func (p *Pipeline) Regenerate(ctx context.Context, slideID string, kind deck.VisualKind, prompt string) (deck.Visual, error) {
	slide, ok := p.store.SlideByID(slideID)
	if !ok {
		return deck.Visual{}, fmt.Errorf("slide %s not found", slideID)
	}

	v := deck.Visual{Kind: kind, Prompt: prompt}
	if kind == deck.VisualIcon {
		v.IconName = prompt
	}
	if prev := slide.Visual; prev != nil {
		// Keep the user's committed geometry across regeneration.
		v.Width, v.Scale, v.VerticalPos, v.HorizontalPos = prev.Width, prev.Scale, prev.VerticalPos, prev.HorizontalPos
	}
	v.Normalize()

	content, err := p.resolve(ctx, v)
	if err != nil {
		return deck.Visual{}, &HydrationError{SlideID: slideID, Kind: kind, Err: err}
	}
	if content == "" && kind == deck.VisualIcon {
		return deck.Visual{}, &HydrationError{SlideID: slideID, Kind: kind, Err: fmt.Errorf("no icon matched %q", prompt)}
	}
	v.Content = content
	if !p.store.SetVisual(slideID, v) {
		return deck.Visual{}, fmt.Errorf("slide %s disappeared during regeneration", slideID)
	}
	return v, nil
}
