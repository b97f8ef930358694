package deck

import (
	"fmt"
	"sync"
	"time"
)

// Store holds the canonical deck for one synthesis run. Slides are kept in
// synthesis order; the currently revealed subset is a watermark over that
// ordering rather than a second array, so a background merge can never drift
// against the visible copy. All mutations key slides by id.
type Store struct {
	mu          sync.RWMutex
	slides      []Slide
	visible     int
	generation  int
	generatedAt time.Time
	branding    Branding
	logger      func(string)
}

// NewStore creates an empty store with default branding.
func NewStore(logger func(string)) *Store {
	return &Store{
		branding: DefaultBranding(),
		logger:   logger,
	}
}

func (st *Store) log(msg string) {
	if st.logger != nil {
		st.logger(msg)
	}
}

// Replace installs a freshly synthesized deck, resetting the visible
// watermark to zero and superseding any pending reveal or hydration work
// from the previous generation. Returns the new generation token.
func (st *Store) Replace(slides []Slide, generatedAt time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.slides = make([]Slide, len(slides))
	for i, s := range slides {
		st.slides[i] = s.Clone()
	}
	st.visible = 0
	st.generation++
	st.generatedAt = generatedAt
	st.log(fmt.Sprintf("[DECK] replaced deck: %d slides, generation %d", len(slides), st.generation))
	return st.generation
}

// Generation returns the token of the current synthesis run. Asynchronous
// work captured against an older token must drop its result.
func (st *Store) Generation() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.generation
}

// GeneratedAt returns the timestamp of the current synthesis run.
func (st *Store) GeneratedAt() time.Time {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.generatedAt
}

// Len returns the size of the full deck.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.slides)
}

// Slides returns a deep copy of the full deck.
func (st *Store) Slides() []Slide {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return cloneSlides(st.slides)
}

// VisibleSlides returns a deep copy of the revealed prefix.
func (st *Store) VisibleSlides() []Slide {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return cloneSlides(st.slides[:st.visible])
}

// VisibleCount returns the current reveal watermark.
func (st *Store) VisibleCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.visible
}

// RevealNext advances the watermark by one slide and returns it. The second
// return is false once the whole deck is visible. The generation token
// guards against a reveal timer from a superseded run advancing a new deck.
func (st *Store) RevealNext(generation int) (Slide, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if generation != st.generation || st.visible >= len(st.slides) {
		return Slide{}, false
	}
	s := st.slides[st.visible]
	st.visible++
	return s.Clone(), true
}

// ShowAll moves the watermark to the end of the deck, used when a saved
// deck is loaded and there is nothing to reveal incrementally.
func (st *Store) ShowAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.visible = len(st.slides)
}

// SlideByID returns a copy of the slide with the given id.
func (st *Store) SlideByID(id string) (Slide, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, s := range st.slides {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return Slide{}, false
}

// ApplyVisualContent merges a resolved visual into the slide with the given
// id. The merge is dropped (returning false) if the slide no longer exists
// or its visual has since been edited into a different kind — a late
// hydration must never overwrite a reconfigured visual.
func (st *Store) ApplyVisualContent(id string, kind VisualKind, content string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.slides {
		if st.slides[i].ID != id {
			continue
		}
		v := st.slides[i].Visual
		if v == nil || v.Kind != kind {
			st.log(fmt.Sprintf("[DECK] dropped stale hydration for slide %s (kind %s)", id, kind))
			return false
		}
		v.Content = content
		return true
	}
	st.log(fmt.Sprintf("[DECK] dropped hydration for unknown slide %s", id))
	return false
}

// ReplaceContent swaps the slide's entire content array. Reorder, duplicate
// and delete of individual items are all expressed through this one atomic
// operation.
func (st *Store) ReplaceContent(id string, content []string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.slides {
		if st.slides[i].ID == id {
			st.slides[i].Content = append([]string(nil), content...)
			return true
		}
	}
	return false
}

// SetTitle updates the slide title in place.
func (st *Store) SetTitle(id, title string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.slides {
		if st.slides[i].ID == id {
			st.slides[i].Title = title
			return true
		}
	}
	return false
}

// SwitchLayout changes the slide's layout variant, leaving every other field
// untouched.
func (st *Store) SwitchLayout(id string, layout Layout) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.slides {
		if st.slides[i].ID == id {
			st.slides[i].Layout = layout
			return true
		}
	}
	return false
}

// GeometryUpdate carries a partial update to a visual's geometry. Nil fields
// are left unchanged; present fields are clamped on entry.
type GeometryUpdate struct {
	Width         *float64
	Scale         *float64
	VerticalPos   *float64
	HorizontalPos *float64
}

// UpdateVisualGeometry applies a committed (gesture-end) geometry update to
// the slide's visual sub-record.
func (st *Store) UpdateVisualGeometry(id string, upd GeometryUpdate) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.slides {
		if st.slides[i].ID != id {
			continue
		}
		v := st.slides[i].Visual
		if v == nil || v.Kind == VisualNone {
			return false
		}
		if upd.Width != nil {
			v.Width = clamp(*upd.Width, MinVisualWidth, MaxVisualWidth)
		}
		if upd.Scale != nil {
			v.Scale = clamp(*upd.Scale, MinVisualScale, MaxVisualScale)
		}
		if upd.VerticalPos != nil {
			v.VerticalPos = clamp(*upd.VerticalPos, MinVisualPos, MaxVisualPos)
		}
		if upd.HorizontalPos != nil {
			v.HorizontalPos = clamp(*upd.HorizontalPos, MinVisualPos, MaxVisualPos)
		}
		return true
	}
	return false
}

// SetVisual replaces the slide's visual sub-record wholesale (manual
// regeneration path). Other slide fields are preserved.
func (st *Store) SetVisual(id string, v Visual) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.slides {
		if st.slides[i].ID == id {
			v.Normalize()
			vc := v
			st.slides[i].Visual = &vc
			return true
		}
	}
	return false
}

// Branding returns a copy of the current branding configuration.
func (st *Store) Branding() Branding {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.branding
}

// SetBranding installs a new branding configuration. Only ever called from
// an explicit user action, never from background work.
func (st *Store) SetBranding(b Branding) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.branding = b
}

func cloneSlides(in []Slide) []Slide {
	out := make([]Slide, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
