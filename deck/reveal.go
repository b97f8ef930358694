package deck

import (
	"fmt"
	"sync"
	"time"
)

// RevealState is the lifecycle of one timed reveal cycle.
type RevealState int

const (
	RevealIdle RevealState = iota
	RevealRevealing
	RevealComplete
)

func (s RevealState) String() string {
	switch s {
	case RevealRevealing:
		return "revealing"
	case RevealComplete:
		return "complete"
	default:
		return "idle"
	}
}

// RevealEvent is delivered once per revealed slide.
type RevealEvent struct {
	Slide   Slide
	Visible int
	Total   int
}

// Scheduler reveals slides one at a time on a fixed interval, producing the
// streaming-generation illusion. It is fully independent of hydration: a
// slide is revealed whether or not its visual has resolved yet. A new Start
// supersedes any pending timer via the store's generation token; there is no
// explicit cancellation API.
type Scheduler struct {
	store    *Store
	interval time.Duration
	logger   func(string)

	mu    sync.Mutex
	state RevealState

	// OnReveal and OnComplete are invoked from the timer goroutine. Both are
	// optional.
	OnReveal   func(RevealEvent)
	OnComplete func()
}

// NewScheduler creates a scheduler over the given store.
func NewScheduler(store *Store, interval time.Duration, logger func(string)) *Scheduler {
	return &Scheduler{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// State returns the current reveal state.
func (sc *Scheduler) State() RevealState {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state
}

// SetInterval changes the reveal cadence for subsequent runs.
func (sc *Scheduler) SetInterval(d time.Duration) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if d > 0 {
		sc.interval = d
	}
}

// Complete marks the current deck as fully revealed without firing the
// completion callback. Used when a deck arrives already visible, e.g. after
// restoring a saved one; any in-flight timer sees the bumped store
// generation and stops on its next tick.
func (sc *Scheduler) Complete() {
	sc.mu.Lock()
	sc.state = RevealComplete
	sc.mu.Unlock()
}

// Start begins revealing the store's current deck. It must be called after
// Store.Replace; the generation token captured here makes any timer from a
// previous run a no-op. Complete is terminal for a generation: re-entering
// Revealing requires a brand-new synthesis (another Replace + Start).
func (sc *Scheduler) Start() {
	generation := sc.store.Generation()
	total := sc.store.Len()

	sc.mu.Lock()
	if total == 0 {
		sc.state = RevealComplete
		sc.mu.Unlock()
		if sc.OnComplete != nil {
			sc.OnComplete()
		}
		return
	}
	sc.state = RevealRevealing
	sc.mu.Unlock()

	go sc.run(generation, total)
}

func (sc *Scheduler) run(generation, total int) {
	sc.mu.Lock()
	interval := sc.interval
	sc.mu.Unlock()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		slide, ok := sc.store.RevealNext(generation)
		if !ok {
			// Either the deck is fully visible or this run was superseded.
			if sc.store.Generation() == generation {
				sc.finish(generation)
			}
			return
		}
		visible := sc.store.VisibleCount()
		if sc.OnReveal != nil {
			sc.OnReveal(RevealEvent{Slide: slide, Visible: visible, Total: total})
		}
		if visible >= total {
			sc.finish(generation)
			return
		}
	}
}

func (sc *Scheduler) finish(generation int) {
	sc.mu.Lock()
	sc.state = RevealComplete
	sc.mu.Unlock()
	if sc.logger != nil {
		sc.logger(fmt.Sprintf("[REVEAL] generation %d complete", generation))
	}
	if sc.OnComplete != nil {
		sc.OnComplete()
	}
}
