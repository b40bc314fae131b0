package home

import (
	"context"
	"sync"
	"time"

	"countries_app_echo/internal/countries"
)

// Page is one mounted Home screen: its view state plus the fetch that
// populates it.
type Page struct {
	ID        string
	SessionID string

	mu       sync.Mutex
	view     *countries.View
	closed   bool
	lastSeen time.Time

	cancel   context.CancelFunc
	settled  chan struct{}
	settleMu sync.Once
}

func newPage(id, sessionID string, cancel context.CancelFunc, now time.Time) *Page {
	return &Page{
		ID:        id,
		SessionID: sessionID,
		view:      countries.NewView(),
		lastSeen:  now,
		cancel:    cancel,
		settled:   make(chan struct{}),
	}
}

// settle applies the fetch result unless the page was torn down first.
// It reports whether the result was applied.
func (p *Page) settle(res countries.FetchResult, rng countries.RandomSource) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	applied := p.view.Apply(res, rng)
	p.markSettled()
	return applied
}

func (p *Page) markSettled() {
	p.settleMu.Do(func() { close(p.settled) })
}

// Close cancels an in-flight fetch. A completion arriving afterwards is dropped.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.cancel()
	p.markSettled()
}

// Closed reports whether the page has been torn down.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Wait blocks until the fetch settles, the page closes or ctx is done.
func (p *Page) Wait(ctx context.Context) error {
	select {
	case <-p.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update runs fn with exclusive access to the view and returns the
// resulting snapshot.
func (p *Page) Update(fn func(v *countries.View)) countries.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fn != nil {
		fn(p.view)
	}
	return p.view.Snapshot()
}

// Snapshot returns the current render state.
func (p *Page) Snapshot() countries.Snapshot {
	return p.Update(nil)
}

func (p *Page) touch(now time.Time) {
	p.mu.Lock()
	p.lastSeen = now
	p.mu.Unlock()
}

func (p *Page) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}
