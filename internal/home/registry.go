// Package home keeps the mounted Home screens. Each mount starts exactly
// one cancellable fetch of the country collection; tearing the page down
// cancels it and drops any late completion.
package home

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"countries_app_echo/internal/countries"
)

// Fetcher loads the country collection.
type Fetcher interface {
	FetchCountries(ctx context.Context) countries.FetchResult
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context) countries.FetchResult

func (f FetchFunc) FetchCountries(ctx context.Context) countries.FetchResult {
	return f(ctx)
}

// Options configures a Registry.
type Options struct {
	// TTL closes pages that have not been viewed for this long. Zero disables expiry.
	TTL time.Duration
	// SweepInterval is how often Run looks for expired pages.
	SweepInterval time.Duration
	// Random picks the featured country. Defaults to countries.DefaultRandom.
	Random countries.RandomSource
}

// Registry stores mounted pages by id.
type Registry struct {
	mu    sync.RWMutex
	pages map[string]*Page

	fetcher Fetcher
	opts    Options
	now     func() time.Time
	log     *zap.Logger

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates an empty registry.
func NewRegistry(fetcher Fetcher, opts Options, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Random == nil {
		opts.Random = countries.DefaultRandom
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	base, cancel := context.WithCancel(context.Background())
	return &Registry{
		pages:   make(map[string]*Page),
		fetcher: fetcher,
		opts:    opts,
		now:     time.Now,
		log:     log.Named("home"),
		base:    base,
		cancel:  cancel,
	}
}

// Mount creates a page owned by sessionID and starts its fetch.
func (r *Registry) Mount(sessionID string) *Page {
	ctx, cancel := context.WithCancel(r.base)
	page := newPage(uuid.NewString(), sessionID, cancel, r.now())

	r.mu.Lock()
	r.pages[page.ID] = page
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		res := r.fetcher.FetchCountries(ctx)
		if !page.settle(res, r.opts.Random) {
			r.log.Debug("Dropped fetch result for closed page", zap.String("page", page.ID))
			return
		}
		r.log.Debug("Page settled",
			zap.String("page", page.ID),
			zap.Int("countries", len(res.Countries)),
			zap.Bool("failed", !res.OK()))
	}()

	r.log.Debug("Page mounted", zap.String("page", page.ID), zap.String("session", sessionID))
	return page
}

// Get returns an open page and marks it as recently viewed.
func (r *Registry) Get(id string) (*Page, bool) {
	r.mu.RLock()
	page, ok := r.pages[id]
	r.mu.RUnlock()
	if !ok || page.Closed() {
		return nil, false
	}
	page.touch(r.now())
	return page, true
}

// Len returns the number of open pages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}

// Unmount tears down a single page.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	page, ok := r.pages[id]
	delete(r.pages, id)
	r.mu.Unlock()
	if ok {
		page.Close()
	}
}

// CloseSession tears down every page owned by sessionID and returns how many were closed.
func (r *Registry) CloseSession(sessionID string) int {
	return r.closeWhere(func(p *Page) bool { return p.SessionID == sessionID })
}

// Sweep tears down pages idle for longer than the TTL.
func (r *Registry) Sweep() int {
	if r.opts.TTL <= 0 {
		return 0
	}
	deadline := r.now().Add(-r.opts.TTL)
	return r.closeWhere(func(p *Page) bool { return p.idleSince().Before(deadline) })
}

func (r *Registry) closeWhere(match func(*Page) bool) int {
	var closing []*Page
	r.mu.Lock()
	for id, page := range r.pages {
		if match(page) {
			closing = append(closing, page)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, page := range closing {
		page.Close()
	}
	return len(closing)
}

// Run sweeps expired pages until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("Expired idle pages", zap.Int("count", n))
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Close tears down every page and waits for their fetches to return.
func (r *Registry) Close() {
	r.closeWhere(func(*Page) bool { return true })
	r.cancel()
	r.wg.Wait()
}
