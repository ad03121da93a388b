package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/kurvfo/pkg/logger"
	"github.com/angelmondragon/kurvfo/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the catalog as of one applied load.
type Snapshot struct {
	Deals    []Deal    `json:"deals"`
	Stores   []Store   `json:"stores"`
	Seq      uint64    `json:"seq"`
	Loaded   bool      `json:"loaded"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Loader fetches deals and stores in parallel and keeps the newest snapshot.
// A fetch that fails yields an empty list for that resource; loads never fail.
// A load whose caller went away before it resolved is discarded.
type Loader struct {
	provider   Provider
	timeout    time.Duration
	logg       *logger.Logger
	metrics    *metrics.CatalogMetrics
	now        func() time.Time
	invalidate func(ctx context.Context) error

	seq      Sequencer
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewLoader builds a loader; timeout bounds each load when positive.
func NewLoader(provider Provider, timeout time.Duration, logg *logger.Logger, m *metrics.CatalogMetrics) *Loader {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Loader{
		provider: provider,
		timeout:  timeout,
		logg:     logg,
		metrics:  m,
		now:      time.Now,
	}
}

// Snapshot returns the most recently applied catalog.
func (l *Loader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}

// SetInvalidator registers a hook Refresh runs before loading, typically
// dropping cached provider snapshots.
func (l *Loader) SetInvalidator(fn func(ctx context.Context) error) {
	l.invalidate = fn
}

// Refresh drops cached snapshots, when an invalidator is set, and loads.
// An invalidation failure is logged and the load still runs.
func (l *Loader) Refresh(ctx context.Context) (Snapshot, bool) {
	if l.invalidate != nil {
		if err := l.invalidate(ctx); err != nil {
			l.logg.Error(ctx, "invalidating catalog cache", err)
		}
	}
	return l.Load(ctx)
}

// Loaded reports whether any load has been applied yet.
func (l *Loader) Loaded() bool {
	return l.Snapshot().Loaded
}

// Load issues a new load and applies it unless a later-issued load landed
// first. It returns the snapshot current after the call and whether this
// load's result was applied.
func (l *Loader) Load(ctx context.Context) (Snapshot, bool) {
	seq := l.seq.Issue()
	started := l.now()
	parent := l.logg.WithField(ctx, "request_seq", seq)
	ctx = parent

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	// Fetches report only context errors; provider failures degrade to an
	// empty list inside each fetch, so one resource never cancels the other.
	var deals []Deal
	var stores []Store
	var g errgroup.Group
	g.Go(func() (err error) {
		deals, err = l.fetchDeals(ctx)
		return err
	})
	g.Go(func() (err error) {
		stores, err = l.fetchStores(ctx)
		return err
	})
	err := g.Wait()
	if parent.Err() != nil {
		l.metrics.ObserveLoad(true, l.now().Sub(started))
		l.logg.Info(parent, "discarding catalog load abandoned by its caller")
		return l.Snapshot(), false
	}
	if err != nil {
		l.logg.Warn(l.logg.WithField(parent, "error", err.Error()), "catalog load timed out; unfinished resources are empty")
	}

	next := Snapshot{
		Deals:    deals,
		Stores:   stores,
		Seq:      seq,
		Loaded:   true,
		LoadedAt: l.now(),
	}
	applied := l.seq.Commit(seq, func() {
		l.mu.Lock()
		l.snapshot = next
		l.mu.Unlock()
	})

	l.metrics.ObserveLoad(!applied, l.now().Sub(started))
	if !applied {
		l.logg.Info(ctx, "discarding superseded catalog load")
		return l.Snapshot(), false
	}
	l.metrics.SetDeals(len(deals))
	l.logg.Info(l.logg.WithFields(ctx, map[string]any{
		"deals":  len(deals),
		"stores": len(stores),
	}), "catalog loaded")
	return next, true
}

func (l *Loader) fetchDeals(ctx context.Context) ([]Deal, error) {
	deals, err := l.provider.ActiveDeals(ctx)
	l.metrics.ObserveFetch(resourceDeals, err)
	if err != nil {
		l.logg.Error(ctx, "fetching active deals", err)
		return []Deal{}, ctx.Err()
	}
	// providers may share their slice with a cache
	out := make([]Deal, len(deals))
	copy(out, deals)
	sortByDiscount(out)
	return out, nil
}

func (l *Loader) fetchStores(ctx context.Context) ([]Store, error) {
	stores, err := l.provider.ActiveStores(ctx)
	l.metrics.ObserveFetch(resourceStores, err)
	if err != nil {
		l.logg.Error(ctx, "fetching stores", err)
		return []Store{}, ctx.Err()
	}
	out := make([]Store, 0, len(stores))
	for _, s := range stores {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}
