package holdings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/domain"
)

// Snapshot is one complete, immutable cache entry. Entries are replaced
// wholesale on refresh and never mutated in place, so readers always see
// either the prior complete set or the new complete set.
type Snapshot struct {
	Positions []domain.Position `json:"positions"`
	FetchedAt time.Time         `json:"fetched_at"`
	Degraded  int               `json:"degraded"` // positions serving last-known values
}

// Cache holds the most recently reconciled position set and serves it
// within a freshness window. Concurrent refreshes coalesce into a single
// in-flight fetch.
type Cache struct {
	reconciler *Reconciler
	reference  []domain.Position
	freshness  time.Duration
	log        zerolog.Logger

	mu      sync.RWMutex
	current *Snapshot

	flight singleflight.Group
}

// NewCache creates a portfolio cache seeded with the reference position set
func NewCache(reconciler *Reconciler, reference []domain.Position, freshness time.Duration, log zerolog.Logger) *Cache {
	return &Cache{
		reconciler: reconciler,
		reference:  reference,
		freshness:  freshness,
		log:        log.With().Str("service", "portfolio_cache").Logger(),
	}
}

// GetOrRefresh returns the cached snapshot when it is still inside the
// freshness window at the given instant, otherwise refreshes every
// position in parallel and replaces the entry atomically. The clock is a
// parameter so the window logic stays deterministic under test.
func (c *Cache) GetOrRefresh(ctx context.Context, now time.Time) (*Snapshot, error) {
	if snap := c.freshSnapshot(now); snap != nil {
		return snap, nil
	}

	// Coalesce concurrent refreshes: a second caller arriving while a
	// refresh is in flight shares its result instead of issuing another
	// round of network calls.
	v, err, _ := c.flight.Do("refresh", func() (interface{}, error) {
		// Another flight may have refreshed between the check above and
		// acquiring the flight.
		if snap := c.freshSnapshot(now); snap != nil {
			return snap, nil
		}
		return c.refresh(ctx, now)
	})
	if err != nil {
		// Total refresh failure: serve the previous entry if one exists,
		// else fall back to the reference set. The consumer is never left
		// without data over a transient fault; the error is returned
		// alongside the fallback so callers can still observe the failure.
		c.log.Error().Err(err).Msg("Refresh failed, serving fallback data")

		c.mu.RLock()
		prev := c.current
		c.mu.RUnlock()
		if prev != nil {
			return prev, err
		}
		return &Snapshot{Positions: c.reference, Degraded: len(c.reference)}, err
	}

	return v.(*Snapshot), nil
}

// Snapshot returns the current entry without triggering any refresh.
// The second return is false before the first successful refresh.
func (c *Cache) Snapshot() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, false
	}
	return c.current, true
}

// Stale reports whether the entry at the given instant is outside the
// freshness window (or missing entirely).
func (c *Cache) Stale(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current == nil || now.Sub(c.current.FetchedAt) >= c.freshness
}

func (c *Cache) freshSnapshot(now time.Time) *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current != nil && now.Sub(c.current.FetchedAt) < c.freshness {
		return c.current
	}
	return nil
}

// refresh reconciles every position in parallel and installs the new entry.
// Per-position failures are already absorbed by the reconciler; positions
// start from the previous entry (or the reference set on first run) so a
// failing ticker keeps serving its last-known values.
func (c *Cache) refresh(ctx context.Context, now time.Time) (*Snapshot, error) {
	c.mu.RLock()
	base := c.reference
	if c.current != nil {
		base = c.current.Positions
	}
	c.mu.RUnlock()

	results := make([]Result, len(base))

	g, gctx := errgroup.WithContext(ctx)
	for i, pos := range base {
		i, pos := i, pos
		g.Go(func() error {
			results[i] = c.reconciler.Reconcile(gctx, pos)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reconciliation batch failed: %w", err)
	}

	positions := make([]domain.Position, len(results))
	degraded := 0
	for i, res := range results {
		positions[i] = res.Position
		if !res.Fresh {
			degraded++
		}
	}

	recomputeAllocations(positions)

	snap := &Snapshot{
		Positions: positions,
		FetchedAt: now,
		Degraded:  degraded,
	}

	c.mu.Lock()
	c.current = snap
	c.mu.Unlock()

	c.log.Info().
		Int("positions", len(positions)).
		Int("degraded", degraded).
		Msg("Portfolio refreshed")

	return snap, nil
}

// recomputeAllocations rewrites per-position allocation percentages from
// the refreshed values so they stay consistent with the new totals.
func recomputeAllocations(positions []domain.Position) {
	total := 0.0
	for _, pos := range positions {
		total += pos.Value
	}
	if total == 0 {
		return
	}
	for i := range positions {
		positions[i].Allocation = positions[i].Value / total * 100
	}
}
