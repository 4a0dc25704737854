package holdings

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/events"
)

// RefreshJob drives the valuation pipeline on the headline polling
// interval. Each run refreshes the cache (a no-op while the entry is
// still fresh) and announces the outcome on the event bus.
type RefreshJob struct {
	cache   *Cache
	bus     *events.Bus
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates the periodic portfolio refresh job
func NewRefreshJob(cache *Cache, bus *events.Bus, timeout time.Duration, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		cache:   cache,
		bus:     bus,
		timeout: timeout,
		log:     log.With().Str("job", "portfolio_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "portfolio_refresh"
}

// Run refreshes the portfolio cache and publishes the result
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	snap, err := j.cache.GetOrRefresh(ctx, time.Now())
	if err != nil {
		j.bus.Publish(events.RefreshFailed, events.RefreshFailedData{Reason: err.Error()})
		return err
	}

	total := 0.0
	for _, pos := range snap.Positions {
		total += pos.Value
	}

	j.bus.Publish(events.RefreshCompleted, events.RefreshCompletedData{
		Positions:  len(snap.Positions),
		Degraded:   snap.Degraded,
		TotalValue: total,
	})

	return nil
}
