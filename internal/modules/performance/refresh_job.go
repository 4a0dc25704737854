package performance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/events"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/holdings"
)

// RefreshJob recomputes the performance series on its own, slower polling
// interval. It shares the portfolio cache with the headline consumer, so
// within the freshness window it never triggers extra network activity.
type RefreshJob struct {
	cache   *holdings.Cache
	builder *Builder
	bus     *events.Bus
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates the periodic performance series job
func NewRefreshJob(cache *holdings.Cache, builder *Builder, bus *events.Bus, timeout time.Duration, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		cache:   cache,
		builder: builder,
		bus:     bus,
		timeout: timeout,
		log:     log.With().Str("job", "performance_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "performance_refresh"
}

// Run rebuilds the performance series from the current position set
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	now := time.Now()
	snap, err := j.cache.GetOrRefresh(ctx, now)
	if err != nil {
		j.log.Warn().Err(err).Msg("Building series from fallback data")
	}

	series := j.builder.Build(snap.Positions, now)

	j.bus.Publish(events.PerformanceUpdated, events.PerformanceUpdatedData{
		Points:        len(series.Points),
		ChangePercent: series.ChangePercent,
	})

	return nil
}
