package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/holdings"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/performance"
)

// Handler handles portfolio metrics and allocation HTTP requests
type Handler struct {
	cache   *holdings.Cache
	service *Service
	builder *performance.Builder
	log     zerolog.Logger
}

// NewHandler creates a new metrics handler
func NewHandler(cache *holdings.Cache, service *Service, builder *performance.Builder, log zerolog.Logger) *Handler {
	return &Handler{
		cache:   cache,
		service: service,
		builder: builder,
		log:     log.With().Str("handler", "metrics").Logger(),
	}
}

// HandleGetMetrics returns the derived portfolio metrics snapshot
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	snap, err := h.cache.GetOrRefresh(r.Context(), now)
	if err != nil {
		h.log.Warn().Err(err).Msg("Computing metrics from fallback data")
	}

	series := h.builder.Build(snap.Positions, now)
	m := h.service.Compute(snap.Positions, series.Points)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics":    m,
		"fetched_at": snap.FetchedAt,
		"stale":      err != nil,
	})
}

// HandleGetAllocation returns the asset-class allocation breakdown
func (h *Handler) HandleGetAllocation(w http.ResponseWriter, r *http.Request) {
	snap, err := h.cache.GetOrRefresh(r.Context(), time.Now())
	if err != nil {
		h.log.Warn().Err(err).Msg("Computing allocation from fallback data")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"allocation": h.service.Allocation(snap.Positions),
		"stale":      err != nil,
	})
}

// HandleGetSectorAllocation returns the sector breakdown over equities
func (h *Handler) HandleGetSectorAllocation(w http.ResponseWriter, r *http.Request) {
	snap, err := h.cache.GetOrRefresh(r.Context(), time.Now())
	if err != nil {
		h.log.Warn().Err(err).Msg("Computing sector allocation from fallback data")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sectors": h.service.SectorAllocation(snap.Positions),
		"stale":   err != nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
