package performance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/holdings"
)

// Handler handles performance series HTTP requests
type Handler struct {
	cache   *holdings.Cache
	builder *Builder
	log     zerolog.Logger
}

// NewHandler creates a new performance handler
func NewHandler(cache *holdings.Cache, builder *Builder, log zerolog.Logger) *Handler {
	return &Handler{
		cache:   cache,
		builder: builder,
		log:     log.With().Str("handler", "performance").Logger(),
	}
}

// HandleGetPerformance returns the reconstructed portfolio value series
func (h *Handler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	snap, err := h.cache.GetOrRefresh(r.Context(), now)
	if err != nil {
		h.log.Warn().Err(err).Msg("Building performance series from fallback data")
	}

	series := h.builder.Build(snap.Positions, now)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"series": series,
		"stale":  err != nil,
	})
}
