package holdings

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Handler handles portfolio position HTTP requests
type Handler struct {
	cache *Cache
	log   zerolog.Logger
}

// NewHandler creates a new holdings handler
func NewHandler(cache *Cache, log zerolog.Logger) *Handler {
	return &Handler{
		cache: cache,
		log:   log.With().Str("handler", "holdings").Logger(),
	}
}

// HandleGetPortfolio returns the current reconciled position set together
// with its staleness indicator.
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	snap, err := h.cache.GetOrRefresh(r.Context(), time.Now())
	if err != nil {
		// Fallback data was served; surface the degradation, not an error
		h.log.Warn().Err(err).Msg("Serving fallback portfolio data")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"positions":  snap.Positions,
		"fetched_at": snap.FetchedAt,
		"degraded":   snap.Degraded,
		"stale":      err != nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
