package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/events"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/holdings"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/metrics"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/performance"
)

const writeWait = 10 * time.Second

// StreamHandler pushes a dashboard snapshot to connected browsers over a
// websocket whenever a refresh cycle completes. Polling remains the
// primary contract; the stream is additive.
type StreamHandler struct {
	bus     *events.Bus
	cache   *holdings.Cache
	metrics *metrics.Service
	builder *performance.Builder
	log     zerolog.Logger
}

// streamPayload is one pushed dashboard update
type streamPayload struct {
	Event     events.EventType         `json:"event"`
	Timestamp time.Time                `json:"timestamp"`
	Metrics   *domainMetricsEnvelope   `json:"metrics,omitempty"`
}

type domainMetricsEnvelope struct {
	Snapshot interface{} `json:"snapshot"`
	Degraded int         `json:"degraded"`
}

// NewStreamHandler creates a new websocket stream handler
func NewStreamHandler(bus *events.Bus, cache *holdings.Cache, m *metrics.Service, b *performance.Builder, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		bus:     bus,
		cache:   cache,
		metrics: m,
		builder: b,
		log:     log.With().Str("handler", "stream").Logger(),
	}
}

// ServeHTTP upgrades the connection and streams refresh events until the
// client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The dashboard may be served from a different origin in development
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	h.log.Info().Msg("Client connected to live stream")

	// Buffered so a slow consumer drops updates instead of blocking the
	// refresh path.
	updates := make(chan *events.Event, 16)
	handler := func(event *events.Event) {
		select {
		case updates <- event:
		default:
		}
	}

	subs := map[events.EventType]string{
		events.RefreshCompleted:   h.bus.Subscribe(events.RefreshCompleted, handler),
		events.RefreshFailed:      h.bus.Subscribe(events.RefreshFailed, handler),
		events.PerformanceUpdated: h.bus.Subscribe(events.PerformanceUpdated, handler),
	}
	defer func() {
		for t, id := range subs {
			h.bus.Unsubscribe(t, id)
		}
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from live stream")
			return
		case event := <-updates:
			payload := h.buildPayload(event)

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(writeCtx, conn, payload)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("Stream write failed, closing")
				return
			}
		}
	}
}

// buildPayload attaches the current metrics snapshot to refresh events so
// the browser can render without a follow-up poll.
func (h *StreamHandler) buildPayload(event *events.Event) streamPayload {
	payload := streamPayload{
		Event:     event.Type,
		Timestamp: event.Timestamp,
	}

	if event.Type != events.RefreshCompleted {
		return payload
	}

	snap, ok := h.cache.Snapshot()
	if !ok {
		return payload
	}

	series := h.builder.Build(snap.Positions, time.Now())
	payload.Metrics = &domainMetricsEnvelope{
		Snapshot: h.metrics.Compute(snap.Positions, series.Points),
		Degraded: snap.Degraded,
	}

	return payload
}
