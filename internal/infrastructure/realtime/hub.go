// Package realtime fans domain events out to open push connections.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/api/metrics"
	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// ErrHubClosed is returned by Subscribe after Close.
var ErrHubClosed = errors.New("realtime: hub closed")

type subscriber struct {
	id   string
	sink Sink
}

// Hub is a registry of connections. Broadcasts are serialized once and
// delivered to every connection in registration order.
type Hub struct {
	mu     sync.RWMutex
	subs   []subscriber
	closed bool
	log    zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{log: log.With().Str("component", "realtime").Logger()}
}

// Frame renders v as a single SSE data frame.
func Frame(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	frame := make([]byte, 0, len(data)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, data...)
	frame = append(frame, '\n', '\n')
	return frame, nil
}

// Subscribe delivers the welcome frame to sink and then registers it. The
// sink sees no broadcast before the welcome frame.
func (h *Hub) Subscribe(sink Sink) (string, error) {
	welcome, err := Frame(map[string]string{"message": domain.WelcomeMessage})
	if err != nil {
		return "", err
	}
	if err := sink.Send(welcome); err != nil {
		return "", fmt.Errorf("send welcome: %w", err)
	}

	id := uuid.NewString()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sink.Close()
		return "", ErrHubClosed
	}
	h.subs = append(h.subs, subscriber{id: id, sink: sink})
	n := len(h.subs)
	h.mu.Unlock()

	metrics.RealtimeConnections.Inc()
	h.log.Debug().Str("conn_id", id).Int("connections", n).Msg("connection registered")
	return id, nil
}

// Unsubscribe removes and closes the connection. Unknown ids are ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	var removed Sink
	for i, s := range h.subs {
		if s.id == id {
			removed = s.sink
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			break
		}
	}
	n := len(h.subs)
	h.mu.Unlock()

	if removed == nil {
		return
	}
	removed.Close()
	metrics.RealtimeConnections.Dec()
	h.log.Debug().Str("conn_id", id).Int("connections", n).Msg("connection removed")
}

// Broadcast sends event to every registered connection. A failing connection
// does not affect delivery to the others.
func (h *Hub) Broadcast(event domain.Event) {
	frame, err := Frame(event)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(event.Type)).Msg("failed to encode event")
		return
	}

	h.mu.RLock()
	snapshot := make([]subscriber, len(h.subs))
	copy(snapshot, h.subs)
	h.mu.RUnlock()

	metrics.RealtimeEventsTotal.WithLabelValues(string(event.Type)).Inc()

	for _, s := range snapshot {
		if err := s.sink.Send(frame); err != nil {
			metrics.RealtimeDeliveryFailuresTotal.WithLabelValues(failureReason(err)).Inc()
			h.log.Warn().Err(err).Str("conn_id", s.id).Str("type", string(event.Type)).Msg("event not delivered")
		}
	}
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every connection and rejects further subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.closed = true
	h.mu.Unlock()

	for _, s := range subs {
		s.sink.Close()
	}
	metrics.RealtimeConnections.Sub(float64(len(subs)))
	h.log.Info().Int("connections", len(subs)).Msg("hub closed")
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrSlowConsumer):
		return "slow_consumer"
	case errors.Is(err, ErrSinkClosed):
		return "closed"
	default:
		return "send_error"
	}
}
