package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/infrastructure/realtime"
)

// Subscriber registers push connections.
type Subscriber interface {
	Subscribe(sink realtime.Sink) (string, error)
	Unsubscribe(id string)
}

// EventsHandler streams hub events to the caller as Server-Sent Events.
type EventsHandler struct {
	hub       Subscriber
	heartbeat time.Duration
	buffer    int
	log       zerolog.Logger
}

func NewEventsHandler(hub Subscriber, heartbeat time.Duration, buffer int, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:       hub,
		heartbeat: heartbeat,
		buffer:    buffer,
		log:       log.With().Str("component", "events").Logger(),
	}
}

// Stream holds the connection open until the client goes away or the hub
// shuts down. The first frame is always the welcome message.
//
// @Summary      Real-time notifications
// @Description  Server-Sent Events stream. EventSource clients may pass the access token as ?token=.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        token  query  string  false  "Access token"
// @Success      200
// @Failure      401  {object}  ErrorResponse
// @Router       /events [get]
func (h *EventsHandler) Stream(c echo.Context) error {
	sink := realtime.NewChannelSink(h.buffer)
	id, err := h.hub.Subscribe(sink)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer h.hub.Unsubscribe(id)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	h.log.Debug().Str("conn_id", id).Msg("stream opened")

	var tick <-chan time.Time
	if h.heartbeat > 0 {
		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Str("conn_id", id).Msg("stream closed by client")
			return nil
		case <-sink.Done():
			return nil
		case frame := <-sink.Frames():
			if _, err := res.Write(frame); err != nil {
				return nil
			}
			res.Flush()
		case <-tick:
			if _, err := res.Write([]byte(": ping\n\n")); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
