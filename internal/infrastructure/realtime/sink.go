package realtime

import (
	"errors"
	"sync"
)

var (
	// ErrSlowConsumer is returned when a connection's buffer is full and the
	// frame was dropped.
	ErrSlowConsumer = errors.New("realtime: slow consumer")
	// ErrSinkClosed is returned by Send after Close.
	ErrSinkClosed = errors.New("realtime: sink closed")
)

// Sink receives serialized frames for one connection.
type Sink interface {
	// Send hands frame to the connection without blocking.
	Send(frame []byte) error
	// Close releases the connection. It is safe to call more than once.
	Close()
}

// ChannelSink buffers frames for a streaming handler to drain.
type ChannelSink struct {
	frames chan []byte
	done   chan struct{}
	once   sync.Once
}

// NewChannelSink returns a sink that holds up to size undelivered frames.
func NewChannelSink(size int) *ChannelSink {
	if size < 1 {
		size = 1
	}
	return &ChannelSink{
		frames: make(chan []byte, size),
		done:   make(chan struct{}),
	}
}

// Send enqueues frame, dropping it with ErrSlowConsumer when the buffer is full.
func (s *ChannelSink) Send(frame []byte) error {
	select {
	case <-s.done:
		return ErrSinkClosed
	default:
	}

	select {
	case s.frames <- frame:
		return nil
	case <-s.done:
		return ErrSinkClosed
	default:
		return ErrSlowConsumer
	}
}

func (s *ChannelSink) Close() {
	s.once.Do(func() { close(s.done) })
}

// Frames yields queued frames in order.
func (s *ChannelSink) Frames() <-chan []byte { return s.frames }

// Done is closed once the sink is closed.
func (s *ChannelSink) Done() <-chan struct{} { return s.done }
