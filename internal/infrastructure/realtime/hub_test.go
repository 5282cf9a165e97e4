package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

type recordingSink struct {
	mu     sync.Mutex
	frames []string
	err    error
	closed bool
}

func (s *recordingSink) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, string(frame))
	return nil
}

func (s *recordingSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.frames...)
}

const welcomeFrame = "data: {\"message\":\"Welcome to real-time notifications!\"}\n\n"

func newClientEvent() domain.Event {
	return domain.Event{
		Type:    domain.EventNewClient,
		Payload: domain.NewClientPayload{Message: "Dana added a new client: Acme", ClientID: "c1"},
	}
}

func TestHub_SubscribeSendsWelcomeFirst(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	sink := &recordingSink{}

	id, err := hub.Subscribe(sink)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, hub.Count())

	hub.Broadcast(newClientEvent())

	frames := sink.snapshot()
	require.Len(t, frames, 2)
	assert.Equal(t, welcomeFrame, frames[0])
	assert.Equal(t,
		"data: {\"type\":\"NEW_CLIENT\",\"payload\":{\"message\":\"Dana added a new client: Acme\",\"clientId\":\"c1\"}}\n\n",
		frames[1])
}

func TestHub_FanOutIdenticalFrames(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	sinks := []*recordingSink{{}, {}, {}}
	for _, s := range sinks {
		_, err := hub.Subscribe(s)
		require.NoError(t, err)
	}

	hub.Broadcast(newClientEvent())

	want := sinks[0].snapshot()
	require.Len(t, want, 2)
	for _, s := range sinks[1:] {
		assert.Equal(t, want, s.snapshot())
	}
}

func TestHub_FailingSinkDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	bad := &recordingSink{}
	good := &recordingSink{}
	_, err := hub.Subscribe(bad)
	require.NoError(t, err)
	_, err = hub.Subscribe(good)
	require.NoError(t, err)

	bad.mu.Lock()
	bad.err = errors.New("broken pipe")
	bad.mu.Unlock()

	assert.NotPanics(t, func() { hub.Broadcast(newClientEvent()) })
	assert.Len(t, good.snapshot(), 2)
	assert.Len(t, bad.snapshot(), 1)
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	sink := &recordingSink{}
	id, err := hub.Subscribe(sink)
	require.NoError(t, err)

	hub.Unsubscribe(id)
	hub.Unsubscribe(id)
	hub.Unsubscribe("never-registered")

	assert.Equal(t, 0, hub.Count())
	assert.True(t, sink.closed)

	hub.Broadcast(newClientEvent())
	assert.Len(t, sink.snapshot(), 1, "removed sink must not receive broadcasts")
}

func TestHub_SubscribeFailsWhenWelcomeRejected(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	sink := &recordingSink{err: ErrSinkClosed}

	_, err := hub.Subscribe(sink)
	require.Error(t, err)
	assert.Equal(t, 0, hub.Count())
}

func TestHub_CloseClosesSinks(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	sink := NewChannelSink(4)
	_, err := hub.Subscribe(sink)
	require.NoError(t, err)

	hub.Close()

	select {
	case <-sink.Done():
	default:
		t.Fatal("expected sink to be closed")
	}
	assert.Equal(t, 0, hub.Count())

	_, err = hub.Subscribe(NewChannelSink(4))
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestHub_ConcurrentSubscribeDuringBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	const n = 50

	var wg sync.WaitGroup
	sinks := make([]*recordingSink, n)
	for i := range sinks {
		sinks[i] = &recordingSink{}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, s := range sinks {
			_, err := hub.Subscribe(s)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			hub.Broadcast(newClientEvent())
		}
	}()
	wg.Wait()

	assert.Equal(t, n, hub.Count())
	for _, s := range sinks {
		frames := s.snapshot()
		require.NotEmpty(t, frames)
		assert.Equal(t, welcomeFrame, frames[0])
	}
}

func TestChannelSink_DropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)

	require.NoError(t, sink.Send([]byte("a")))
	assert.ErrorIs(t, sink.Send([]byte("b")), ErrSlowConsumer)

	assert.Equal(t, "a", string(<-sink.Frames()))

	sink.Close()
	sink.Close()
	assert.ErrorIs(t, sink.Send([]byte("c")), ErrSinkClosed)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "slow_consumer", failureReason(ErrSlowConsumer))
	assert.Equal(t, "closed", failureReason(ErrSinkClosed))
	assert.Equal(t, "send_error", failureReason(errors.New("x")))
}
