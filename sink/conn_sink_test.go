package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"draw-lab/domain/event"
)

func TestConnSink_BuffersUntilDrained(t *testing.T) {
	req := require.New(t)
	s := NewConnSink(2)
	ctx := context.Background()

	req.NoError(s.Consume(ctx, event.Pong{TS: 1}))
	req.NoError(s.Consume(ctx, event.Pong{TS: 2}))

	first := <-s.Events()
	req.Equal(int64(1), first.(event.Pong).TS)
	second := <-s.Events()
	req.Equal(int64(2), second.(event.Pong).TS)
}

func TestConnSink_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	s := NewConnSink(1)
	ctx := context.Background()

	// Given a full buffer nobody drains
	req.NoError(s.Consume(ctx, event.Pong{TS: 1}))

	// When another event arrives
	err := s.Consume(ctx, event.Pong{TS: 2})

	// Then the producer is never blocked, the event is reported dropped
	req.Error(err)
	req.Equal(int64(1), (<-s.Events()).(event.Pong).TS)
}

func TestConnSink_CanceledContext(t *testing.T) {
	req := require.New(t)
	s := NewConnSink(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req.ErrorIs(s.Consume(ctx, event.Pong{TS: 1}), context.Canceled)
}
