package sink

import (
	"context"
	"fmt"

	"draw-lab/domain/event"
)

// ConnSink buffers outbound events for one connection. The write pump of the
// transport drains Events. Consume never blocks the room: a full buffer means
// the subscriber is too slow and the event is dropped with an error the caller
// can count.
type ConnSink struct {
	events chan event.DomainEvent
}

func NewConnSink(bufferSize int) *ConnSink {
	return &ConnSink{events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the gateway fan-out.
// It redirects the event to the owning connection's write pump.
func (s *ConnSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("sink buffer full, dropping %s", e.Kind())
	}
}

// Events exposes the drain side for the write pump.
func (s *ConnSink) Events() <-chan event.DomainEvent { return s.events }
