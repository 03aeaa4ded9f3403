// Package sink provides EventSink implementations owned by a single
// consumer, typically one websocket connection.
package sink

import (
	"context"

	"orbit-gateway/domain/event"
)

// ConnectionSink buffers events for one connection. The transport's write
// pump drains Events and serializes frames; nothing else may write to the
// socket.
type ConnectionSink struct {
	Events chan event.DomainEvent
}

func NewConnectionSink(bufferSize int) *ConnectionSink {
	return &ConnectionSink{Events: make(chan event.DomainEvent, bufferSize)}
}

// Consume enqueues an event for delivery. A full buffer means the consumer
// is too slow: the event is dropped rather than blocking the fan-out loop,
// which would stall delivery to every other connection.
func (s *ConnectionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
