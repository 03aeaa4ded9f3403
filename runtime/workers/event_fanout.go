package workers

import (
	"context"
	"log/slog"
	"time"

	"orbit-gateway/contract"
	"orbit-gateway/domain/event"
)

// EventFanout delivers domain events to their resolved target sinks.
// Room events go to the room's current member connections; notification
// events go to every live connection of the target user. Permanent sinks
// (projections, debug observers) receive everything.
//
// Delivery is sequential so every receiver observes events in the order
// they left the room workers; sinks are required to be non-blocking, and
// the per-sink timeout context is a safety net, not a scheduling tool.
type EventFanout struct {
	log            *slog.Logger
	registry       contract.IRegistry
	rooms          contract.IRooms
	events         chan event.DomainEvent
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry, rooms contract.IRooms,
	events chan event.DomainEvent, permanentSinks []contract.EventSink,
	sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		registry:       registry,
		rooms:          rooms,
		events:         events,
		permanentSinks: permanentSinks,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fan-out")
			return nil
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout resolves the target connections for one event and delivers to
// each. A connection unregistered between resolution and delivery has no
// sink anymore and is skipped silently.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.permanentSinks {
		w.deliver(ctx, sink, evt)
	}

	for _, connID := range w.targets(evt) {
		sink, ok := w.registry.SinkFor(connID)
		if !ok {
			continue
		}
		w.deliver(ctx, sink, evt)
	}
}

func (w *EventFanout) targets(evt event.DomainEvent) []string {
	switch e := evt.(type) {
	case event.NotificationPushed:
		// Once per live connection of the target user, multi-device included.
		return w.registry.ConnectionsFor(e.Notification.UserID)
	default:
		return w.rooms.MembersOf(evt.RoomID())
	}
}

func (w *EventFanout) deliver(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	deliveryCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(deliveryCtx, evt); err != nil {
		w.log.Debug("Sink delivery failed", "error", err)
	}
}
