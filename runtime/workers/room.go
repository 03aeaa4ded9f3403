package workers

import (
	"context"
	"log/slog"

	"orbit-gateway/domain"
	"orbit-gateway/domain/event"
	"orbit-gateway/services"
)

// RoomWorker is the single sequential path for one room's mutating
// commands. Persistence and broadcast happen in the order commands were
// accepted, which is the room's total message order. A persistence failure
// is replied to the caller and nothing is broadcast.
type RoomWorker struct {
	room     domain.RoomID
	pipeline services.IChatService
	commands chan domain.Command
	events   chan event.DomainEvent
	log      *slog.Logger
}

func NewRoomWorker(room domain.RoomID, pipeline services.IChatService,
	commands chan domain.Command, events chan event.DomainEvent, log *slog.Logger) *RoomWorker {
	return &RoomWorker{room: room, pipeline: pipeline, commands: commands, events: events, log: log}
}

func (w *RoomWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping room worker", "room", w.room)
			return nil
		case cmd, ok := <-w.commands:
			if !ok {
				return nil
			}
			w.handle(ctx, cmd)
		}
	}
}

func (w *RoomWorker) handle(ctx context.Context, cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.SendMessageCommand:
		message, err := w.pipeline.Send(c)
		w.reply(c.Done, message, err)
		if err == nil {
			w.emit(ctx, event.MessagePosted{Message: message})
		}
	case domain.UpdateMessageCommand:
		message, err := w.pipeline.Update(c)
		w.reply(c.Done, message, err)
		if err == nil {
			w.emit(ctx, event.MessageUpdated{Message: message})
		}
	case domain.DeleteMessageCommand:
		message, err := w.pipeline.Delete(c)
		w.reply(c.Done, message, err)
		if err == nil {
			w.emit(ctx, event.MessageDeleted{Room: message.Room, MessageID: message.ID})
		}
	default:
		w.log.Warn("Unknown command dropped", "room", w.room)
	}
}

// reply never blocks: Done channels are buffered with capacity one and a
// departed caller just abandons its reply.
func (w *RoomWorker) reply(done chan domain.Reply, message domain.Message, err error) {
	if done == nil {
		return
	}
	select {
	case done <- domain.Reply{Message: message, Err: err}:
	default:
	}
}

func (w *RoomWorker) emit(ctx context.Context, e event.DomainEvent) {
	select {
	case <-ctx.Done():
	case w.events <- e:
	}
}
