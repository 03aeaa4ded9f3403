// Package projection builds local read models from observed events.
// It never emits events or touches the transport.
package projection

import (
	"context"
	"sync"

	"orbit-gateway/domain"
	"orbit-gateway/domain/event"

	"github.com/google/uuid"
)

// Timeline keeps the most recent messages per room. It is a permanent
// fan-out sink used by the debug endpoints and by tests observing broadcast
// order without a live connection.
type Timeline struct {
	mu    sync.RWMutex
	limit int
	rooms map[domain.RoomID][]domain.Message
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{limit: limit, rooms: make(map[domain.RoomID][]domain.Message)}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		t.append(evt.Message)
	case event.MessageUpdated:
		t.replace(evt.Message)
	case event.MessageDeleted:
		t.remove(evt.Room, evt.MessageID)
	}
	return nil
}

// Messages returns the room's retained messages, oldest first.
func (t *Timeline) Messages(room domain.RoomID) []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	messages := make([]domain.Message, len(t.rooms[room]))
	copy(messages, t.rooms[room])
	return messages
}

func (t *Timeline) append(message domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	messages := append(t.rooms[message.Room], message)
	if len(messages) > t.limit {
		messages = messages[len(messages)-t.limit:]
	}
	t.rooms[message.Room] = messages
}

func (t *Timeline) replace(message domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, m := range t.rooms[message.Room] {
		if m.ID == message.ID {
			t.rooms[message.Room][i] = message
			return
		}
	}
}

func (t *Timeline) remove(room domain.RoomID, id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	messages := t.rooms[room]
	for i, m := range messages {
		if m.ID == id {
			t.rooms[room] = append(messages[:i], messages[i+1:]...)
			return
		}
	}
}
