// Package event defines the closed set of events emitted by the gateway.
// Each variant maps to exactly one outbound frame type on the wire.
package event

import (
	"time"

	"orbit-gateway/domain"

	"github.com/google/uuid"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

type MessagePosted struct {
	Message domain.Message
}

func (e MessagePosted) RoomID() domain.RoomID { return e.Message.Room }

type MessageUpdated struct {
	Message domain.Message
}

func (e MessageUpdated) RoomID() domain.RoomID { return e.Message.Room }

type MessageDeleted struct {
	Room      domain.RoomID
	MessageID uuid.UUID
}

func (e MessageDeleted) RoomID() domain.RoomID { return e.Room }

// NotificationPushed targets every live connection of one user,
// not a room member set.
type NotificationPushed struct {
	Notification domain.Notification
}

func (e NotificationPushed) RoomID() domain.RoomID {
	return domain.NotificationRoom(e.Notification.UserID)
}

// RoomStatus is an ephemeral observer event. It is never persisted.
type RoomStatus struct {
	Room   domain.RoomID
	UserID string
	Status string
	At     time.Time
}

func (e RoomStatus) RoomID() domain.RoomID { return e.Room }
