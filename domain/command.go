package domain

import (
	"github.com/google/uuid"
)

// Command is a mutating room operation funneled through the room's worker.
// All commands for one room are processed by a single goroutine, which is
// what gives a room its total message order.
type Command interface {
	RoomID() RoomID
}

// Reply carries the outcome of a command back to the issuing connection.
type Reply struct {
	Message Message
	Err     error
}

type SendMessageCommand struct {
	Room     RoomID
	SenderID string
	Content  string
	Done     chan Reply
}

func (c SendMessageCommand) RoomID() RoomID { return c.Room }

type UpdateMessageCommand struct {
	Room        RoomID
	MessageID   uuid.UUID
	RequesterID string
	Content     string
	Done        chan Reply
}

func (c UpdateMessageCommand) RoomID() RoomID { return c.Room }

type DeleteMessageCommand struct {
	Room        RoomID
	MessageID   uuid.UUID
	RequesterID string
	Done        chan Reply
}

func (c DeleteMessageCommand) RoomID() RoomID { return c.Room }
