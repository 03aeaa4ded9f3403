package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a persisted chat event. Only its Content and Edited flag may
// change after creation, and only through an explicit update by its sender.
type Message struct {
	ID        uuid.UUID
	Room      RoomID
	SenderID  string
	Content   string
	CreatedAt time.Time
	Edited    bool
}

// Direction selects the iteration order of a history page.
type Direction string

const (
	NewestFirst Direction = "newest_first"
	OldestFirst Direction = "oldest_first"
)
