package event

import "orbit-gateway/domain"

// Direct events are addressed to a single connection's sink rather than
// fanned out. They exist so request replies share the one writer path
// that every other frame uses.

type RoomHistory struct {
	Room     domain.RoomID
	Messages []domain.Message
	Cursor   *string
}

func (e RoomHistory) RoomID() domain.RoomID { return e.Room }

type NotificationList struct {
	UserID        string
	Notifications []domain.Notification
	Cursor        *string
}

func (e NotificationList) RoomID() domain.RoomID {
	return domain.NotificationRoom(e.UserID)
}

// Failure carries a stable reason code back to the caller.
// The connection stays open after a failure.
type Failure struct {
	Code    string
	Message string
}

func (e Failure) RoomID() domain.RoomID { return "" }
