// Package domain contains core concepts of the realtime gateway.
// No runtime, network, or storage logic should be added here.
package domain

import "strings"

type RoomID string

type RoomKind string

const (
	RoomKindChat         RoomKind = "chat"
	RoomKindNotification RoomKind = "notification"
)

// notificationPrefix marks per-user private channels, e.g. "user:42".
const notificationPrefix = "user:"

// NotificationRoom returns the private channel id owned by a user.
func NotificationRoom(userID string) RoomID {
	return RoomID(notificationPrefix + userID)
}

// KindOf derives the room kind from its identifier.
func KindOf(id RoomID) RoomKind {
	if strings.HasPrefix(string(id), notificationPrefix) {
		return RoomKindNotification
	}
	return RoomKindChat
}

// OwnerOf returns the owning user of a notification room, or "" for chat rooms.
func OwnerOf(id RoomID) string {
	if KindOf(id) != RoomKindNotification {
		return ""
	}
	return strings.TrimPrefix(string(id), notificationPrefix)
}
