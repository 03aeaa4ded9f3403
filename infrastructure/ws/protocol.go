package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"orbit-gateway/domain"
	"orbit-gateway/domain/event"
	"orbit-gateway/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Every frame on the wire is an Envelope; Type selects the payload variant.
// Inbound payloads are validated before reaching any component.
type Envelope struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound frame types.
const (
	TypeJoinRoom               = "join_room"
	TypeLeaveRoom              = "leave_room"
	TypeSendMessage            = "send_message"
	TypeUpdateMessage          = "update_message"
	TypeDeleteMessage          = "delete_message"
	TypeHistory                = "history"
	TypeSubscribeNotifications = "subscribe_notifications"
)

// Outbound frame types.
const (
	TypeRoomHistory      = "room_history"
	TypeNewMessage       = "new_message"
	TypeMessageUpdated   = "message_updated"
	TypeMessageDeleted   = "message_deleted"
	TypeNotification     = "notification"
	TypeNotificationList = "notification_list"
	TypeRoomStatus       = "room_status"
	TypeError            = "error"
)

var validate = validator.New()

type JoinRoomPayload struct {
	Room string `json:"room" validate:"required"`
}

type LeaveRoomPayload struct {
	Room string `json:"room" validate:"required"`
}

type SendMessagePayload struct {
	Room    string `json:"room" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type UpdateMessagePayload struct {
	MessageID string `json:"message_id" validate:"required,uuid"`
	Content   string `json:"content" validate:"required"`
}

type DeleteMessagePayload struct {
	MessageID string `json:"message_id" validate:"required,uuid"`
}

type HistoryPayload struct {
	Room      string  `json:"room" validate:"required"`
	Direction string  `json:"direction" validate:"omitempty,oneof=newest_first oldest_first"`
	Cursor    *string `json:"cursor"`
	PageSize  int     `json:"page_size" validate:"gte=0"`
}

// decode unmarshals and validates one inbound payload.
func decode[T any](raw json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errors.ErrInvalidEvent, err)
	}
	if err := validate.Struct(payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errors.ErrInvalidEvent, err)
	}
	return payload, nil
}

type MessageDTO struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Edited    bool      `json:"edited,omitempty"`
}

type NotificationDTO struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Type      string      `json:"type"`
	Content   string      `json:"content"`
	Refs      domain.Refs `json:"refs"`
	CreatedAt time.Time   `json:"created_at"`
}

type RoomHistoryPayload struct {
	Room     string       `json:"room"`
	Messages []MessageDTO `json:"messages"`
	Cursor   *string      `json:"cursor,omitempty"`
}

type MessageDeletedPayload struct {
	Room      string `json:"room"`
	MessageID string `json:"message_id"`
}

type NotificationListPayload struct {
	Notifications []NotificationDTO `json:"notifications"`
	Cursor        *string           `json:"cursor,omitempty"`
}

type RoomStatusPayload struct {
	Room   string    `json:"room"`
	UserID string    `json:"user_id"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toMessageDTO(message domain.Message) MessageDTO {
	return MessageDTO{
		ID:        message.ID.String(),
		Room:      string(message.Room),
		Sender:    message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
		Edited:    message.Edited,
	}
}

func toNotificationDTO(notification domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.ID.String(),
		UserID:    notification.UserID,
		Type:      string(notification.Type),
		Content:   notification.Content,
		Refs:      notification.Refs,
		CreatedAt: notification.CreatedAt,
	}
}

func frame(frameType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: frameType, Payload: raw})
}

// encodeEvent maps a domain event to its outbound frame. Events with no
// wire representation report ok=false and are skipped by the write pump.
func encodeEvent(e event.DomainEvent) ([]byte, bool, error) {
	switch evt := e.(type) {
	case event.MessagePosted:
		raw, err := frame(TypeNewMessage, toMessageDTO(evt.Message))
		return raw, true, err
	case event.MessageUpdated:
		raw, err := frame(TypeMessageUpdated, toMessageDTO(evt.Message))
		return raw, true, err
	case event.MessageDeleted:
		raw, err := frame(TypeMessageDeleted, MessageDeletedPayload{
			Room:      string(evt.Room),
			MessageID: evt.MessageID.String(),
		})
		return raw, true, err
	case event.NotificationPushed:
		raw, err := frame(TypeNotification, toNotificationDTO(evt.Notification))
		return raw, true, err
	case event.RoomStatus:
		raw, err := frame(TypeRoomStatus, RoomStatusPayload{
			Room:   string(evt.Room),
			UserID: evt.UserID,
			Status: evt.Status,
			At:     evt.At,
		})
		return raw, true, err
	case event.RoomHistory:
		raw, err := frame(TypeRoomHistory, RoomHistoryPayload{
			Room:     string(evt.Room),
			Messages: lo.Map(evt.Messages, func(m domain.Message, _ int) MessageDTO { return toMessageDTO(m) }),
			Cursor:   evt.Cursor,
		})
		return raw, true, err
	case event.NotificationList:
		raw, err := frame(TypeNotificationList, NotificationListPayload{
			Notifications: lo.Map(evt.Notifications, func(n domain.Notification, _ int) NotificationDTO { return toNotificationDTO(n) }),
			Cursor:        evt.Cursor,
		})
		return raw, true, err
	case event.Failure:
		raw, err := frame(TypeError, ErrorPayload{Code: evt.Code, Message: evt.Message})
		return raw, true, err
	default:
		return nil, false, nil
	}
}
