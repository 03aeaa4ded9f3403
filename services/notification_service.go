//go:generate go run go.uber.org/mock/mockgen -source=notification_service.go -destination=../mocks/mock_notification_service.go -package=mocks
package services

import (
	"fmt"
	"log/slog"
	"time"

	"orbit-gateway/domain"
	"orbit-gateway/domain/event"
	"orbit-gateway/errors"
	"orbit-gateway/repositories"

	"github.com/google/uuid"
)

// INotificationService persists notifications triggered by business actions
// and hands the resulting events to the dispatcher for fan-out.
type INotificationService interface {
	Notify(userID string, kind domain.NotificationType, content string, refs domain.Refs) (domain.Notification, error)
	NotifyRoomObservers(room domain.RoomID, userID, status string)
	DeleteNotification(id uuid.UUID, requesterID string) error
	ListFor(userID string, cursor *string, pageSize int) ([]domain.Notification, *string, error)
}

// EmitFunc hands an event to the dispatcher, the only component allowed to
// perform the actual send.
type EmitFunc func(e event.DomainEvent)

type NotificationService struct {
	log           *slog.Logger
	notifications repositories.INotificationRepository
	emit          EmitFunc
	maxPageSize   int
}

func NewNotificationService(log *slog.Logger, notifications repositories.INotificationRepository,
	emit EmitFunc, maxPageSize int) *NotificationService {
	return &NotificationService{
		log:           log,
		notifications: notifications,
		emit:          emit,
		maxPageSize:   maxPageSize,
	}
}

// Notify persists the record, then pushes it to every live connection of
// the target user. With zero live connections the notification simply
// stays durable for later retrieval. Persistence failure means no push.
func (s *NotificationService) Notify(userID string, kind domain.NotificationType,
	content string, refs domain.Refs) (domain.Notification, error) {
	if userID == "" || !kind.Valid() {
		return domain.Notification{}, errors.ErrInvalidEvent
	}

	notification := domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      kind,
		Content:   content,
		Refs:      refs,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.StoreNotification(notification); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	s.emit(event.NotificationPushed{Notification: notification})
	return notification, nil
}

// NotifyRoomObservers broadcasts an ephemeral status event to every member
// of a room. Nothing is persisted.
func (s *NotificationService) NotifyRoomObservers(room domain.RoomID, userID, status string) {
	s.emit(event.RoomStatus{
		Room:   room,
		UserID: userID,
		Status: status,
		At:     time.Now().UTC(),
	})
}

// DeleteNotification removes a stored notification. Only the target user
// may delete it.
func (s *NotificationService) DeleteNotification(id uuid.UUID, requesterID string) error {
	notification, err := s.notifications.GetNotificationByID(id)
	if err != nil {
		return persistence(err)
	}
	if notification.UserID != requesterID {
		return errors.ErrForbidden
	}
	return persistence(s.notifications.DeleteNotification(id))
}

// ListFor returns one newest-first page of a user's stored notifications.
func (s *NotificationService) ListFor(userID string, cursor *string,
	pageSize int) ([]domain.Notification, *string, error) {
	if pageSize <= 0 || pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	notifications, next, err := s.notifications.ListFor(userID, cursor, pageSize)
	if err != nil {
		return nil, nil, persistence(err)
	}
	return notifications, next, nil
}
