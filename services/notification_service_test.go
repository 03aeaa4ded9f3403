package services

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"orbit-gateway/domain"
	"orbit-gateway/domain/event"
	"orbit-gateway/errors"
	"orbit-gateway/mocks"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newNotificationService(t *testing.T) (*NotificationService, *mocks.MockINotificationRepository, *[]event.DomainEvent) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockINotificationRepository(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	var emitted []event.DomainEvent
	service := NewNotificationService(log, repo, func(e event.DomainEvent) {
		emitted = append(emitted, e)
	}, 100)
	return service, repo, &emitted
}

func TestNotificationService_Notify_Persists_Then_Pushes(t *testing.T) {
	req := require.New(t)
	service, repo, emitted := newNotificationService(t)
	userID := uuid.NewString()

	repo.EXPECT().StoreNotification(gomock.Any()).Return(nil)

	notification, err := service.Notify(userID, domain.NotificationComment,
		"Alice commented on your article", domain.Refs{ArticleID: lo.ToPtr(int64(7))})
	req.NoError(err)
	req.Equal(userID, notification.UserID)
	req.False(notification.CreatedAt.IsZero())

	// The push targets the user's private channel
	req.Len(*emitted, 1)
	pushed, ok := (*emitted)[0].(event.NotificationPushed)
	req.True(ok)
	req.Equal(notification, pushed.Notification)
	req.Equal(domain.NotificationRoom(userID), pushed.RoomID())
}

func TestNotificationService_Notify_Invalid_Event(t *testing.T) {
	req := require.New(t)
	service, _, emitted := newNotificationService(t)

	_, err := service.Notify("", domain.NotificationLike, "x", domain.Refs{})
	req.ErrorIs(err, errors.ErrInvalidEvent)

	_, err = service.Notify(uuid.NewString(), "SHOUTING", "x", domain.Refs{})
	req.ErrorIs(err, errors.ErrInvalidEvent)

	req.Empty(*emitted)
}

func TestNotificationService_Notify_Persistence_Failure_Means_No_Push(t *testing.T) {
	req := require.New(t)
	service, repo, emitted := newNotificationService(t)

	repo.EXPECT().StoreNotification(gomock.Any()).Return(fmt.Errorf("disk full"))

	_, err := service.Notify(uuid.NewString(), domain.NotificationLike, "x", domain.Refs{})
	req.ErrorIs(err, errors.ErrPersistence)
	req.Empty(*emitted)
}

func TestNotificationService_NotifyRoomObservers(t *testing.T) {
	req := require.New(t)
	service, _, emitted := newNotificationService(t)
	userID := uuid.NewString()

	service.NotifyRoomObservers("room-42", userID, "joined")

	req.Len(*emitted, 1)
	status, ok := (*emitted)[0].(event.RoomStatus)
	req.True(ok)
	req.Equal(domain.RoomID("room-42"), status.Room)
	req.Equal("joined", status.Status)
}

func TestNotificationService_Delete_Owner_Only(t *testing.T) {
	req := require.New(t)
	service, repo, _ := newNotificationService(t)
	userID := uuid.NewString()
	id := uuid.New()

	stored := domain.Notification{
		ID: id, UserID: userID, Type: domain.NotificationFollow,
		Content: "Bob follows you", CreatedAt: time.Now().UTC(),
	}

	repo.EXPECT().GetNotificationByID(id).Return(stored, nil)
	err := service.DeleteNotification(id, uuid.NewString())
	req.ErrorIs(err, errors.ErrForbidden)

	repo.EXPECT().GetNotificationByID(id).Return(stored, nil)
	repo.EXPECT().DeleteNotification(id).Return(nil)
	req.NoError(service.DeleteNotification(id, userID))
}

func TestNotificationService_ListFor_Clamps_Page_Size(t *testing.T) {
	req := require.New(t)
	service, repo, _ := newNotificationService(t)
	userID := uuid.NewString()

	repo.EXPECT().ListFor(userID, nil, 100).Return(nil, nil, nil)

	notifications, cursor, err := service.ListFor(userID, nil, 0)
	req.NoError(err)
	req.Empty(notifications)
	req.Nil(cursor)
}
