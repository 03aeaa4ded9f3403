package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"orbit-gateway/domain"
	"orbit-gateway/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Store_And_List_Notifications_Newest_First(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewNotificationRepository(db, slog.Default())

	userID := uuid.NewString()
	now := time.Now().UTC()
	for i := 1; i <= 5; i++ {
		req.NoError(repo.StoreNotification(domain.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      domain.NotificationLike,
			Content:   fmt.Sprintf("like %d", i),
			Refs:      domain.Refs{ArticleID: lo.ToPtr(int64(i))},
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	// First page, newest first
	page1, cursor1, err := repo.ListFor(userID, nil, 3)
	req.NoError(err)
	req.Len(page1, 3)
	req.Equal("like 5", page1[0].Content)
	req.Equal("like 3", page1[2].Content)
	req.NotNil(cursor1)

	// Second page resumes after the cursor, no duplicates
	page2, _, err := repo.ListFor(userID, cursor1, 3)
	req.NoError(err)
	req.Len(page2, 2)
	req.Equal("like 2", page2[0].Content)
	req.Equal("like 1", page2[1].Content)
}

func Test_Notification_Paging_Across_Deleted_Cursor(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewNotificationRepository(db, slog.Default())

	userID := uuid.NewString()
	now := time.Now().UTC()
	notifications := make([]domain.Notification, 3)
	for i := range notifications {
		notifications[i] = domain.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      domain.NotificationLike,
			Content:   fmt.Sprintf("like %d", i+1),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		req.NoError(repo.StoreNotification(notifications[i]))
	}

	// Newest-first page of one ends on "like 3"
	page1, cursor, err := repo.ListFor(userID, nil, 1)
	req.NoError(err)
	req.Equal("like 3", page1[0].Content)
	req.NotNil(cursor)

	// Deleting the cursor entry must not swallow the next unseen one
	req.NoError(repo.DeleteNotification(notifications[2].ID))

	page2, _, err := repo.ListFor(userID, cursor, 1)
	req.NoError(err)
	req.Len(page2, 1)
	req.Equal("like 2", page2[0].Content)
}

func Test_Notifications_Are_Per_User(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewNotificationRepository(db, slog.Default())

	alice := uuid.NewString()
	bob := uuid.NewString()
	now := time.Now().UTC()

	req.NoError(repo.StoreNotification(domain.Notification{
		ID: uuid.New(), UserID: alice, Type: domain.NotificationFollow,
		Content: "for alice", CreatedAt: now,
	}))
	req.NoError(repo.StoreNotification(domain.Notification{
		ID: uuid.New(), UserID: bob, Type: domain.NotificationComment,
		Content: "for bob", CreatedAt: now,
	}))

	notifications, _, err := repo.ListFor(alice, nil, 10)
	req.NoError(err)
	req.Len(notifications, 1)
	req.Equal("for alice", notifications[0].Content)
}

func Test_Notification_Delete(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewNotificationRepository(db, slog.Default())

	notification := domain.Notification{
		ID:        uuid.New(),
		UserID:    uuid.NewString(),
		Type:      domain.NotificationReport,
		Content:   "reported",
		CreatedAt: time.Now().UTC(),
	}
	req.NoError(repo.StoreNotification(notification))

	found, err := repo.GetNotificationByID(notification.ID)
	req.NoError(err)
	req.Equal(notification.Content, found.Content)

	req.NoError(repo.DeleteNotification(notification.ID))
	_, err = repo.GetNotificationByID(notification.ID)
	req.ErrorIs(err, errors.ErrNotFound)
	req.ErrorIs(repo.DeleteNotification(notification.ID), errors.ErrNotFound)
}
