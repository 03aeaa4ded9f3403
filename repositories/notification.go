//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"orbit-gateway/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type INotificationRepository interface {
	StoreNotification(notification domain.Notification) error
	GetNotificationByID(id uuid.UUID) (domain.Notification, error)
	DeleteNotification(id uuid.UUID) error
	ListFor(userID string, cursor *string, limit int) ([]domain.Notification, *string, error)
}

type NotificationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewNotificationRepository(db *badger.DB, log *slog.Logger) NotificationRepository {
	return NotificationRepository{db: db, log: log}
}

type notificationRecord struct {
	ID      string      `json:"id"`
	User    string      `json:"user"`
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Refs    domain.Refs `json:"refs"`
	At      int64       `json:"at"`
}

// Keys follow the message scheme: "ntf:{user}:{timestamp_padded}:{uuid}"
// keeps a user's notifications in time order, "ntfid:{uuid}" resolves an id
// to its primary key for deletion.
func notificationKey(userID string, at time.Time, id uuid.UUID) []byte {
	return fmt.Appendf(nil, "ntf:%s:%019d:%s", userID, at.UnixNano(), id)
}

func notificationIndexKey(id uuid.UUID) []byte {
	return fmt.Appendf(nil, "ntfid:%s", id)
}

func notificationPrefix(userID string) []byte {
	return fmt.Appendf(nil, "ntf:%s:", userID)
}

func (n NotificationRepository) StoreNotification(notification domain.Notification) error {
	key := notificationKey(notification.UserID, notification.CreatedAt, notification.ID)
	bytes, err := json.Marshal(fromNotification(notification))
	if err != nil {
		return err
	}
	return n.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		return txn.Set(notificationIndexKey(notification.ID), key)
	})
}

func (n NotificationRepository) GetNotificationByID(id uuid.UUID) (domain.Notification, error) {
	var record notificationRecord
	err := n.db.View(func(txn *badger.Txn) error {
		key, err := resolveIndex(txn, notificationIndexKey(id))
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return domain.Notification{}, mapKeyNotFound(err)
	}
	return toNotification(record)
}

func (n NotificationRepository) DeleteNotification(id uuid.UUID) error {
	return n.db.Update(func(txn *badger.Txn) error {
		indexKey := notificationIndexKey(id)
		key, err := resolveIndex(txn, indexKey)
		if err != nil {
			return mapKeyNotFound(err)
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(indexKey)
	})
}

// ListFor returns one newest-first page of a user's notifications.
func (n NotificationRepository) ListFor(userID string, cursor *string, limit int) ([]domain.Notification, *string, error) {
	var records []notificationRecord
	var lastKey string
	err := n.db.View(func(txn *badger.Txn) error {
		prefix := notificationPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		if cursor != nil {
			seekKey = append(append([]byte{}, prefix...), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) &&
			string(it.Item().Key()[len(prefix):]) == *cursor {
			// Skip the last delivered entry unless it was deleted since;
			// the seek then already sits on the next unseen one.
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(records) == limit {
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			var record notificationRecord
			err := item.Value(func(value []byte) error {
				return json.Unmarshal(value, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	notifications := make([]domain.Notification, 0, len(records))
	for _, record := range records {
		notification, err := toNotification(record)
		if err != nil {
			return nil, nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, &lastKey, nil
}

func fromNotification(notification domain.Notification) notificationRecord {
	return notificationRecord{
		ID:      notification.ID.String(),
		User:    notification.UserID,
		Type:    string(notification.Type),
		Content: notification.Content,
		Refs:    notification.Refs,
		At:      notification.CreatedAt.UnixNano(),
	}
}

func toNotification(record notificationRecord) (domain.Notification, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Notification{}, err
	}
	return domain.Notification{
		ID:        parsedID,
		UserID:    record.User,
		Type:      domain.NotificationType(record.Type),
		Content:   record.Content,
		Refs:      record.Refs,
		CreatedAt: time.Unix(0, record.At).UTC(),
	}, nil
}
