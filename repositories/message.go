//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"orbit-gateway/domain"
	"orbit-gateway/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetByID(id uuid.UUID) (domain.Message, error)
	UpdateMessage(message domain.Message) error
	DeleteMessage(id uuid.UUID) error
	GetMessages(room domain.RoomID, direction domain.Direction, cursor *string, limit int) ([]domain.Message, *string, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// messageRecord is the stored shape of a message.
type messageRecord struct {
	ID      string `json:"id"`
	Room    string `json:"room"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
	At      int64  `json:"at"`
	Edited  bool   `json:"edited,omitempty"`
}

// messageKey formats the primary key as "msg:{room}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func messageKey(room domain.RoomID, at time.Time, id uuid.UUID) []byte {
	return fmt.Appendf(nil, "msg:%s:%019d:%s", room, at.UnixNano(), id)
}

// messageIndexKey maps a message id to its primary key, so GetByID and
// DeleteMessage don't need the room and timestamp.
func messageIndexKey(id uuid.UUID) []byte {
	return fmt.Appendf(nil, "msgid:%s", id)
}

func messagePrefix(room domain.RoomID) []byte {
	return fmt.Appendf(nil, "msg:%s:", room)
}

// StoreMessage persists a message and its id index in a single transaction.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := messageKey(message.Room, message.CreatedAt, message.ID)
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		return txn.Set(messageIndexKey(message.ID), key)
	})
}

func (m MessageRepository) GetByID(id uuid.UUID) (domain.Message, error) {
	var record messageRecord
	err := m.db.View(func(txn *badger.Txn) error {
		key, err := resolveIndex(txn, messageIndexKey(id))
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
		return domain.Message{}, mapKeyNotFound(err)
	}
	return toMessage(record)
}

// UpdateMessage overwrites the stored content of an existing message.
// Id, room, sender and creation time are preserved, so the primary key
// computed from the message is stable.
func (m MessageRepository) UpdateMessage(message domain.Message) error {
	key := messageKey(message.Room, message.CreatedAt, message.ID)
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return mapKeyNotFound(err)
		}
		return txn.Set(key, bytes)
	})
}

// DeleteMessage permanently removes a message and its index entry.
func (m MessageRepository) DeleteMessage(id uuid.UUID) error {
	return m.db.Update(func(txn *badger.Txn) error {
		indexKey := messageIndexKey(id)
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

// GetMessages returns one finite page of a room's history using a prefix scan.
// Thanks to the padded timestamp in the key, iteration order is time order:
// reverse iteration yields newest-first, forward iteration oldest-first.
// The returned cursor restarts the scan on the next page; no storage handle
// is kept open between pages.
func (m MessageRepository) GetMessages(room domain.RoomID, direction domain.Direction,
	cursor *string, limit int) ([]domain.Message, *string, error) {
	var records []messageRecord
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(room)
		options := badger.DefaultIteratorOptions
		options.Reverse = direction == domain.NewestFirst
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := prefix
		if options.Reverse {
			// Past the last possible timestamp, then walk backwards.
			seekKey = append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		}
		if cursor != nil {
			seekKey = append(append([]byte{}, prefix...), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) &&
			string(it.Item().Key()[len(prefix):]) == *cursor {
			// The cursor points at the last delivered entry, skip it. When
			// that entry was deleted since, the seek already landed on the
			// next unseen one, which must not be skipped.
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(records) == limit {
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			var record messageRecord
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

	messages := make([]domain.Message, 0, len(records))
	for _, record := range records {
		message, err := toMessage(record)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}

// resolveIndex reads the primary key referenced by an index entry.
func resolveIndex(txn *badger.Txn, indexKey []byte) ([]byte, error) {
	item, err := txn.Get(indexKey)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func mapKeyNotFound(err error) error {
	if err == badger.ErrKeyNotFound {
		return errors.ErrNotFound
	}
	return err
}

func fromMessage(message domain.Message) messageRecord {
	return messageRecord{
		ID:      message.ID.String(),
		Room:    string(message.Room),
		Sender:  message.SenderID,
		Content: message.Content,
		At:      message.CreatedAt.UnixNano(),
		Edited:  message.Edited,
	}
}

func toMessage(record messageRecord) (domain.Message, error) {
	parsedID, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        parsedID,
		Room:      domain.RoomID(record.Room),
		SenderID:  record.Sender,
		Content:   record.Content,
		CreatedAt: time.Unix(0, record.At).UTC(),
		Edited:    record.Edited,
	}, nil
}
