package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"orbit-gateway/domain"
	"orbit-gateway/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Store_And_Get_Sorted_Messages(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default())
	room := domain.RoomID("room-42")
	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	messages := []domain.Message{
		{ID: uuid.New(), Room: room, SenderID: "Alice", Content: content, CreatedAt: at},
		{ID: uuid.New(), Room: room, SenderID: "Bob", Content: content, CreatedAt: at.Add(1 * time.Minute)},
		{ID: uuid.New(), Room: room, SenderID: "Clara", Content: content, CreatedAt: at.Add(2 * time.Minute)},
	}
	for _, message := range messages {
		req.NoError(repository.StoreMessage(message))
	}

	// When fetching newest-first
	fetched, _, err := repository.GetMessages(room, domain.NewestFirst, nil, 10)
	req.NoError(err)

	// Then the key layout yields reverse chronological order
	req.Len(fetched, 3)
	req.Equal("Clara", fetched[0].SenderID)
	req.Equal("Alice", fetched[2].SenderID)

	// And oldest-first walks the same keys forward
	fetched, _, err = repository.GetMessages(room, domain.OldestFirst, nil, 10)
	req.NoError(err)
	req.Equal("Alice", fetched[0].SenderID)
	req.Equal("Clara", fetched[2].SenderID)
}

func Test_MessageRepository_Pagination(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repo := NewMessageRepository(db, slog.Default())
	room := domain.RoomID("room-42")
	now := time.Now().UTC()

	for i := 1; i <= 10; i++ {
		req.NoError(repo.StoreMessage(domain.Message{
			ID:        uuid.New(),
			Room:      room,
			SenderID:  fmt.Sprintf("user_%d", i),
			Content:   fmt.Sprintf("Message %d", i),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	// --- PAGE 1 ---
	msgs1, cursor1, err := repo.GetMessages(room, domain.NewestFirst, nil, 4)
	req.NoError(err)
	req.Len(msgs1, 4)
	req.Equal("user_10", msgs1[0].SenderID)
	req.Equal("user_7", msgs1[3].SenderID)
	req.NotNil(cursor1)

	// --- PAGE 2 ---
	msgs2, cursor2, err := repo.GetMessages(room, domain.NewestFirst, cursor1, 4)
	req.NoError(err)
	req.Len(msgs2, 4)
	// No duplicate across the page boundary
	req.Equal("user_6", msgs2[0].SenderID)
	req.Equal("user_3", msgs2[3].SenderID)
	req.NotNil(cursor2)

	// --- PAGE 3 (end) ---
	msgs3, cursor3, err := repo.GetMessages(room, domain.NewestFirst, cursor2, 4)
	req.NoError(err)
	req.Len(msgs3, 2)
	req.Equal("user_2", msgs3[0].SenderID)
	req.Equal("user_1", msgs3[1].SenderID)

	// Past the last entry there is nothing left
	msgs4, cursor4, err := repo.GetMessages(room, domain.NewestFirst, cursor3, 4)
	req.NoError(err)
	req.Empty(msgs4)
	req.Nil(cursor4)
}

func Test_MessageRepository_Pagination_Across_Deleted_Cursor(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewMessageRepository(db, slog.Default())
	room := domain.RoomID("room-42")
	now := time.Now().UTC()

	messages := make([]domain.Message, 3)
	for i := range messages {
		messages[i] = domain.Message{
			ID:        uuid.New(),
			Room:      room,
			SenderID:  "Alice",
			Content:   fmt.Sprintf("Message %d", i+1),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		req.NoError(repo.StoreMessage(messages[i]))
	}

	// Page 1 newest-first ends on message 3
	page1, cursor, err := repo.GetMessages(room, domain.NewestFirst, nil, 1)
	req.NoError(err)
	req.Equal("Message 3", page1[0].Content)
	req.NotNil(cursor)

	// The cursor entry is deleted before the next page is requested
	req.NoError(repo.DeleteMessage(messages[2].ID))

	// Page 2 resumes at message 2, nothing is skipped
	page2, _, err := repo.GetMessages(room, domain.NewestFirst, cursor, 1)
	req.NoError(err)
	req.Len(page2, 1)
	req.Equal("Message 2", page2[0].Content)

	// Same contract walking oldest-first
	page1, cursor, err = repo.GetMessages(room, domain.OldestFirst, nil, 1)
	req.NoError(err)
	req.Equal("Message 1", page1[0].Content)
	req.NoError(repo.DeleteMessage(messages[0].ID))

	page2, _, err = repo.GetMessages(room, domain.OldestFirst, cursor, 1)
	req.NoError(err)
	req.Len(page2, 1)
	req.Equal("Message 2", page2[0].Content)
}

func Test_MessageRepository_Rooms_Are_Isolated(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewMessageRepository(db, slog.Default())
	now := time.Now().UTC()

	req.NoError(repo.StoreMessage(domain.Message{
		ID: uuid.New(), Room: "room-1", SenderID: "Alice", Content: "hello", CreatedAt: now,
	}))
	req.NoError(repo.StoreMessage(domain.Message{
		ID: uuid.New(), Room: "room-2", SenderID: "Bob", Content: "hi", CreatedAt: now,
	}))

	fetched, _, err := repo.GetMessages("room-1", domain.NewestFirst, nil, 10)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("Alice", fetched[0].SenderID)
}

func Test_MessageRepository_GetByID_Update_Delete(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewMessageRepository(db, slog.Default())

	message := domain.Message{
		ID:        uuid.New(),
		Room:      "room-42",
		SenderID:  "Alice",
		Content:   "original",
		CreatedAt: time.Now().UTC(),
	}
	req.NoError(repo.StoreMessage(message))

	// The id index resolves without room or timestamp
	found, err := repo.GetByID(message.ID)
	req.NoError(err)
	req.Equal(message.Content, found.Content)

	// Update keeps identity and creation time, rewrites content
	found.Content = "edited"
	found.Edited = true
	req.NoError(repo.UpdateMessage(found))
	updated, err := repo.GetByID(message.ID)
	req.NoError(err)
	req.Equal("edited", updated.Content)
	req.True(updated.Edited)
	req.Equal(message.CreatedAt.UnixNano(), updated.CreatedAt.UnixNano())

	// Delete removes both the record and its index
	req.NoError(repo.DeleteMessage(message.ID))
	_, err = repo.GetByID(message.ID)
	req.ErrorIs(err, errors.ErrNotFound)
	req.ErrorIs(repo.DeleteMessage(message.ID), errors.ErrNotFound)
}
