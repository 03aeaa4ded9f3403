package projection

import (
	"context"
	"testing"
	"time"

	"orbit-gateway/domain"
	"orbit-gateway/domain/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTimeline_Consume_MessagePosted(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(100)
	ctx := context.Background()
	room := domain.RoomID("room-42")

	evt1 := event.MessagePosted{Message: domain.Message{
		ID: uuid.New(), Room: room, SenderID: "Alice", Content: "Hello Bob",
		CreatedAt: time.Now(),
	}}
	evt2 := event.MessagePosted{Message: domain.Message{
		ID: uuid.New(), Room: room, SenderID: "Clara", Content: "Hi Bob",
		CreatedAt: time.Now().Add(time.Second),
	}}

	req.NoError(timeline.Consume(ctx, evt1))
	req.NoError(timeline.Consume(ctx, evt2))

	messages := timeline.Messages(room)
	req.Len(messages, 2)
	req.Equal("Alice", messages[0].SenderID)
	req.Equal("Clara", messages[1].SenderID)
}

func TestTimeline_Update_And_Delete(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(100)
	ctx := context.Background()
	room := domain.RoomID("room-42")

	message := domain.Message{
		ID: uuid.New(), Room: room, SenderID: "Alice", Content: "draft",
	}
	req.NoError(timeline.Consume(ctx, event.MessagePosted{Message: message}))

	message.Content = "final"
	message.Edited = true
	req.NoError(timeline.Consume(ctx, event.MessageUpdated{Message: message}))
	req.Equal("final", timeline.Messages(room)[0].Content)

	req.NoError(timeline.Consume(ctx, event.MessageDeleted{Room: room, MessageID: message.ID}))
	req.Empty(timeline.Messages(room))
}

func TestTimeline_Retention_Limit(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(3)
	ctx := context.Background()
	room := domain.RoomID("room-42")

	for i := 0; i < 5; i++ {
		req.NoError(timeline.Consume(ctx, event.MessagePosted{Message: domain.Message{
			ID: uuid.New(), Room: room, SenderID: "Alice",
			Content: string(rune('a' + i)),
		}}))
	}

	// Only the 3 most recent messages survive
	messages := timeline.Messages(room)
	req.Len(messages, 3)
	req.Equal("c", messages[0].Content)
	req.Equal("e", messages[2].Content)
}
