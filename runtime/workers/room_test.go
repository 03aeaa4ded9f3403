package workers

import (
	"context"
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
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRoomWorker_Send_Replies_And_Broadcasts(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pipeline := mocks.NewMockIChatService(ctrl)
	commands := make(chan domain.Command, 10)
	events := make(chan event.DomainEvent, 10)
	room := domain.RoomID("room-42")

	accepted := domain.Message{
		ID: uuid.New(), Room: room, SenderID: "alice", Content: "hello",
		CreatedAt: time.Now().UTC(),
	}
	pipeline.EXPECT().Send(gomock.Any()).Return(accepted, nil)

	worker := NewRoomWorker(room, pipeline, commands, events, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	done := make(chan domain.Reply, 1)
	commands <- domain.SendMessageCommand{
		Room: room, SenderID: "alice", Content: "hello", Done: done,
	}

	// The caller gets the accepted message back
	select {
	case reply := <-done:
		req.NoError(reply.Err)
		req.Equal(accepted, reply.Message)
	case <-time.After(time.Second):
		req.Fail("no reply from worker")
	}

	// And the broadcast event carries the same message
	select {
	case evt := <-events:
		posted, ok := evt.(event.MessagePosted)
		req.True(ok)
		req.Equal(accepted, posted.Message)
	case <-time.After(time.Second):
		req.Fail("no event emitted")
	}
}

func TestRoomWorker_Failure_Means_No_Broadcast(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pipeline := mocks.NewMockIChatService(ctrl)
	commands := make(chan domain.Command, 10)
	events := make(chan event.DomainEvent, 10)
	room := domain.RoomID("room-42")

	pipeline.EXPECT().Send(gomock.Any()).
		Return(domain.Message{}, fmt.Errorf("%w: disk full", errors.ErrPersistence))

	worker := NewRoomWorker(room, pipeline, commands, events, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	done := make(chan domain.Reply, 1)
	commands <- domain.SendMessageCommand{
		Room: room, SenderID: "alice", Content: "hello", Done: done,
	}

	select {
	case reply := <-done:
		req.ErrorIs(reply.Err, errors.ErrPersistence)
	case <-time.After(time.Second):
		req.Fail("no reply from worker")
	}

	// Observers never see the failed message
	select {
	case <-events:
		req.Fail("failed send must not be broadcast")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRoomWorker_Preserves_Command_Order(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pipeline := mocks.NewMockIChatService(ctrl)
	commands := make(chan domain.Command, 10)
	events := make(chan event.DomainEvent, 10)
	room := domain.RoomID("room-42")

	pipeline.EXPECT().Send(gomock.Any()).
		DoAndReturn(func(cmd domain.SendMessageCommand) (domain.Message, error) {
			return domain.Message{
				ID: uuid.New(), Room: room, SenderID: cmd.SenderID,
				Content: cmd.Content, CreatedAt: time.Now().UTC(),
			}, nil
		}).Times(3)

	worker := NewRoomWorker(room, pipeline, commands, events, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	for i := 1; i <= 3; i++ {
		commands <- domain.SendMessageCommand{
			Room: room, SenderID: "alice", Content: fmt.Sprintf("message %d", i),
		}
	}

	// Events come out in the exact order commands were enqueued
	for i := 1; i <= 3; i++ {
		select {
		case evt := <-events:
			posted := evt.(event.MessagePosted)
			req.Equal(fmt.Sprintf("message %d", i), posted.Message.Content)
		case <-time.After(time.Second):
			req.Fail("missing event")
		}
	}
}
