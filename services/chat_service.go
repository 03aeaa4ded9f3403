//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orbit-gateway/contract"
	"orbit-gateway/domain"
	"orbit-gateway/errors"
	"orbit-gateway/moderation"
	"orbit-gateway/repositories"

	"github.com/google/uuid"
)

// IChatService is the message pipeline: it validates, censors, and persists
// room messages, and serves history pages. It returns data for broadcast
// and never pushes bytes itself. Mutating calls for one room must be
// funneled through that room's worker to keep a total order.
type IChatService interface {
	Send(cmd domain.SendMessageCommand) (domain.Message, error)
	Update(cmd domain.UpdateMessageCommand) (domain.Message, error)
	Delete(cmd domain.DeleteMessageCommand) (domain.Message, error)
	History(room domain.RoomID, direction domain.Direction, cursor *string, pageSize int) ([]domain.Message, *string, error)
	FindMessage(id uuid.UUID) (domain.Message, error)
}

type ChatService struct {
	log         *slog.Logger
	messages    repositories.IMessageRepository
	directory   contract.IDirectory
	moderator   *moderation.Moderator
	maxPageSize int
}

func NewChatService(log *slog.Logger, messages repositories.IMessageRepository,
	directory contract.IDirectory, moderator *moderation.Moderator, maxPageSize int) *ChatService {
	return &ChatService{
		log:         log,
		messages:    messages,
		directory:   directory,
		moderator:   moderator,
		maxPageSize: maxPageSize,
	}
}

// Send validates and persists a new message, then returns it for broadcast.
// The creation timestamp is assigned here, on the room worker's goroutine,
// so storage order always matches the order commands were accepted.
func (s *ChatService) Send(cmd domain.SendMessageCommand) (domain.Message, error) {
	if strings.TrimSpace(cmd.Content) == "" {
		return domain.Message{}, errors.ErrEmptyContent
	}
	if _, err := s.directory.LookupUser(cmd.SenderID); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			return domain.Message{}, fmt.Errorf("%w: unknown sender", errors.ErrNotFound)
		}
		return domain.Message{}, persistence(err)
	}

	message := domain.Message{
		ID:        uuid.New(),
		Room:      cmd.Room,
		SenderID:  cmd.SenderID,
		Content:   s.moderator.Censor(cmd.Content),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.StoreMessage(message); err != nil {
		return domain.Message{}, persistence(err)
	}
	return message, nil
}

// Update rewrites the content of an existing message. Only the original
// sender may update; id, room, sender, and creation time are preserved.
func (s *ChatService) Update(cmd domain.UpdateMessageCommand) (domain.Message, error) {
	if strings.TrimSpace(cmd.Content) == "" {
		return domain.Message{}, errors.ErrEmptyContent
	}

	message, err := s.messages.GetByID(cmd.MessageID)
	if err != nil {
		return domain.Message{}, persistence(err)
	}
	if message.SenderID != cmd.RequesterID {
		return domain.Message{}, errors.ErrForbidden
	}

	message.Content = s.moderator.Censor(cmd.Content)
	message.Edited = true
	if err := s.messages.UpdateMessage(message); err != nil {
		return domain.Message{}, persistence(err)
	}
	return message, nil
}

// Delete permanently removes a message after the ownership check and
// returns the deleted record for broadcast confirmation to observers.
func (s *ChatService) Delete(cmd domain.DeleteMessageCommand) (domain.Message, error) {
	message, err := s.messages.GetByID(cmd.MessageID)
	if err != nil {
		return domain.Message{}, persistence(err)
	}
	if message.SenderID != cmd.RequesterID {
		return domain.Message{}, errors.ErrForbidden
	}

	if err := s.messages.DeleteMessage(cmd.MessageID); err != nil {
		return domain.Message{}, persistence(err)
	}
	return message, nil
}

// History returns one finite, restartable page of a room's messages.
func (s *ChatService) History(room domain.RoomID, direction domain.Direction,
	cursor *string, pageSize int) ([]domain.Message, *string, error) {
	if pageSize <= 0 || pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	if direction != domain.OldestFirst {
		direction = domain.NewestFirst
	}
	messages, next, err := s.messages.GetMessages(room, direction, cursor, pageSize)
	if err != nil {
		return nil, nil, persistence(err)
	}
	return messages, next, nil
}

func (s *ChatService) FindMessage(id uuid.UUID) (domain.Message, error) {
	message, err := s.messages.GetByID(id)
	if err != nil {
		return domain.Message{}, persistence(err)
	}
	return message, nil
}

// persistence classifies storage failures, letting not-found pass through.
func persistence(err error) error {
	if err == nil || stderrors.Is(err, errors.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
}
