package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/message"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/realtime"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// MessageService delivers direct messages between friends
type MessageService struct {
	repos    postgres.RepositoryContainer
	notifier Notifier
	log      *log.Logger
}

// NewMessageService creates a new message service
func NewMessageService(repos postgres.RepositoryContainer, notifier Notifier) *MessageService {
	return &MessageService{
		repos:    repos,
		notifier: notifier,
		log:      logger.Service("message"),
	}
}

// SendMessageRequest is the body of a new message
type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// Send stores a message to a friend and pushes it to their open connections
func (s *MessageService) Send(ctx context.Context, senderID, recipientID uuid.UUID, req SendMessageRequest) (*message.Message, error) {
	m, err := message.NewMessage(senderID, recipientID, req.Body)
	if err != nil {
		return nil, validation.Invalid(err)
	}
	friends, err := s.repos.Friendships().AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, common.NewForbiddenError("you can only message your friends")
	}
	if err := s.repos.Messages().Create(ctx, m); err != nil {
		s.log.Error("Failed to store message", "sender_id", senderID, "recipient_id", recipientID, "error", err)
		return nil, err
	}

	delivered := s.notifier.SendToUser(recipientID, realtime.EventMessageNew, m)
	s.log.Debug("Message sent", "message_id", m.ID, "delivered", delivered)
	return m, nil
}

// Conversation returns one page of the messages exchanged by userID and otherID
func (s *MessageService) Conversation(ctx context.Context, userID, otherID uuid.UUID, params postgres.PaginationParams) (*postgres.PaginatedResult[*message.Message], error) {
	if userID == otherID {
		return nil, common.NewValidationError("a conversation needs two different users")
	}
	return s.repos.Messages().Conversation(ctx, userID, otherID, params)
}

// MarkRead marks every message from otherID to userID as read and returns how many changed
func (s *MessageService) MarkRead(ctx context.Context, userID, otherID uuid.UUID) (int64, error) {
	n, err := s.repos.Messages().MarkRead(ctx, userID, otherID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.notifier.SendToUser(otherID, realtime.EventMessageRead, map[string]any{"reader_id": userID, "count": n})
	}
	return n, nil
}

// UnreadCount is the number of unread messages addressed to userID
func (s *MessageService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repos.Messages().UnreadCount(ctx, userID)
}
