package service

import (
	"context"
	"errors"
	"time"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/internal/api/store"
	"github.com/quietwire/courier/pkg/idx"
)

var ErrSelfMessage = errors.New("self_message")

// conversationLimit caps how many messages a history fetch returns.
const conversationLimit = 200

// MessageService handles direct messages between users.
type MessageService struct {
	Store store.Store
}

// SendMessage records a message from sender to receiver. The receiver is
// looked up first so a bad recipient surfaces as ErrUserNotFound instead of
// a foreign key failure.
func (s *MessageService) SendMessage(ctx context.Context, sender, receiver idx.ID, body string) (domain.Message, error) {
	if sender == receiver {
		return domain.Message{}, ErrSelfMessage
	}

	if _, err := s.Store.Users().GetUserByID(ctx, receiver); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Message{}, ErrUserNotFound
		}
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:         idx.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Store.Messages().CreateMessage(ctx, msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// ListThreads returns the user's inbox: one entry per conversation partner.
func (s *MessageService) ListThreads(ctx context.Context, userID idx.ID) ([]domain.Thread, error) {
	return s.Store.Messages().ListThreads(ctx, userID)
}

// ListConversation returns the history with one peer, oldest first, capped
// at 200 messages.
func (s *MessageService) ListConversation(ctx context.Context, userID, peerID idx.ID) ([]domain.Message, error) {
	if _, err := s.Store.Users().GetUserByID(ctx, peerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Store.Messages().ListConversation(ctx, userID, peerID, conversationLimit)
}
