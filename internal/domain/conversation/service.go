package conversation

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service exposes owner-scoped history operations for session restore and the
// sidebar.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService builds the conversation service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "conversation").Logger(),
	}
}

// List returns the owner's conversations newest-first.
func (s *Service) List(ctx context.Context, ownerID string) ([]*Conversation, error) {
	return s.repo.ListConversations(ctx, ownerID)
}

// ListMessages returns a conversation's messages in chronological order. The
// ownership check runs first so foreign conversations are indistinguishable
// from missing ones.
func (s *Service) ListMessages(ctx context.Context, conversationID uuid.UUID, ownerID string) ([]*Message, error) {
	if _, err := s.repo.GetOwnedConversation(ctx, conversationID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID)
}

// Delete removes an owned conversation and, by cascade, its messages.
func (s *Service) Delete(ctx context.Context, conversationID uuid.UUID, ownerID string) error {
	return s.repo.DeleteConversation(ctx, conversationID, ownerID)
}
