package conversation

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists conversations and their messages. Messages are
// append-only; nothing here updates an existing row.
type Repository interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	// GetOwnedConversation fetches a conversation scoped to its owner. A
	// conversation owned by someone else yields the same NOT_FOUND error as a
	// missing one.
	GetOwnedConversation(ctx context.Context, id uuid.UUID, ownerID string) (*Conversation, error)
	// ListConversations returns the owner's conversations newest-first.
	ListConversations(ctx context.Context, ownerID string) ([]*Conversation, error)
	// DeleteConversation removes an owned conversation; messages cascade.
	DeleteConversation(ctx context.Context, id uuid.UUID, ownerID string) error
	AppendMessage(ctx context.Context, msg *Message) error
	// ListMessages returns a conversation's messages oldest-first.
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*Message, error)
}
