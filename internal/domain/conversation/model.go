package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahul-004x/digger/internal/domain/retrieval"
)

// Role indicates who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Conversation is a chat thread owned by a single user. Name is filled by a
// best-effort titling call and may be nil.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	Name      *string   `json:"name,omitempty"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one turn in a conversation. Sources on an assistant message is
// the exact source list the answer was built from; nil everywhere else.
type Message struct {
	ID             uuid.UUID          `json:"id"`
	ConversationID uuid.UUID          `json:"conversation_id"`
	Role           Role               `json:"role"`
	Content        string             `json:"content"`
	Sources        []retrieval.Source `json:"sources,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// NewConversation creates a conversation with a server-generated ID.
func NewConversation(ownerID string, name *string) *Conversation {
	return &Conversation{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
}

// NewMessage creates a message with a server-generated ID.
func NewMessage(conversationID uuid.UUID, role Role, content string, sources []retrieval.Source) *Message {
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Sources:        sources,
		CreatedAt:      time.Now(),
	}
}
