package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahul-004x/digger/internal/domain/conversation"
)

// Conversation is the database schema for conversations.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      *string   `gorm:"type:text"`
	OwnerID   string    `gorm:"type:varchar(64);index:idx_conversation_owner;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts the database entity to the domain model.
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:        c.ID,
		Name:      c.Name,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
	}
}

// NewSchemaConversation creates a database entity from the domain model.
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:        c.ID,
		Name:      c.Name,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
	}
}
