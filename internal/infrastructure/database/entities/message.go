package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/domain/retrieval"
)

// Message is the database schema for conversation messages. Sources holds the
// exact source list an assistant answer was built from, as jsonb.
type Message struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID      `gorm:"type:uuid;index:idx_message_conversation;not null"`
	Role           string         `gorm:"type:varchar(16);not null"`
	Content        string         `gorm:"type:text;not null"`
	Sources        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts the database entity to the domain model.
func (m *Message) EtoD() (*conversation.Message, error) {
	var sources []retrieval.Source
	if len(m.Sources) > 0 {
		if err := json.Unmarshal(m.Sources, &sources); err != nil {
			return nil, fmt.Errorf("decode message sources: %w", err)
		}
	}
	return &conversation.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           conversation.Role(m.Role),
		Content:        m.Content,
		Sources:        sources,
		CreatedAt:      m.CreatedAt,
	}, nil
}

// NewSchemaMessage creates a database entity from the domain model.
func NewSchemaMessage(m *conversation.Message) (*Message, error) {
	entity := &Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
	if len(m.Sources) > 0 {
		raw, err := json.Marshal(m.Sources)
		if err != nil {
			return nil, fmt.Errorf("encode message sources: %w", err)
		}
		entity.Sources = datatypes.JSON(raw)
	}
	return entity, nil
}
