package dto

import (
	"time"

	conversationdomain "github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/domain/retrieval"
)

// SourcePayload is the wire form of a resolved source.
type SourcePayload struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ResolveSourcesResponse carries the resolved sources and the conversation
// they belong to.
type ResolveSourcesResponse struct {
	ConversationID      string          `json:"conversation_id"`
	CreatedConversation bool            `json:"created_conversation"`
	Sources             []SourcePayload `json:"sources"`
}

// ConversationResponse is the wire form of a conversation summary.
type ConversationResponse struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse is the wire form of a stored message.
type MessageResponse struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Sources   []SourcePayload `json:"sources,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ErrorResponse is the wire form of an error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromSources converts domain sources to their wire form. The result is never
// nil so clients always receive an array.
func FromSources(sources []retrieval.Source) []SourcePayload {
	out := make([]SourcePayload, 0, len(sources))
	for _, s := range sources {
		out = append(out, SourcePayload{Title: s.Title, URL: s.URL})
	}
	return out
}

// ToSources converts wire sources back to domain sources.
func ToSources(payloads []SourcePayload) []retrieval.Source {
	out := make([]retrieval.Source, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, retrieval.Source{Title: p.Title, URL: p.URL})
	}
	return out
}

// FromConversation converts a domain conversation to its wire form.
func FromConversation(c *conversationdomain.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

// FromMessage converts a domain message to its wire form.
func FromMessage(m *conversationdomain.Message) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID.String(),
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Sources) > 0 {
		resp.Sources = FromSources(m.Sources)
	}
	return resp
}
