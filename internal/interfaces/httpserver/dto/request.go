package dto

// ResolveSourcesRequest starts or continues a conversation with a new question.
// ConversationID is omitted for the first question.
type ResolveSourcesRequest struct {
	Question       string  `json:"question" binding:"required"`
	ConversationID *string `json:"conversation_id"`
}

// StreamAnswerRequest asks for a streamed answer grounded in the given
// sources. The source list is the one returned by the resolve step, echoed
// back so the answer cites exactly what the client displays.
type StreamAnswerRequest struct {
	Question       string          `json:"question" binding:"required"`
	ConversationID string          `json:"conversation_id" binding:"required"`
	Sources        []SourcePayload `json:"sources"`
}
