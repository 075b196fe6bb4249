package handlers

// Provider aggregates the HTTP handlers wired into route registration.
type Provider struct {
	Query        *QueryHandler
	Conversation *ConversationHandler
}

// NewProvider builds the handler provider.
func NewProvider(query *QueryHandler, conversation *ConversationHandler) *Provider {
	return &Provider{
		Query:        query,
		Conversation: conversation,
	}
}
