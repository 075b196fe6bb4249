package query

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/domain/llm"
	"github.com/rahul-004x/digger/internal/domain/retrieval"
	"github.com/rahul-004x/digger/internal/utils/platformerrors"
)

const (
	fallbackConversationName = "New conversation"
	titlePrompt              = "Summarize the following question into a short conversation title of at most six words. Reply with the title only, no quotes or punctuation around it."
)

// ResolveParams carries the input of a source resolution request.
type ResolveParams struct {
	OwnerID        string
	Question       string
	ConversationID *uuid.UUID
}

// Resolution is the outcome of resolving sources for a question.
type Resolution struct {
	Sources             []retrieval.Source
	ConversationID      uuid.UUID
	CreatedConversation bool
}

// ResolverConfig tunes the resolver.
type ResolverConfig struct {
	MaxResults int
	TitleModel string
}

// Resolver discovers sources for a question and anchors the question in a
// conversation before any retrieval work happens.
type Resolver struct {
	search retrieval.SearchProvider
	llm    llm.Provider
	convos conversation.Repository
	cfg    ResolverConfig
	log    zerolog.Logger
}

// NewResolver builds a source resolver.
func NewResolver(search retrieval.SearchProvider, provider llm.Provider, convos conversation.Repository, cfg ResolverConfig, log zerolog.Logger) *Resolver {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 6
	}
	return &Resolver{
		search: search,
		llm:    provider,
		convos: convos,
		cfg:    cfg,
		log:    log.With().Str("component", "resolver").Logger(),
	}
}

// ResolveSources finds candidate sources for the question. When no
// conversation ID is given a new conversation is created (titled by a
// best-effort LLM call) before anything else; the user's question is persisted
// before the search runs so history survives downstream failures. A failing or
// empty search degrades to an empty source list.
func (r *Resolver) ResolveSources(ctx context.Context, params ResolveParams) (*Resolution, error) {
	question := strings.TrimSpace(params.Question)
	if question == "" {
		return nil, platformerrors.NewError(
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"question must not be empty",
			nil,
			"resolve-empty-question",
		)
	}

	resolution := &Resolution{}

	if params.ConversationID == nil {
		name := r.nameConversation(ctx, question)
		conv := conversation.NewConversation(params.OwnerID, &name)
		if err := r.convos.CreateConversation(ctx, conv); err != nil {
			return nil, err
		}
		resolution.ConversationID = conv.ID
		resolution.CreatedConversation = true
	} else {
		conv, err := r.convos.GetOwnedConversation(ctx, *params.ConversationID, params.OwnerID)
		if err != nil {
			return nil, err
		}
		resolution.ConversationID = conv.ID
	}

	userMsg := conversation.NewMessage(resolution.ConversationID, conversation.RoleUser, question, nil)
	if err := r.convos.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	sources, err := r.search.Search(ctx, question, r.cfg.MaxResults)
	if err != nil {
		r.log.Warn().Err(err).Msg("search provider failed, continuing without sources")
		sources = nil
	}
	if len(sources) > r.cfg.MaxResults {
		sources = sources[:r.cfg.MaxResults]
	}
	resolution.Sources = sources

	return resolution, nil
}

// nameConversation asks the LLM for a short title. Any failure falls back to
// the default name immediately, without retrying.
func (r *Resolver) nameConversation(ctx context.Context, question string) string {
	titleCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := r.llm.CreateChatCompletion(titleCtx, llm.ChatCompletionRequest{
		Model: r.cfg.TitleModel,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: titlePrompt},
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		r.log.Warn().Err(err).Msg("conversation titling failed, using fallback name")
		return fallbackConversationName
	}
	if len(resp.Choices) == 0 {
		return fallbackConversationName
	}

	title := strings.TrimSpace(resp.Choices[0].Message.Content)
	if title == "" {
		return fallbackConversationName
	}
	return title
}
