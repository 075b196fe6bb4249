package query

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/domain/llm"
	"github.com/rahul-004x/digger/internal/domain/retrieval"
)

// EventType discriminates stream events.
type EventType string

const (
	EventAnswer EventType = "answer"
	EventError  EventType = "error"
)

// StreamEvent is one element of the ordered answer stream: either a text token
// or a single terminal error.
type StreamEvent struct {
	Type EventType `json:"type"`
	Data string    `json:"data"`
}

// StreamParams carries the input of an answer streaming request.
type StreamParams struct {
	OwnerID        string
	Question       string
	Sources        []retrieval.Source
	ConversationID uuid.UUID
}

// StreamerConfig tunes answer generation.
type StreamerConfig struct {
	Model     string
	MaxTokens int
}

// Streamer assembles the retrieval context, streams the model's answer token
// by token, and persists the completed answer.
type Streamer struct {
	assembler *retrieval.Assembler
	llm       llm.Provider
	convos    conversation.Repository
	cfg       StreamerConfig
	log       zerolog.Logger
}

// NewStreamer builds an answer streamer.
func NewStreamer(assembler *retrieval.Assembler, provider llm.Provider, convos conversation.Repository, cfg StreamerConfig, log zerolog.Logger) *Streamer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Streamer{
		assembler: assembler,
		llm:       provider,
		convos:    convos,
		cfg:       cfg,
		log:       log.With().Str("component", "streamer").Logger(),
	}
}

// StreamAnswer opens a fresh completion stream and returns an ordered channel
// of events. Tokens are forwarded in arrival order; a provider failure yields
// exactly one error event and nothing is persisted. On clean exhaustion the
// accumulated answer is stored as an assistant message together with the exact
// source list, unless the model produced no text. The channel is closed when
// the stream ends either way.
func (s *Streamer) StreamAnswer(ctx context.Context, params StreamParams) (<-chan StreamEvent, error) {
	if _, err := s.convos.GetOwnedConversation(ctx, params.ConversationID, params.OwnerID); err != nil {
		return nil, err
	}

	systemPrompt := s.assembler.AssembleContext(ctx, params.Sources, params.Question)

	stream, err := s.llm.CreateChatCompletionStream(ctx, llm.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: params.Question},
		},
		MaxTokens: &s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	events := make(chan StreamEvent)
	go s.consume(ctx, stream, params, events)
	return events, nil
}

func (s *Streamer) consume(ctx context.Context, stream llm.Stream, params StreamParams, events chan<- StreamEvent) {
	defer close(events)
	defer stream.Close()

	var answer strings.Builder
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				// Caller went away; nothing to report and nothing to persist.
				return
			}
			s.log.Error().Err(err).Msg("answer stream failed")
			s.emit(ctx, events, StreamEvent{Type: EventError, Data: err.Error()})
			return
		}

		token := delta.Text()
		if token == "" {
			continue
		}
		answer.WriteString(token)
		if !s.emit(ctx, events, StreamEvent{Type: EventAnswer, Data: token}) {
			return
		}
	}

	if answer.Len() == 0 || ctx.Err() != nil {
		return
	}

	msg := conversation.NewMessage(params.ConversationID, conversation.RoleAssistant, answer.String(), params.Sources)
	if err := s.convos.AppendMessage(ctx, msg); err != nil {
		s.log.Error().Err(err).Msg("persist assistant message failed")
		s.emit(ctx, events, StreamEvent{Type: EventError, Data: "failed to save answer"})
	}
}

func (s *Streamer) emit(ctx context.Context, events chan<- StreamEvent, event StreamEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
