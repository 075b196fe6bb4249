package query

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/domain/llm"
	"github.com/rahul-004x/digger/internal/domain/retrieval"
	"github.com/rahul-004x/digger/internal/utils/platformerrors"
)

// memoryRepo is an in-memory conversation.Repository recording call order so
// tests can assert sequencing.
type memoryRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*conversation.Conversation
	messages      []*conversation.Message
	calls         []string
	appendErr     error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{conversations: make(map[uuid.UUID]*conversation.Conversation)}
}

func (r *memoryRepo) record(call string) {
	r.calls = append(r.calls, call)
}

func (r *memoryRepo) CreateConversation(ctx context.Context, conv *conversation.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("create")
	copied := *conv
	r.conversations[conv.ID] = &copied
	return nil
}

func (r *memoryRepo) GetOwnedConversation(ctx context.Context, id uuid.UUID, ownerID string) (*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("get")
	conv, ok := r.conversations[id]
	if !ok || conv.OwnerID != ownerID {
		return nil, platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"conversation not found",
			nil,
			"conversation-not-found",
		)
	}
	return conv, nil
}

func (r *memoryRepo) ListConversations(ctx context.Context, ownerID string) ([]*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*conversation.Conversation
	for _, conv := range r.conversations {
		if conv.OwnerID == ownerID {
			out = append(out, conv)
		}
	}
	return out, nil
}

func (r *memoryRepo) DeleteConversation(ctx context.Context, id uuid.UUID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok || conv.OwnerID != ownerID {
		return platformerrors.NewError(
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"conversation not found",
			nil,
			"conversation-not-found",
		)
	}
	delete(r.conversations, id)
	return nil
}

func (r *memoryRepo) AppendMessage(ctx context.Context, msg *conversation.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("append")
	if r.appendErr != nil {
		return r.appendErr
	}
	copied := *msg
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *memoryRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*conversation.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*conversation.Message
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (r *memoryRepo) snapshotCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *memoryRepo) snapshotMessages() []*conversation.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*conversation.Message(nil), r.messages...)
}

// fakeSearch is a scripted retrieval.SearchProvider.
type fakeSearch struct {
	sources  []retrieval.Source
	err      error
	gotQuery string
	gotMax   int
	onSearch func()
}

func (f *fakeSearch) Search(ctx context.Context, query string, maxResults int) ([]retrieval.Source, error) {
	f.gotQuery = query
	f.gotMax = maxResults
	if f.onSearch != nil {
		f.onSearch()
	}
	return f.sources, f.err
}

// fakeLLM is a scripted llm.Provider. Completion serves titling; the stream
// replays scripted chunks.
type fakeLLM struct {
	title     string
	titleErr  error
	stream    *fakeStream
	streamErr error
	gotReq    llm.ChatCompletionRequest
}

func (f *fakeLLM) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	if f.titleErr != nil {
		return nil, f.titleErr
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.ChatCompletionChoice{
			{Message: llm.ChatMessage{Role: "assistant", Content: f.title}},
		},
	}, nil
}

func (f *fakeLLM) CreateChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	f.gotReq = req
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return f.stream, nil
}

// fakeStream replays tokens and then a terminal outcome.
type fakeStream struct {
	tokens   []string
	finalErr error
	pos      int
	closed   bool
}

func newFakeStream(tokens []string, finalErr error) *fakeStream {
	if finalErr == nil {
		finalErr = io.EOF
	}
	return &fakeStream{tokens: tokens, finalErr: finalErr}
}

func (s *fakeStream) Recv() (*llm.ChatCompletionDelta, error) {
	if s.pos >= len(s.tokens) {
		return nil, s.finalErr
	}
	token := s.tokens[s.pos]
	s.pos++
	return &llm.ChatCompletionDelta{
		Choices: []llm.ChatCompletionDeltaChoice{
			{Delta: llm.ChatMessage{Content: token}},
		},
	}, nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

var errProviderDown = errors.New("provider connection reset")
