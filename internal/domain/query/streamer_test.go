package query

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/domain/retrieval"
	"github.com/rahul-004x/digger/internal/utils/platformerrors"
)

func newTestStreamer(provider *fakeLLM, repo *memoryRepo) *Streamer {
	assembler := retrieval.NewAssembler(&staticExtractor{}, zerolog.Nop())
	return NewStreamer(assembler, provider, repo, StreamerConfig{Model: "answer-model", MaxTokens: 256}, zerolog.Nop())
}

type staticExtractor struct{}

func (staticExtractor) Extract(ctx context.Context, url string) retrieval.ExtractedContent {
	return retrieval.ExtractedContent{SourceURL: url, Text: "text", Succeeded: true}
}

func ownedConversation(repo *memoryRepo, owner string) *conversation.Conversation {
	conv := conversation.NewConversation(owner, nil)
	repo.conversations[conv.ID] = conv
	return conv
}

func collect(t *testing.T, events <-chan StreamEvent) []StreamEvent {
	t.Helper()
	var out []StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, event)
		case <-timeout:
			t.Fatal("stream did not terminate")
		}
	}
}

func TestStreamAnswerDeliversTokensInOrder(t *testing.T) {
	repo := newMemoryRepo()
	conv := ownedConversation(repo, "user-1")
	stream := newFakeStream([]string{"Hello", " ", "world"}, nil)
	provider := &fakeLLM{stream: stream}
	sources := []retrieval.Source{{Title: "t", URL: "https://example.com"}}

	events, err := newTestStreamer(provider, repo).StreamAnswer(context.Background(), StreamParams{
		OwnerID:        "user-1",
		Question:       "q",
		Sources:        sources,
		ConversationID: conv.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, events)
	want := []string{"Hello", " ", "world"}
	if len(got) != len(want) {
		t.Fatalf("events = %d, want %d: %+v", len(got), len(want), got)
	}
	for i, event := range got {
		if event.Type != EventAnswer || event.Data != want[i] {
			t.Errorf("event %d = %+v, want answer %q", i, event, want[i])
		}
	}
	if !stream.closed {
		t.Error("stream was not closed")
	}

	messages := repo.snapshotMessages()
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want the persisted answer", len(messages))
	}
	msg := messages[0]
	if msg.Role != conversation.RoleAssistant {
		t.Errorf("role = %q", msg.Role)
	}
	if msg.Content != "Hello world" {
		t.Errorf("content = %q", msg.Content)
	}
	if len(msg.Sources) != 1 || msg.Sources[0].URL != "https://example.com" {
		t.Errorf("sources not persisted with the answer: %+v", msg.Sources)
	}
}

func TestStreamAnswerProviderFailureMidStream(t *testing.T) {
	repo := newMemoryRepo()
	conv := ownedConversation(repo, "user-1")
	provider := &fakeLLM{stream: newFakeStream([]string{"a", "b", "c"}, errProviderDown)}

	events, err := newTestStreamer(provider, repo).StreamAnswer(context.Background(), StreamParams{
		OwnerID:        "user-1",
		Question:       "q",
		ConversationID: conv.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, events)
	if len(got) != 4 {
		t.Fatalf("events = %d, want 3 answers and 1 error: %+v", len(got), got)
	}
	for i := 0; i < 3; i++ {
		if got[i].Type != EventAnswer {
			t.Errorf("event %d = %+v, want answer", i, got[i])
		}
	}
	last := got[3]
	if last.Type != EventError {
		t.Fatalf("terminal event = %+v, want error", last)
	}
	if !strings.Contains(last.Data, "connection reset") {
		t.Errorf("error data = %q", last.Data)
	}

	if len(repo.snapshotMessages()) != 0 {
		t.Error("a failed stream must not persist a partial answer")
	}
}

func TestStreamAnswerEmptyStreamPersistsNothing(t *testing.T) {
	repo := newMemoryRepo()
	conv := ownedConversation(repo, "user-1")
	provider := &fakeLLM{stream: newFakeStream(nil, nil)}

	events, err := newTestStreamer(provider, repo).StreamAnswer(context.Background(), StreamParams{
		OwnerID:        "user-1",
		Question:       "q",
		ConversationID: conv.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := collect(t, events); len(got) != 0 {
		t.Errorf("events = %+v, want none", got)
	}
	if len(repo.snapshotMessages()) != 0 {
		t.Error("nothing should be persisted for an empty answer")
	}
}

func TestStreamAnswerChecksOwnership(t *testing.T) {
	repo := newMemoryRepo()
	conv := ownedConversation(repo, "someone-else")
	provider := &fakeLLM{stream: newFakeStream([]string{"x"}, nil)}

	_, err := newTestStreamer(provider, repo).StreamAnswer(context.Background(), StreamParams{
		OwnerID:        "user-1",
		Question:       "q",
		ConversationID: conv.ID,
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestStreamAnswerSetupFailure(t *testing.T) {
	repo := newMemoryRepo()
	conv := ownedConversation(repo, "user-1")
	provider := &fakeLLM{streamErr: errProviderDown}

	_, err := newTestStreamer(provider, repo).StreamAnswer(context.Background(), StreamParams{
		OwnerID:        "user-1",
		Question:       "q",
		ConversationID: conv.ID,
	})
	if err == nil {
		t.Fatal("expected setup error")
	}
	if len(repo.snapshotMessages()) != 0 {
		t.Error("setup failures must not persist anything")
	}
}

func TestStreamAnswerPersistFailureEmitsError(t *testing.T) {
	repo := newMemoryRepo()
	conv := ownedConversation(repo, "user-1")
	repo.appendErr = platformerrors.NewError(
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeDatabaseError,
		"insert failed",
		nil,
		"append-message-error",
	)
	provider := &fakeLLM{stream: newFakeStream([]string{"done"}, nil)}

	events, err := newTestStreamer(provider, repo).StreamAnswer(context.Background(), StreamParams{
		OwnerID:        "user-1",
		Question:       "q",
		ConversationID: conv.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	got := collect(t, events)
	if len(got) != 2 {
		t.Fatalf("events = %+v, want answer then error", got)
	}
	if got[1].Type != EventError {
		t.Errorf("terminal event = %+v, want error", got[1])
	}
}
