package retrieval

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeExtractor returns canned text per URL, optionally after a delay.
type fakeExtractor struct {
	delay  time.Duration
	failed map[string]bool
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) ExtractedContent {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	if f.failed[url] {
		return ExtractedContent{
			SourceURL: url,
			Text:      fmt.Sprintf("Could not retrieve %s", url),
			Succeeded: false,
		}
	}
	return ExtractedContent{
		SourceURL: url,
		Text:      "content of " + url,
		Succeeded: true,
	}
}

func testSources(n int) []Source {
	sources := make([]Source, n)
	for i := range sources {
		sources[i] = Source{
			Title: fmt.Sprintf("Source %d", i+1),
			URL:   fmt.Sprintf("https://example.com/%d", i+1),
		}
	}
	return sources
}

func TestAssembleContextOrdersCitations(t *testing.T) {
	assembler := NewAssembler(&fakeExtractor{}, zerolog.Nop())
	sources := testSources(3)

	prompt := assembler.AssembleContext(context.Background(), sources, "what is go?")

	var positions []int
	for i := 1; i <= 3; i++ {
		tag := fmt.Sprintf("[[citation:%d]]", i)
		pos := strings.Index(prompt, tag)
		if pos < 0 {
			t.Fatalf("prompt missing %s:\n%s", tag, prompt)
		}
		positions = append(positions, pos)
	}
	for i := 1; i < len(positions); i++ {
		if positions[i] < positions[i-1] {
			t.Errorf("citation %d appears before citation %d", i+1, i)
		}
	}

	for _, src := range sources {
		if !strings.Contains(prompt, "Title: "+src.Title) {
			t.Errorf("prompt missing title %q", src.Title)
		}
		if !strings.Contains(prompt, "URL: "+src.URL) {
			t.Errorf("prompt missing url %q", src.URL)
		}
		if !strings.Contains(prompt, "content of "+src.URL) {
			t.Errorf("prompt missing content for %q", src.URL)
		}
	}
}

func TestAssembleContextWithNoSources(t *testing.T) {
	assembler := NewAssembler(&fakeExtractor{}, zerolog.Nop())

	prompt := assembler.AssembleContext(context.Background(), nil, "anything")

	if !strings.Contains(prompt, emptyContext) {
		t.Errorf("prompt should carry the empty-context marker:\n%s", prompt)
	}
	if strings.Contains(prompt, "[[citation:") {
		t.Error("prompt should not contain citation tags without sources")
	}
}

func TestAssembleContextKeepsFailedSources(t *testing.T) {
	failing := "https://example.com/2"
	assembler := NewAssembler(&fakeExtractor{failed: map[string]bool{failing: true}}, zerolog.Nop())

	prompt := assembler.AssembleContext(context.Background(), testSources(3), "q")

	if !strings.Contains(prompt, "[[citation:2]]") {
		t.Error("failed source lost its citation slot")
	}
	if !strings.Contains(prompt, "Could not retrieve "+failing) {
		t.Error("failed source should keep its placeholder text")
	}
	if !strings.Contains(prompt, "[[citation:3]]") {
		t.Error("sources after a failure must keep their index")
	}
}

func TestAssembleContextRunsExtractionsConcurrently(t *testing.T) {
	const perSource = 100 * time.Millisecond
	assembler := NewAssembler(&fakeExtractor{delay: perSource}, zerolog.Nop())

	start := time.Now()
	assembler.AssembleContext(context.Background(), testSources(5), "q")
	elapsed := time.Since(start)

	// Sequential extraction would take 5x the per-source delay.
	if elapsed > 3*perSource {
		t.Errorf("assembly took %v, extractions appear sequential", elapsed)
	}
}
