package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Assembler fans content extraction out over all sources and builds the
// citation-indexed system prompt for answer generation.
type Assembler struct {
	extractor ContentExtractor
	log       zerolog.Logger
}

// NewAssembler builds a context assembler.
func NewAssembler(extractor ContentExtractor, log zerolog.Logger) *Assembler {
	return &Assembler{
		extractor: extractor,
		log:       log.With().Str("component", "assembler").Logger(),
	}
}

// AssembleContext extracts every source concurrently, waits for all of them to
// settle, and wraps the combined context in the answer prompt template. Total
// latency is bounded by the slowest single extraction, not the sum. The result
// is deterministic for a given set of extraction results.
func (a *Assembler) AssembleContext(ctx context.Context, sources []Source, question string) string {
	contents := a.extractAll(ctx, sources)

	blocks := make([]string, len(sources))
	for i, src := range sources {
		blocks[i] = formatSourceBlock(i+1, src, contents[i])
	}

	return buildSystemPrompt(strings.Join(blocks, "\n\n"))
}

func (a *Assembler) extractAll(ctx context.Context, sources []Source) []ExtractedContent {
	contents := make([]ExtractedContent, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			contents[i] = a.extractor.Extract(gctx, src.URL)
			return nil
		})
	}
	// Extract never errors; Wait only synchronizes the fan-out.
	_ = g.Wait()

	for _, content := range contents {
		if !content.Succeeded {
			a.log.Debug().Str("url", content.SourceURL).Msg("source extraction failed, using placeholder")
		}
	}
	return contents
}

// formatSourceBlock renders one source as a citation-tagged context block. The
// citation index is the 1-based position of the source in the resolved list.
func formatSourceBlock(index int, src Source, content ExtractedContent) string {
	return fmt.Sprintf("[[citation:%d]]\nTitle: %s\nURL: %s\nContent:\n%s", index, src.Title, src.URL, content.Text)
}
