package retrieval

import "context"

// Source is one candidate document for answering a question. Ordering is
// significant: the citation index of a source is its 1-based position in the
// resolved slice.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ExtractedContent is the extraction result for a single source. Text is
// whitespace-normalized and bounded; when Succeeded is false it holds a
// human-readable placeholder instead of article text.
type ExtractedContent struct {
	SourceURL string
	Text      string
	Succeeded bool
}

// SearchProvider finds candidate sources for a question. An empty result set
// is valid and must not be reported as an error.
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Source, error)
}

// ContentExtractor turns a URL into readable text. Implementations never
// return an error: any fetch or parse failure is converted into a failed
// ExtractedContent so one bad source cannot abort a batch.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) ExtractedContent
}
