package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/rahul-004x/digger/internal/domain/retrieval"
	"github.com/rahul-004x/digger/internal/infrastructure/metrics"
)

const (
	userAgent    = "digger-bot/1.0"
	maxBodyBytes = 4 << 20
)

// Config tunes the extractor.
type Config struct {
	Timeout  time.Duration
	MaxChars int
}

// Extractor fetches a URL and reduces its HTML to readable article text.
// Extract never returns an error: every failure yields a placeholder result so
// a single bad source cannot abort a batch.
type Extractor struct {
	client *http.Client
	cfg    Config
	log    zerolog.Logger
}

var _ retrieval.ContentExtractor = (*Extractor)(nil)

// New builds a content extractor.
func New(cfg Config, log zerolog.Logger) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 20000
	}
	return &Extractor{
		client: &http.Client{},
		cfg:    cfg,
		log:    log.With().Str("component", "extractor").Logger(),
	}
}

// Extract fetches the URL within the configured hard timeout and returns clean,
// bounded text. The in-flight request is cancelled once the timeout elapses.
func (e *Extractor) Extract(ctx context.Context, url string) retrieval.ExtractedContent {
	start := time.Now()
	content, err := e.extract(ctx, url)
	if err != nil {
		e.log.Debug().Err(err).Str("url", url).Msg("extraction failed")
		metrics.ExtractionsTotal.WithLabelValues("failure").Inc()
		metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
		return retrieval.ExtractedContent{
			SourceURL: url,
			Text:      fmt.Sprintf("Could not retrieve %s", url),
			Succeeded: false,
		}
	}

	metrics.ExtractionsTotal.WithLabelValues("success").Inc()
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	return retrieval.ExtractedContent{
		SourceURL: url,
		Text:      content,
		Succeeded: true,
	}
}

func (e *Extractor) extract(ctx context.Context, url string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") && !strings.Contains(contentType, "text/plain") {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text := readableText(body)
	if text == "" {
		return "", fmt.Errorf("no readable text")
	}

	text = normalizeWhitespace(text)
	if len(text) > e.cfg.MaxChars {
		cut := e.cfg.MaxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}

// Tags whose subtrees are boilerplate rather than article content.
var skippedTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "svg": {}, "iframe": {},
	"nav": {}, "header": {}, "footer": {}, "aside": {}, "form": {}, "button": {},
}

var boilerplateAttr = regexp.MustCompile(`(?i)\b(nav|menu|sidebar|footer|banner|cookie|advert|promo|share|comment)`)

var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "article": {}, "section": {}, "li": {}, "br": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"tr": {}, "blockquote": {}, "pre": {},
}

// readableText walks the parsed document collecting visible text, skipping
// subtrees that look like navigation, ads or other chrome.
func readableText(raw []byte) string {
	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return ""
	}

	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skippedTags[n.Data]; skip {
				return
			}
			if looksLikeBoilerplate(n) {
				return
			}
		}
		if n.Type == html.TextNode {
			val := strings.TrimSpace(n.Data)
			if val != "" {
				if builder.Len() > 0 {
					builder.WriteString(" ")
				}
				builder.WriteString(val)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			if _, block := blockTags[n.Data]; block {
				builder.WriteString("\n")
			}
		}
	}
	walk(doc)
	return builder.String()
}

func looksLikeBoilerplate(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "id" && attr.Key != "class" && attr.Key != "role" {
			continue
		}
		if boilerplateAttr.MatchString(attr.Val) {
			return true
		}
	}
	return false
}

var (
	spaceRuns   = regexp.MustCompile(` {2,}`)
	newlineRuns = regexp.MustCompile(`\n{4,}`)
	spacedLines = regexp.MustCompile(` ?\n ?`)
)

// normalizeWhitespace applies the fixed cleanup pass: tabs become spaces,
// space runs collapse, runs of four or more newlines collapse to three, and
// double newlines collapse to one.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = spacedLines.ReplaceAllString(s, "\n")
	s = newlineRuns.ReplaceAllString(s, "\n\n\n")
	s = strings.ReplaceAll(s, "\n\n", "\n")
	return strings.TrimSpace(s)
}
