package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Go concurrency</title><style>body { color: red; }</style></head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<div class="sidebar-promo">Subscribe to our newsletter</div>
<article>
<h1>Go concurrency patterns</h1>
<p>Goroutines are lightweight threads managed by the Go runtime.</p>
<p>Channels connect goroutines so they can exchange values safely.</p>
</article>
<script>trackPageView();</script>
<footer>Copyright 2026</footer>
</body>
</html>`

func newTestExtractor(cfg Config) *Extractor {
	return New(cfg, zerolog.Nop())
}

func TestExtractReadableText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	e := newTestExtractor(Config{})
	content := e.Extract(context.Background(), server.URL)

	if !content.Succeeded {
		t.Fatalf("expected success, got failure with text %q", content.Text)
	}
	if content.SourceURL != server.URL {
		t.Errorf("SourceURL = %q, want %q", content.SourceURL, server.URL)
	}
	for _, want := range []string{"Go concurrency patterns", "Goroutines are lightweight", "exchange values safely"} {
		if !strings.Contains(content.Text, want) {
			t.Errorf("extracted text missing %q:\n%s", want, content.Text)
		}
	}
	for _, boilerplate := range []string{"Home", "Subscribe to our newsletter", "trackPageView", "Copyright 2026", "color: red"} {
		if strings.Contains(content.Text, boilerplate) {
			t.Errorf("extracted text should not contain %q:\n%s", boilerplate, content.Text)
		}
	}
}

func TestExtractFailuresYieldPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "unsupported content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Write([]byte("%PDF-1.4"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			e := newTestExtractor(Config{})
			content := e.Extract(context.Background(), server.URL)

			if content.Succeeded {
				t.Fatal("expected failure")
			}
			if !strings.Contains(content.Text, "Could not retrieve") {
				t.Errorf("placeholder text = %q", content.Text)
			}
			if !strings.Contains(content.Text, server.URL) {
				t.Errorf("placeholder should name the URL, got %q", content.Text)
			}
		})
	}
}

func TestExtractTimeoutBoundsLatency(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	e := newTestExtractor(Config{Timeout: 100 * time.Millisecond})

	start := time.Now()
	content := e.Extract(context.Background(), server.URL)
	elapsed := time.Since(start)

	if content.Succeeded {
		t.Fatal("expected timeout failure")
	}
	if elapsed > 2*time.Second {
		t.Errorf("extraction took %v, timeout did not bound it", elapsed)
	}
}

func TestExtractTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("word ", 5000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	}))
	defer server.Close()

	e := newTestExtractor(Config{MaxChars: 500})
	content := e.Extract(context.Background(), server.URL)

	if !content.Succeeded {
		t.Fatalf("expected success, got %q", content.Text)
	}
	if len(content.Text) > 500 {
		t.Errorf("text length %d exceeds limit", len(content.Text))
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\t\tb", "a b"},
		{"a    b", "a b"},
		{"line one \n line two", "line one\nline two"},
		{"a\n\nb", "a\nb"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		if got := normalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("normalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
