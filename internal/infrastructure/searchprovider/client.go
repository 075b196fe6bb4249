package searchprovider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/rahul-004x/digger/internal/domain/retrieval"
	"github.com/rahul-004x/digger/internal/infrastructure/metrics"
)

const defaultBaseURL = "https://api.tavily.com"

// Client implements retrieval.SearchProvider on the Tavily search API. When no
// API key is configured it falls back to the keyless DuckDuckGo instant-answer
// API so local development still produces sources.
type Client struct {
	httpClient     *resty.Client
	fallbackClient *resty.Client
	apiKey         string
	log            zerolog.Logger
}

var _ retrieval.SearchProvider = (*Client)(nil)

// NewClient creates a search client.
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second),
		fallbackClient: resty.New().
			SetHeader("User-Agent", "digger-search-fallback/1.0").
			SetTimeout(15 * time.Second),
		apiKey: apiKey,
		log:    log.With().Str("component", "searchprovider").Logger(),
	}
}

type searchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Search queries the provider and adapts the raw results to sources. Results
// without a URL are dropped, missing titles default to "Untitled", and the
// list is capped at maxResults. An empty result list is a valid outcome.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]retrieval.Source, error) {
	if maxResults <= 0 {
		maxResults = 6
	}

	var results []searchResult
	var err error
	if c.hasAPIKey() {
		results, err = c.searchViaTavily(ctx, query, maxResults)
	} else {
		results, err = c.searchViaDuckDuckGo(ctx, query)
	}
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.SearchesTotal.WithLabelValues("success").Inc()

	sources := make([]retrieval.Source, 0, maxResults)
	for _, result := range results {
		if strings.TrimSpace(result.URL) == "" {
			continue
		}
		title := strings.TrimSpace(result.Title)
		if title == "" {
			title = "Untitled"
		}
		sources = append(sources, retrieval.Source{Title: title, URL: result.URL})
		if len(sources) >= maxResults {
			break
		}
	}
	return sources, nil
}

func (c *Client) searchViaTavily(ctx context.Context, query string, maxResults int) ([]searchResult, error) {
	var result searchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(searchRequest{
			APIKey:            c.apiKey,
			Query:             query,
			SearchDepth:       "basic",
			MaxResults:        maxResults,
			IncludeAnswer:     false,
			IncludeRawContent: false,
		}).
		SetResult(&result).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("query search API: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search API error (status %d): %s", resp.StatusCode(), resp.String())
	}
	return result.Results, nil
}

func (c *Client) hasAPIKey() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

type duckDuckGoResponse struct {
	Heading       string           `json:"Heading"`
	AbstractText  string           `json:"AbstractText"`
	AbstractURL   string           `json:"AbstractURL"`
	RelatedTopics []duckDuckTopics `json:"RelatedTopics"`
}

type duckDuckTopics struct {
	Text     string           `json:"Text"`
	FirstURL string           `json:"FirstURL"`
	Topics   []duckDuckTopics `json:"Topics"`
}

func (c *Client) searchViaDuckDuckGo(ctx context.Context, query string) ([]searchResult, error) {
	var ddg duckDuckGoResponse
	resp, err := c.fallbackClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("format", "json").
		SetQueryParam("no_html", "1").
		SetQueryParam("skip_disambig", "1").
		SetResult(&ddg).
		Get("https://api.duckduckgo.com/")
	if err != nil {
		return nil, fmt.Errorf("fallback search failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fallback search HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	results := make([]searchResult, 0, 8)
	if ddg.AbstractURL != "" {
		results = append(results, searchResult{Title: ddg.Heading, URL: ddg.AbstractURL})
	}
	for _, topic := range flattenTopics(ddg.RelatedTopics) {
		if topic.FirstURL == "" {
			continue
		}
		results = append(results, searchResult{Title: topic.Text, URL: topic.FirstURL})
	}
	return results, nil
}

func flattenTopics(topics []duckDuckTopics) []duckDuckTopics {
	var out []duckDuckTopics
	for _, topic := range topics {
		if len(topic.Topics) > 0 {
			out = append(out, flattenTopics(topic.Topics)...)
			continue
		}
		out = append(out, topic)
	}
	return out
}
