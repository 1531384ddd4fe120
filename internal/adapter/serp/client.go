// Package serp provides the web retrieval adapter backed by SerpAPI.
package serp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

// NoneFound is returned by FormatForContext for an empty result set.
const NoneFound = "No web search results available."

const (
	// serpMaxNum is the largest page size SerpAPI accepts.
	serpMaxNum      = 10
	maxSnippetLen   = 300
	queryDomainHint = " quantum computing quantum mechanics"
)

// Client searches the web through SerpAPI. Failures never reach the caller.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a new SerpAPI client.
func NewClient(baseURL, apiKey string, timeout time.Duration, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.WithField("component", "serp"),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	AnswerBox      *answerBox      `json:"answer_box"`
}

type organicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

type answerBox struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Answer  string `json:"answer"`
	Snippet string `json:"snippet"`
}

// Search returns up to maxResults organic results for query, preceded by the
// featured answer when SerpAPI returns one. Any failure is logged and yields
// an empty slice.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []domain.WebRecord {
	if !c.Configured() {
		c.log.Warn("serpapi key not configured, skipping web search")
		return []domain.WebRecord{}
	}
	if strings.TrimSpace(query) == "" || maxResults <= 0 {
		return []domain.WebRecord{}
	}

	resp, err := c.fetch(ctx, query, maxResults)
	if err != nil {
		c.log.WithError(err).WithField("query", query).Warn("web search failed")
		return []domain.WebRecord{}
	}

	results := make([]domain.WebRecord, 0, maxResults+1)
	if box := resp.AnswerBox; box != nil && (box.Answer != "" || box.Snippet != "" || box.Link != "") {
		title := box.Title
		if title == "" {
			title = "Featured Answer"
		}
		snippet := box.Answer
		if snippet == "" {
			snippet = box.Snippet
		}
		results = append(results, domain.WebRecord{
			Title:        title,
			Link:         box.Link,
			Snippet:      snippet,
			SourceDomain: ExtractDomain(box.Link),
			IsFeatured:   true,
		})
	}
	for i, r := range resp.OrganicResults {
		if i == maxResults {
			break
		}
		results = append(results, domain.WebRecord{
			Title:        r.Title,
			Link:         r.Link,
			Snippet:      r.Snippet,
			SourceDomain: ExtractDomain(r.Link),
			Position:     r.Position,
		})
	}

	c.log.WithFields(logrus.Fields{"query": query, "count": len(results)}).Info("web search done")
	return results
}

func (c *Client) fetch(ctx context.Context, query string, maxResults int) (*searchResponse, error) {
	num := maxResults
	if num > serpMaxNum {
		num = serpMaxNum
	}

	params := url.Values{}
	params.Set("q", query+queryDomainHint)
	params.Set("api_key", c.apiKey)
	params.Set("num", fmt.Sprintf("%d", num))
	params.Set("engine", "google")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the key; keep it out of logs.
		return nil, fmt.Errorf("failed to query serpapi: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("serpapi returned status %d: %s", resp.StatusCode, string(body))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

// ExtractDomain returns the host of rawURL without a leading "www.".
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// FormatForContext renders results as a bounded digest for a generation prompt.
func (c *Client) FormatForContext(results []domain.WebRecord) string {
	return FormatForContext(results)
}

// FormatForContext renders results as a bounded digest for a generation prompt.
func FormatForContext(results []domain.WebRecord) string {
	if len(results) == 0 {
		return NoneFound
	}

	var b strings.Builder
	b.WriteString("Web Search Results:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   Source: %s\n", r.SourceDomain)
		fmt.Fprintf(&b, "   %s\n\n", truncate(r.Snippet, maxSnippetLen))
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
