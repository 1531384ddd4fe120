// Package arxiv provides the academic-paper retrieval adapter backed by the
// arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

// NoneFound is returned by FormatForContext for an empty result set.
const NoneFound = "No arXiv papers found."

// AbstractMarker prefixes each abstract line of the context digest.
const AbstractMarker = "Abstract:"

const (
	// category restricts searches to quantum physics papers.
	category        = "quant-ph"
	maxAbstractLen  = 300
	maxDigestAuthor = 3
)

var arxivIDPattern = regexp.MustCompile(`(\d+\.\d+)`)

// Client searches arXiv. Failures never reach the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a new arXiv client.
func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.WithField("component", "arxiv"),
	}
}

type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Authors    []author       `xml:"author"`
	Links      []link         `xml:"link"`
	Categories []atomCategory `xml:"category"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// Search returns up to maxResults quantum physics papers matching query.
// Any failure is logged and yields an empty slice.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []domain.PaperRecord {
	if strings.TrimSpace(query) == "" || maxResults <= 0 {
		return []domain.PaperRecord{}
	}

	params := url.Values{}
	params.Set("search_query", fmt.Sprintf("cat:%s AND (all:%s)", category, query))
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	entries, err := c.fetch(ctx, params)
	if err != nil {
		c.log.WithError(err).WithField("query", query).Warn("arxiv search failed")
		return []domain.PaperRecord{}
	}

	papers := make([]domain.PaperRecord, 0, len(entries))
	for _, e := range entries {
		papers = append(papers, toRecord(e))
		if len(papers) == maxResults {
			break
		}
	}
	c.log.WithFields(logrus.Fields{"query": query, "count": len(papers)}).Info("arxiv search done")
	return papers
}

// GetPaper fetches a single paper by arXiv id. It returns nil when the paper
// does not exist or the source is unreachable.
func (c *Client) GetPaper(ctx context.Context, id string) *domain.PaperRecord {
	params := url.Values{}
	params.Set("id_list", id)

	entries, err := c.fetch(ctx, params)
	if err != nil {
		c.log.WithError(err).WithField("id", id).Warn("arxiv lookup failed")
		return nil
	}
	if len(entries) == 0 {
		return nil
	}
	p := toRecord(entries[0])
	return &p
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]entry, error) {
	endpoint := c.baseURL + "/api/query?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("arxiv returned status %d: %s", resp.StatusCode, string(body))
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	return f.Entries, nil
}

func toRecord(e entry) domain.PaperRecord {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		authors = append(authors, collapse(a.Name))
	}
	categories := make([]string, 0, len(e.Categories))
	for _, cat := range e.Categories {
		categories = append(categories, cat.Term)
	}

	abs := absLink(e)
	return domain.PaperRecord{
		ID:            ExtractID(e.ID),
		Title:         collapse(e.Title),
		Authors:       authors,
		Abstract:      collapse(e.Summary),
		URL:           abs,
		PublishedDate: e.Published,
		UpdatedDate:   e.Updated,
		Categories:    categories,
		PDFURL:        pdfLink(e, abs),
	}
}

// ExtractID pulls the numeric arXiv identifier out of an entry id URL. The
// input is returned unchanged when no identifier is present.
func ExtractID(raw string) string {
	if m := arxivIDPattern.FindString(raw); m != "" {
		return m
	}
	return raw
}

func absLink(e entry) string {
	for _, l := range e.Links {
		if l.Rel == "alternate" || (l.Rel == "" && l.Type == "text/html") {
			return l.Href
		}
	}
	return e.ID
}

func pdfLink(e entry, abs string) string {
	for _, l := range e.Links {
		if l.Type == "application/pdf" {
			return l.Href
		}
	}
	return strings.Replace(abs, "/abs/", "/pdf/", 1)
}

// collapse normalizes the hard-wrapped whitespace arXiv puts in titles and abstracts.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatForContext renders papers as a bounded digest for a generation prompt.
func (c *Client) FormatForContext(papers []domain.PaperRecord) string {
	return FormatForContext(papers)
}

// FormatForContext renders papers as a bounded digest for a generation prompt.
// Each abstract sits on its own line prefixed with AbstractMarker.
func FormatForContext(papers []domain.PaperRecord) string {
	if len(papers) == 0 {
		return NoneFound
	}

	var b strings.Builder
	b.WriteString("arXiv Research Papers:\n\n")
	for i, p := range papers {
		authors := p.Authors
		if len(authors) > maxDigestAuthor {
			authors = authors[:maxDigestAuthor]
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Title)
		fmt.Fprintf(&b, "   Authors: %s\n", strings.Join(authors, ", "))
		fmt.Fprintf(&b, "   %s %s\n\n", AbstractMarker, truncate(p.Abstract, maxAbstractLen))
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
