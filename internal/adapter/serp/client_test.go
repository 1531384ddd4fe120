package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
	"github.com/xiaot623/gogo/quantumqa/internal/logger"
)

const sampleResponse = `{
  "answer_box": {"title": "Quantum entanglement", "link": "https://www.britannica.com/science/entanglement", "answer": "A correlation between particles."},
  "organic_results": [
    {"position": 1, "title": "Entanglement - Wikipedia", "link": "https://en.wikipedia.org/wiki/Quantum_entanglement", "snippet": "Quantum entanglement is a phenomenon."},
    {"position": 2, "title": "Physics Today", "link": "https://www.physicstoday.org/entanglement", "snippet": "Entanglement explained."},
    {"position": 3, "title": "Third", "link": "https://example.com/3", "snippet": "Third result."}
  ]
}`

func TestClientSearchParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		assert.Equal(t, "entanglement quantum computing quantum mechanics", q.Get("q"))
		assert.Equal(t, "key", q.Get("api_key"))
		assert.Equal(t, "google", q.Get("engine"))
		assert.Equal(t, "2", q.Get("num"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleResponse)
	}))
	defer server.Close()

	c := NewClient(server.URL, "key", time.Second, logger.Discard())
	results := c.Search(context.Background(), "entanglement", 2)
	require.Len(t, results, 3)

	assert.True(t, results[0].IsFeatured)
	assert.Equal(t, "Quantum entanglement", results[0].Title)
	assert.Equal(t, "A correlation between particles.", results[0].Snippet)
	assert.Equal(t, "britannica.com", results[0].SourceDomain)

	assert.False(t, results[1].IsFeatured)
	assert.Equal(t, "en.wikipedia.org", results[1].SourceDomain)
	assert.Equal(t, 1, results[1].Position)
	assert.Equal(t, "physicstoday.org", results[2].SourceDomain)
}

func TestClientSearchCapsPageSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("num"))
		fmt.Fprint(w, `{"organic_results": []}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "key", time.Second, logger.Discard())
	assert.Empty(t, c.Search(context.Background(), "qubit", 25))
}

func TestClientSearchWithoutKeySkipsNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", time.Second, logger.Discard())
	assert.False(t, c.Configured())
	results := c.Search(context.Background(), "qubit", 5)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestClientSearchAbsorbsFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"Invalid API key"}`)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"organic_results": [`)
		},
		"slow": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			fmt.Fprint(w, sampleResponse)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(h)
			defer server.Close()

			c := NewClient(server.URL, "key", 50*time.Millisecond, logger.Discard())
			results := c.Search(context.Background(), "qubit", 5)
			assert.NotNil(t, results)
			assert.Empty(t, results)
		})
	}
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "nature.com", ExtractDomain("https://www.nature.com/articles/x"))
	assert.Equal(t, "arxiv.org", ExtractDomain("http://arxiv.org/abs/1"))
	assert.Equal(t, "", ExtractDomain(""))
	assert.Equal(t, "not a url", ExtractDomain("not a url"))
}

func TestFormatForContext(t *testing.T) {
	assert.Equal(t, NoneFound, FormatForContext([]domain.WebRecord{}))

	out := FormatForContext([]domain.WebRecord{
		{Title: "W1", SourceDomain: "nature.com", Snippet: strings.Repeat("s", 350)},
		{Title: "W2", SourceDomain: "ibm.com", Snippet: "short snippet"},
	})
	assert.True(t, strings.HasPrefix(out, "Web Search Results:\n\n"))
	assert.Contains(t, out, "1. W1\n   Source: nature.com\n   "+strings.Repeat("s", 300)+"...\n")
	assert.Contains(t, out, "2. W2\n   Source: ibm.com\n   short snippet\n")
}
