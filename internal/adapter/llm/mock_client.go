package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockClient is a scripted Generator for tests and offline runs.
type MockClient struct {
	mu sync.Mutex

	// Response, when set, is returned verbatim. Otherwise the mock echoes
	// the prompt followed by a canned answer, like an echoing backend.
	Response string
	// Err, when set, is returned instead of a response.
	Err error
	// Disabled makes Available report false.
	Disabled bool

	prompts []string
}

// NewMockClient creates a new mock generator.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Available() bool {
	return !m.Disabled
}

func (m *MockClient) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return prompt + " [MOCK] " + mockAnswer(prompt), nil
}

// Prompts returns the prompts received so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

func mockAnswer(prompt string) string {
	question := ""
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "Question: ") {
			question = strings.TrimPrefix(line, "Question: ")
		}
	}
	if question == "" {
		return "This is a mock answer."
	}
	return fmt.Sprintf("This is a mock answer to %q.", truncate(question, 100))
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
