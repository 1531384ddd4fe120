package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/quantumqa/internal/apperr"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
	"github.com/xiaot623/gogo/quantumqa/internal/logger"
	"github.com/xiaot623/gogo/quantumqa/internal/repository"
	"github.com/xiaot623/gogo/quantumqa/tests/helpers"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(helpers.NewTestSQLiteStore(t), logger.Discard())
	// Strictly increasing clock so ordering does not depend on timer resolution.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
	return m
}

func TestManagerCreateSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	a, err := m.CreateSession(ctx, "u1")
	require.NoError(t, err)
	b, err := m.CreateSession(ctx, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	ok, err := m.SessionExists(ctx, a, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = m.SessionExists(ctx, a, "u2")
	assert.False(t, ok)
}

func TestManagerAddMessageRejectsBadRole(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	sid, _ := m.CreateSession(ctx, "u1")

	_, err := m.AddMessage(ctx, sid, "u1", domain.Role("system"), "hi", nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidArgument))
}

func TestManagerAddMessageUnknownSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.AddMessage(ctx, "missing", "u1", domain.RoleUser, "hi", nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestManagerHistoryIsChronological(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	sid, _ := m.CreateSession(ctx, "u1")

	require.NoError(t, m.RecordExchange(ctx, sid, "u1", "What is a qubit?", "A two-level system.", nil))
	require.NoError(t, m.RecordExchange(ctx, sid, "u1", "And entanglement?", "Correlated states.", []domain.SourceCitation{{Type: domain.SourceTypeWeb, Citation: "[Source: Web]"}}))

	history, err := m.GetConversationHistory(ctx, sid, "u1", 10)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "What is a qubit?", history[0].Content)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "Correlated states.", history[3].Content)
	assert.Equal(t, domain.RoleAssistant, history[3].Role)
	assert.Len(t, history[3].Sources, 1)

	last, err := m.GetConversationHistory(ctx, sid, "u1", 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "And entanglement?", last[0].Content)

	empty, err := m.GetConversationHistory(ctx, sid, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	def, err := m.GetConversationHistory(ctx, sid, "u1", -1)
	require.NoError(t, err)
	assert.Len(t, def, 4)

	foreign, err := m.GetConversationHistory(ctx, sid, "u2", 10)
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestManagerContextForModel(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	sid, _ := m.CreateSession(ctx, "u1")

	out, err := m.GetContextForModel(ctx, sid, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, "", out)

	require.NoError(t, m.RecordExchange(ctx, sid, "u1", "q1", "a1", nil))
	require.NoError(t, m.RecordExchange(ctx, sid, "u1", "q2", "a2", nil))
	require.NoError(t, m.RecordExchange(ctx, sid, "u1", "q3", "a3", nil))

	out, err = m.GetContextForModel(ctx, sid, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, "Previous conversation:\nAssistant: a1\nUser: q2\nAssistant: a2\nUser: q3\nAssistant: a3\n", out)
}

func TestManagerSessionsAndDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	first, _ := m.CreateSession(ctx, "u1")
	second, _ := m.CreateSession(ctx, "u1")
	require.NoError(t, m.RecordExchange(ctx, first, "u1", "What is decoherence?", "Loss of coherence.", nil))

	sessions, err := m.GetUserSessions(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first, sessions[0].SessionID)
	assert.Equal(t, 2, sessions[0].MessageCount)
	assert.Equal(t, second, sessions[1].SessionID)

	deleted, err := m.DeleteSession(ctx, first, "u2")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = m.DeleteSession(ctx, first, "u1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = m.DeleteSession(ctx, "never-existed", "u1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

type failingStore struct {
	repository.Store
}

func (failingStore) CreateSession(context.Context, *domain.Session) error {
	return errors.New("disk full")
}

func TestManagerWrapsStorageErrors(t *testing.T) {
	m := NewManager(failingStore{}, logger.Discard())
	_, err := m.CreateSession(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInternal))
	assert.Equal(t, "internal error", apperr.PublicMessage(err))
}

func TestFormatSources(t *testing.T) {
	out := FormatSources(
		[]domain.PaperRecord{{ID: "2401.12345", Title: "P", URL: "http://arxiv.org/abs/2401.12345v1"}},
		[]domain.WebRecord{
			{Title: "W1", Link: "https://nature.com/x", SourceDomain: "nature.com"},
			{Title: "W2", Link: "https://x"},
		},
	)
	require.Len(t, out, 3)
	assert.Equal(t, domain.SourceCitation{Type: domain.SourceTypeArxiv, ID: "2401.12345", Title: "P", URL: "http://arxiv.org/abs/2401.12345v1", Citation: "[arXiv:2401.12345]"}, out[0])
	assert.Equal(t, "[Source: nature.com]", out[1].Citation)
	assert.Equal(t, "", out[1].ID)
	assert.Equal(t, "[Source: Web]", out[2].Citation)

	assert.NotNil(t, FormatSources(nil, nil))
	assert.Empty(t, FormatSources(nil, nil))
}
