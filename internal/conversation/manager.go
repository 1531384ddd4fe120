// Package conversation manages sessions and their message history.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/apperr"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
	"github.com/xiaot623/gogo/quantumqa/internal/repository"
)

const (
	// DefaultHistoryLimit applies when a negative history limit is requested.
	DefaultHistoryLimit = 10
	// DefaultContextMessages bounds the conversation replayed into a prompt.
	DefaultContextMessages = 5

	contextHeader = "Previous conversation:\n"
	storageError  = "storage error"
)

// Manager owns session and message bookkeeping on top of a Store.
type Manager struct {
	store repository.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewManager creates a conversation manager.
func NewManager(store repository.Store, log logrus.FieldLogger) *Manager {
	return &Manager{
		store: store,
		log:   log.WithField("component", "conversation"),
		now:   time.Now,
	}
}

// CreateSession persists a new session for userID and returns its id.
func (m *Manager) CreateSession(ctx context.Context, userID string) (string, error) {
	now := m.now()
	session := &domain.Session{
		SessionID:    uuid.New().String(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := m.store.CreateSession(ctx, session); err != nil {
		return "", storageErr("Manager.CreateSession", err)
	}
	m.log.WithFields(logrus.Fields{"session_id": session.SessionID, "user_id": userID}).Info("session created")
	return session.SessionID, nil
}

// SessionExists reports whether sessionID exists and is owned by userID.
func (m *Manager) SessionExists(ctx context.Context, sessionID, userID string) (bool, error) {
	session, err := m.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return false, storageErr("Manager.SessionExists", err)
	}
	return session != nil, nil
}

// AddMessage appends one message. The caller decides the role; nothing is inferred.
func (m *Manager) AddMessage(ctx context.Context, sessionID, userID string, role domain.Role, content string, sources []domain.SourceCitation) (string, error) {
	const op = "Manager.AddMessage"
	if !role.Valid() {
		return "", apperr.E(apperr.CodeInvalidArgument, op, fmt.Sprintf("invalid role %q", role), nil)
	}

	msg := m.newMessage(sessionID, userID, role, content, sources, m.now())
	if err := m.store.CreateMessage(ctx, msg); err != nil {
		return "", storageErr(op, err)
	}
	return msg.MessageID, nil
}

// RecordExchange stores a question and its answer as one unit.
func (m *Manager) RecordExchange(ctx context.Context, sessionID, userID, question, answer string, sources []domain.SourceCitation) error {
	now := m.now()
	userMsg := m.newMessage(sessionID, userID, domain.RoleUser, question, nil, now)
	assistantMsg := m.newMessage(sessionID, userID, domain.RoleAssistant, answer, sources, now)
	if err := m.store.AppendExchange(ctx, userMsg, assistantMsg); err != nil {
		return storageErr("Manager.RecordExchange", err)
	}
	return nil
}

func (m *Manager) newMessage(sessionID, userID string, role domain.Role, content string, sources []domain.SourceCitation, at time.Time) *domain.Message {
	return &domain.Message{
		MessageID: uuid.New().String(),
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		Sources:   sources,
		CreatedAt: at,
	}
}

// GetConversationHistory returns up to limit most recent messages, oldest first.
// A zero limit yields no messages; a negative one uses DefaultHistoryLimit.
func (m *Manager) GetConversationHistory(ctx context.Context, sessionID, userID string, limit int) ([]domain.Message, error) {
	if limit == 0 {
		return []domain.Message{}, nil
	}
	if limit < 0 {
		limit = DefaultHistoryLimit
	}

	msgs, err := m.store.GetRecentMessages(ctx, sessionID, userID, limit)
	if err != nil {
		return nil, storageErr("Manager.GetConversationHistory", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// GetContextForModel renders the last maxMessages messages as labeled lines.
// It returns "" when the session has no history.
func (m *Manager) GetContextForModel(ctx context.Context, sessionID, userID string, maxMessages int) (string, error) {
	if maxMessages <= 0 {
		return "", nil
	}
	msgs, err := m.GetConversationHistory(ctx, sessionID, userID, maxMessages)
	if err != nil {
		return "", err
	}
	return FormatContext(msgs), nil
}

// FormatContext renders messages, oldest first, for a prompt.
func FormatContext(msgs []domain.Message) string {
	if len(msgs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(contextHeader)
	for _, msg := range msgs {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role.Label(), msg.Content)
	}
	return b.String()
}

// GetUserSessions lists the user's sessions, most recently active first.
func (m *Manager) GetUserSessions(ctx context.Context, userID string, limit int) ([]domain.SessionSummary, error) {
	sessions, err := m.store.ListSessions(ctx, userID, limit)
	if err != nil {
		return nil, storageErr("Manager.GetUserSessions", err)
	}
	return sessions, nil
}

// DeleteSession removes a session owned by userID. Sessions that do not exist
// and sessions owned by someone else both report false.
func (m *Manager) DeleteSession(ctx context.Context, sessionID, userID string) (bool, error) {
	deleted, err := m.store.DeleteSession(ctx, sessionID, userID)
	if err != nil {
		return false, storageErr("Manager.DeleteSession", err)
	}
	if deleted {
		m.log.WithFields(logrus.Fields{"session_id": sessionID, "user_id": userID}).Info("session deleted")
	}
	return deleted, nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return apperr.E(apperr.CodeNotFound, op, "session not found", err)
	}
	return apperr.E(apperr.CodeInternal, op, storageError, err)
}
