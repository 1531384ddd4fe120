// Package repository defines the storage interface and its SQLite implementation.
package repository

import (
	"context"
	"errors"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

// ErrSessionNotFound is returned by writes against a session that does not
// exist or belongs to another user.
var ErrSessionNotFound = errors.New("session not found")

// Store defines the interface for data persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]domain.SessionSummary, error)
	DeleteSession(ctx context.Context, sessionID, userID string) (bool, error)
	TouchSession(ctx context.Context, sessionID, userID string) error

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	AppendExchange(ctx context.Context, userMsg, assistantMsg *domain.Message) error
	GetRecentMessages(ctx context.Context, sessionID, userID string, limit int) ([]domain.Message, error)

	// Saved papers
	SavePaper(ctx context.Context, paper *domain.SavedPaper) error
	ListPapers(ctx context.Context, userID string) ([]domain.SavedPaper, error)
	DeletePaper(ctx context.Context, userID string, id int64) (bool, error)

	// Query history
	SaveQuery(ctx context.Context, query *domain.QueryRecord) error
	ListQueries(ctx context.Context, userID string, limit int) ([]domain.QueryRecord, error)

	// Lifecycle
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
