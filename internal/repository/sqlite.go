package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

const previewLen = 100

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	memory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")

	db, err := sql.Open("sqlite3", withParams(dsn, memory))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if memory {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &SQLiteStore{db: db, locks: make(map[string]*sync.Mutex)}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// withParams enables foreign keys on every pooled connection and, for file
// databases, WAL with a busy timeout.
func withParams(dsn string, memory bool) string {
	params := []string{"_foreign_keys=1"}
	if !memory {
		params = append(params, "_journal_mode=WAL", "_busy_timeout=5000")
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_activity DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, last_activity)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			sources TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			paper_id TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT,
			abstract TEXT,
			summary TEXT,
			url TEXT,
			published_date TEXT,
			saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, paper_id)
		)`,
		`CREATE TABLE IF NOT EXISTS queries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			query_text TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_user ON queries(user_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// lockSession serializes writes to one session.
func (s *SQLiteStore) lockSession(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.LastActivity.IsZero() {
		session.LastActivity = session.CreatedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, created_at, last_activity, metadata) VALUES (?, ?, ?, ?, ?)`,
		session.SessionID, session.UserID, session.CreatedAt.UTC(), session.LastActivity.UTC(), nullStringBytes(session.Metadata))
	return err
}

// GetSession retrieves a session owned by userID. It returns nil when the
// session does not exist or belongs to someone else.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	var session domain.Session
	var metadata sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, created_at, last_activity, metadata FROM sessions WHERE session_id = ? AND user_id = ?`,
		sessionID, userID).Scan(&session.SessionID, &session.UserID, &session.CreatedAt, &session.LastActivity, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if metadata.Valid {
		session.Metadata = json.RawMessage(metadata.String)
	}
	return &session, nil
}

// ListSessions returns the user's sessions, most recently active first.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID string, limit int) ([]domain.SessionSummary, error) {
	query := `SELECT s.session_id, s.user_id, s.created_at, s.last_activity, s.metadata,
			(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.session_id),
			(SELECT m.content FROM messages m WHERE m.session_id = s.session_id AND m.role = 'user'
				ORDER BY m.created_at ASC, m.rowid ASC LIMIT 1)
		FROM sessions s WHERE s.user_id = ?
		ORDER BY s.last_activity DESC, s.rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.SessionSummary{}
	for rows.Next() {
		var sum domain.SessionSummary
		var metadata, preview sql.NullString
		if err := rows.Scan(&sum.SessionID, &sum.UserID, &sum.CreatedAt, &sum.LastActivity, &metadata, &sum.MessageCount, &preview); err != nil {
			return nil, err
		}
		if metadata.Valid {
			sum.Metadata = json.RawMessage(metadata.String)
		}
		if preview.Valid {
			sum.Preview = truncate(preview.String, previewLen)
		}
		sessions = append(sessions, sum)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and, by cascade, its messages.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID, userID string) (bool, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ? AND user_id = ?`, sessionID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.mu.Lock()
		delete(s.locks, sessionID)
		s.mu.Unlock()
	}
	return n > 0, nil
}

// TouchSession bumps last_activity to now.
func (s *SQLiteStore) TouchSession(ctx context.Context, sessionID, userID string) error {
	return touch(ctx, s.db, sessionID, userID, time.Now())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func touch(ctx context.Context, db execer, sessionID, userID string, at time.Time) error {
	res, err := db.ExecContext(ctx,
		`UPDATE sessions SET last_activity = ? WHERE session_id = ? AND user_id = ?`,
		at.UTC(), sessionID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// CreateMessage appends one message and touches its session.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	return s.appendMessages(ctx, message)
}

// AppendExchange stores a question and its answer together. Either both rows
// are written or neither is.
func (s *SQLiteStore) AppendExchange(ctx context.Context, userMsg, assistantMsg *domain.Message) error {
	if userMsg.SessionID != assistantMsg.SessionID || userMsg.UserID != assistantMsg.UserID {
		return fmt.Errorf("exchange spans sessions: %s/%s", userMsg.SessionID, assistantMsg.SessionID)
	}
	return s.appendMessages(ctx, userMsg, assistantMsg)
}

func (s *SQLiteStore) appendMessages(ctx context.Context, msgs ...*domain.Message) error {
	first := msgs[0]
	unlock := s.lockSession(first.SessionID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Touch first so an unknown or foreign session fails before any insert.
	latest := first.CreatedAt
	for _, m := range msgs {
		if m.CreatedAt.After(latest) {
			latest = m.CreatedAt
		}
	}
	if err := touch(ctx, tx, first.SessionID, first.UserID, latest); err != nil {
		return err
	}

	for _, m := range msgs {
		sources, err := marshalSources(m.Sources)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (message_id, session_id, user_id, role, content, sources, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.MessageID, m.SessionID, m.UserID, string(m.Role), m.Content, sources, m.CreatedAt.UTC()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRecentMessages returns up to limit messages of the session, newest first.
func (s *SQLiteStore) GetRecentMessages(ctx context.Context, sessionID, userID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		return []domain.Message{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, user_id, role, content, sources, created_at FROM messages
		WHERE session_id = ? AND user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		sessionID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		var role string
		var sources sql.NullString
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &msg.UserID, &role, &msg.Content, &sources, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Role = domain.Role(role)
		if sources.Valid && sources.String != "" {
			if err := json.Unmarshal([]byte(sources.String), &msg.Sources); err != nil {
				return nil, fmt.Errorf("failed to decode sources of %s: %w", msg.MessageID, err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// SavePaper bookmarks a paper. Saving the same paper again refreshes it.
func (s *SQLiteStore) SavePaper(ctx context.Context, paper *domain.SavedPaper) error {
	authors, err := json.Marshal(paper.Authors)
	if err != nil {
		return err
	}
	if paper.SavedAt.IsZero() {
		paper.SavedAt = time.Now()
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (user_id, paper_id, title, authors, abstract, summary, url, published_date, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, paper_id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			abstract = excluded.abstract,
			summary = excluded.summary,
			url = excluded.url,
			published_date = excluded.published_date,
			saved_at = excluded.saved_at`,
		paper.UserID, paper.PaperID, paper.Title, string(authors), paper.Abstract,
		nullString(paper.Summary), nullString(paper.URL), nullString(paper.PublishedDate), paper.SavedAt.UTC()); err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx,
		`SELECT id FROM papers WHERE user_id = ? AND paper_id = ?`,
		paper.UserID, paper.PaperID).Scan(&paper.ID)
}

// ListPapers returns the user's saved papers, newest first.
func (s *SQLiteStore) ListPapers(ctx context.Context, userID string) ([]domain.SavedPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, paper_id, title, authors, abstract, summary, url, published_date, saved_at
		FROM papers WHERE user_id = ? ORDER BY saved_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	papers := []domain.SavedPaper{}
	for rows.Next() {
		var p domain.SavedPaper
		var authors, abstract, summary, url, published sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.PaperID, &p.Title, &authors, &abstract, &summary, &url, &published, &p.SavedAt); err != nil {
			return nil, err
		}
		p.Authors = []string{}
		if authors.Valid && authors.String != "" {
			if err := json.Unmarshal([]byte(authors.String), &p.Authors); err != nil {
				return nil, fmt.Errorf("failed to decode authors of paper %d: %w", p.ID, err)
			}
		}
		p.Abstract = abstract.String
		p.Summary = summary.String
		p.URL = url.String
		p.PublishedDate = published.String
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// DeletePaper removes a saved paper owned by userID.
func (s *SQLiteStore) DeletePaper(ctx context.Context, userID string, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SaveQuery appends an entry to the user's search history.
func (s *SQLiteStore) SaveQuery(ctx context.Context, query *domain.QueryRecord) error {
	if query.CreatedAt.IsZero() {
		query.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (user_id, query_text, created_at) VALUES (?, ?, ?)`,
		query.UserID, query.QueryText, query.CreatedAt.UTC())
	if err != nil {
		return err
	}
	query.ID, err = res.LastInsertId()
	return err
}

// ListQueries returns the user's most recent queries, newest first.
func (s *SQLiteStore) ListQueries(ctx context.Context, userID string, limit int) ([]domain.QueryRecord, error) {
	query := `SELECT id, user_id, query_text, created_at FROM queries WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	queries := []domain.QueryRecord{}
	for rows.Next() {
		var q domain.QueryRecord
		if err := rows.Scan(&q.ID, &q.UserID, &q.QueryText, &q.CreatedAt); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

func marshalSources(sources []domain.SourceCitation) (sql.NullString, error) {
	if sources == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(sources)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode sources: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringBytes(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
