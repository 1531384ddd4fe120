package service

import (
	"context"

	"github.com/xiaot623/gogo/quantumqa/internal/apperr"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

// NewSession creates an empty session for userID.
func (s *Service) NewSession(ctx context.Context, userID string) (string, error) {
	return s.conv.CreateSession(ctx, userID)
}

// Sessions lists the user's sessions, most recently active first.
func (s *Service) Sessions(ctx context.Context, userID string, limit int) ([]domain.SessionSummary, error) {
	return s.conv.GetUserSessions(ctx, userID, clampLimit(limit, s.config.SessionListDefault, s.config.MaxSearchResults))
}

// History returns the session's recent messages in chronological order.
func (s *Service) History(ctx context.Context, sessionID, userID string, limit int) ([]domain.Message, error) {
	ok, err := s.conv.SessionExists(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.E(apperr.CodeNotFound, "Service.History", "session not found", nil)
	}
	if limit < 0 {
		limit = s.config.HistoryLimit
	}
	return s.conv.GetConversationHistory(ctx, sessionID, userID, limit)
}

// DeleteSession removes a session owned by userID.
func (s *Service) DeleteSession(ctx context.Context, sessionID, userID string) error {
	deleted, err := s.conv.DeleteSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.E(apperr.CodeNotFound, "Service.DeleteSession", "session not found", nil)
	}
	return nil
}
