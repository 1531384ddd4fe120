package service

import (
	"context"
	"strings"

	"github.com/xiaot623/gogo/quantumqa/internal/apperr"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

// SearchPapers runs a plain paper search and records it in the user's history.
func (s *Service) SearchPapers(ctx context.Context, userID, query string, maxResults int) ([]domain.PaperRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.E(apperr.CodeInvalidArgument, "Service.SearchPapers", "query is required", nil)
	}
	limit := clampLimit(maxResults, s.config.MaxPapers, s.config.MaxSearchResults)
	papers := s.searchPapers(ctx, query, limit)
	if papers == nil {
		papers = []domain.PaperRecord{}
	}
	s.recordQuery(ctx, userID, query)
	return papers, nil
}

// SavePaper bookmarks a paper. Missing metadata is looked up on arXiv.
func (s *Service) SavePaper(ctx context.Context, userID string, req domain.SavePaperRequest) (*domain.SavedPaper, error) {
	const op = "Service.SavePaper"
	paperID := strings.TrimSpace(req.PaperID)
	if paperID == "" {
		return nil, apperr.E(apperr.CodeInvalidArgument, op, "paper_id is required", nil)
	}

	paper := &domain.SavedPaper{
		UserID:        userID,
		PaperID:       paperID,
		Title:         req.Title,
		Authors:       req.Authors,
		Abstract:      req.Abstract,
		Summary:       req.Summary,
		URL:           req.URL,
		PublishedDate: req.PublishedDate,
	}
	if paper.Title == "" {
		rec := s.papers.GetPaper(ctx, paperID)
		if rec == nil {
			return nil, apperr.E(apperr.CodeNotFound, op, "paper not found", nil)
		}
		paper.Title = rec.Title
		paper.Authors = rec.Authors
		paper.Abstract = rec.Abstract
		paper.URL = rec.URL
		paper.PublishedDate = rec.PublishedDate
	}
	if paper.Authors == nil {
		paper.Authors = []string{}
	}

	if err := s.store.SavePaper(ctx, paper); err != nil {
		return nil, apperr.E(apperr.CodeInternal, op, "storage error", err)
	}
	return paper, nil
}

// ListPapers returns the user's saved papers.
func (s *Service) ListPapers(ctx context.Context, userID string) ([]domain.SavedPaper, error) {
	papers, err := s.store.ListPapers(ctx, userID)
	if err != nil {
		return nil, apperr.E(apperr.CodeInternal, "Service.ListPapers", "storage error", err)
	}
	return papers, nil
}

// DeletePaper removes a saved paper owned by userID.
func (s *Service) DeletePaper(ctx context.Context, userID string, id int64) error {
	const op = "Service.DeletePaper"
	deleted, err := s.store.DeletePaper(ctx, userID, id)
	if err != nil {
		return apperr.E(apperr.CodeInternal, op, "storage error", err)
	}
	if !deleted {
		return apperr.E(apperr.CodeNotFound, op, "paper not found", nil)
	}
	return nil
}

// QueryHistory returns the user's most recent searches.
func (s *Service) QueryHistory(ctx context.Context, userID string, limit int) ([]domain.QueryRecord, error) {
	queries, err := s.store.ListQueries(ctx, userID, clampLimit(limit, s.config.HistoryLimit, s.config.MaxSearchResults))
	if err != nil {
		return nil, apperr.E(apperr.CodeInternal, "Service.QueryHistory", "storage error", err)
	}
	return queries, nil
}
