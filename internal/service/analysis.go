package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/apperr"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

// Summarize condenses a paper text. Nothing is stored.
func (s *Service) Summarize(ctx context.Context, userID string, req domain.SummarizeRequest) (*domain.Summary, error) {
	const op = "Service.Summarize"
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperr.E(apperr.CodeInvalidArgument, op, "text is required", nil)
	}

	summary, err := s.synth.Summarize(ctx, text, req.MaxLength)
	if err != nil {
		s.log.WithError(err).WithField("paper_id", req.PaperID).Error("summarization failed")
		return nil, apperr.E(apperr.CodeInternal, op, "summarization failed", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "paper_id": req.PaperID, "model": summary.Model}).Info("summary generated")
	return &summary, nil
}

// Analyze produces a focused analysis of a paper text. Nothing is stored.
func (s *Service) Analyze(ctx context.Context, userID string, req domain.AnalyzeRequest) (*domain.Analysis, error) {
	const op = "Service.Analyze"
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperr.E(apperr.CodeInvalidArgument, op, "text is required", nil)
	}

	analysis, err := s.synth.Analyze(ctx, text, req.Type)
	if err != nil {
		s.log.WithError(err).WithField("type", req.Type).Error("analysis failed")
		return nil, apperr.E(apperr.CodeInternal, op, "analysis failed", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "type": analysis.Type, "model": analysis.Model}).Info("analysis generated")
	return &analysis, nil
}
