package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/adapter/arxiv"
	"github.com/xiaot623/gogo/quantumqa/internal/adapter/serp"
	"github.com/xiaot623/gogo/quantumqa/internal/apperr"
	"github.com/xiaot623/gogo/quantumqa/internal/conversation"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
	"github.com/xiaot623/gogo/quantumqa/internal/policy"
	"github.com/xiaot623/gogo/quantumqa/internal/synthesis"
	"github.com/xiaot623/gogo/quantumqa/internal/validator"
)

const pipelineFailure = "pipeline failure"

// ProcessQuery runs one question through validation, retrieval, synthesis
// and persistence. Every successful return has stored exactly one question
// and one answer; on error nothing of the exchange is stored.
func (s *Service) ProcessQuery(ctx context.Context, userID string, req domain.QueryRequest) (*domain.QueryResponse, error) {
	const op = "Service.ProcessQuery"

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperr.E(apperr.CodeInvalidArgument, op, "question is required", nil)
	}

	validation := s.validator.Validate(question)
	route := s.route(ctx, question, validation)

	sessionID, err := s.resolveSession(ctx, userID, req.SessionID)
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": sessionID,
		"route":      route,
		"confidence": validation.Confidence,
	})

	if route == domain.RouteRedirect {
		return s.redirect(ctx, log, userID, sessionID, question, validation)
	}
	return s.answer(ctx, log, userID, sessionID, question, validation, req)
}

func (s *Service) route(ctx context.Context, question string, v domain.ValidationResult) domain.Route {
	if s.routes == nil {
		if v.IsInDomain {
			return domain.RouteAnswer
		}
		return domain.RouteRedirect
	}
	route, err := s.routes.Decide(ctx, policy.InputFor(question, v))
	if err != nil {
		s.log.WithError(err).Warn("route policy failed, using validator verdict")
	}
	return route
}

// resolveSession returns the caller's session, creating one when none was given.
func (s *Service) resolveSession(ctx context.Context, userID, sessionID string) (string, error) {
	const op = "Service.resolveSession"
	if sessionID == "" {
		return s.conv.CreateSession(ctx, userID)
	}
	ok, err := s.conv.SessionExists(ctx, sessionID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.E(apperr.CodeNotFound, op, "session not found", nil)
	}
	return sessionID, nil
}

func (s *Service) redirect(ctx context.Context, log logrus.FieldLogger, userID, sessionID, question string, v domain.ValidationResult) (*domain.QueryResponse, error) {
	answer := validator.RejectionMessage()
	if err := s.conv.RecordExchange(ctx, sessionID, userID, question, answer, nil); err != nil {
		log.WithError(err).Error("failed to record redirect")
		return nil, apperr.E(apperr.CodeInternal, "Service.ProcessQuery", pipelineFailure, err)
	}
	s.recordQuery(ctx, userID, question)

	suggestions := v.SuggestedTopics
	if len(suggestions) == 0 {
		suggestions = validator.SuggestedTopics(validator.DefaultSuggestionCount)
	}
	log.Info("question redirected")
	return &domain.QueryResponse{
		Success:         true,
		SessionID:       sessionID,
		Question:        question,
		Answer:          answer,
		IsInDomain:      false,
		Confidence:      v.Confidence,
		MatchedTerms:    v.MatchedTerms,
		SuggestedTopics: suggestions,
		Sources:         []domain.SourceCitation{},
		RawPaperResults: []domain.PaperRecord{},
		RawWebResults:   []domain.WebRecord{},
	}, nil
}

func (s *Service) answer(ctx context.Context, log logrus.FieldLogger, userID, sessionID, question string, v domain.ValidationResult, req domain.QueryRequest) (*domain.QueryResponse, error) {
	const op = "Service.ProcessQuery"

	// Read prior turns before this exchange is written.
	convCtx, err := s.conv.GetContextForModel(ctx, sessionID, userID, s.config.ContextMessages)
	if err != nil {
		log.WithError(err).Error("failed to load conversation context")
		return nil, apperr.E(apperr.CodeInternal, op, pipelineFailure, err)
	}

	maxPapers := clampLimit(req.MaxPapers, s.config.MaxPapers, s.config.MaxSearchResults)
	maxWeb := clampLimit(req.MaxWebResults, s.config.MaxWebResults, s.config.MaxSearchResults)
	papers, web := s.retrieve(ctx, question, maxPapers, maxWeb)

	paperCtx := arxiv.FormatForContext(papers)
	webCtx := serp.FormatForContext(web)
	answer, err := s.synth.GenerateAnswer(ctx, question, paperCtx, webCtx, convCtx)
	if err != nil {
		log.WithError(err).Error("answer generation failed")
		return nil, apperr.E(apperr.CodeInternal, op, pipelineFailure, err)
	}

	sources := conversation.FormatSources(papers, web)
	answer = synthesis.FormatAnswerWithCitations(answer, sources)

	if err := s.conv.RecordExchange(ctx, sessionID, userID, question, answer, sources); err != nil {
		log.WithError(err).Error("failed to record exchange")
		return nil, apperr.E(apperr.CodeInternal, op, pipelineFailure, err)
	}
	s.recordQuery(ctx, userID, question)

	log.WithFields(logrus.Fields{"papers": len(papers), "web_results": len(web)}).Info("question answered")
	return &domain.QueryResponse{
		Success:         true,
		SessionID:       sessionID,
		Question:        question,
		Answer:          answer,
		Overview:        synthesis.SummarizeSources(question, papers, web, s.web.Configured()),
		IsInDomain:      v.IsInDomain,
		Confidence:      v.Confidence,
		MatchedTerms:    v.MatchedTerms,
		Sources:         sources,
		RawPaperResults: papers,
		RawWebResults:   web,
		SourcesCount:    domain.SourcesCount{Papers: len(papers), WebResults: len(web)},
	}, nil
}

// recordQuery appends to search history. Failures are logged only.
func (s *Service) recordQuery(ctx context.Context, userID, query string) {
	if err := s.store.SaveQuery(ctx, &domain.QueryRecord{UserID: userID, QueryText: query}); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to record query history")
	}
}
