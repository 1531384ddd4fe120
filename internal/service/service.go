// Package service implements the question pipeline and the session, paper
// and history operations behind the HTTP API.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/adapter/llm"
	"github.com/xiaot623/gogo/quantumqa/internal/cache"
	"github.com/xiaot623/gogo/quantumqa/internal/config"
	"github.com/xiaot623/gogo/quantumqa/internal/conversation"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
	"github.com/xiaot623/gogo/quantumqa/internal/policy"
	"github.com/xiaot623/gogo/quantumqa/internal/repository"
	"github.com/xiaot623/gogo/quantumqa/internal/synthesis"
	"github.com/xiaot623/gogo/quantumqa/internal/validator"
)

// PaperSource searches academic papers. Search never fails; an unavailable
// source yields an empty slice.
type PaperSource interface {
	Search(ctx context.Context, query string, maxResults int) []domain.PaperRecord
	GetPaper(ctx context.Context, id string) *domain.PaperRecord
}

// WebSource searches the web. Search never fails.
type WebSource interface {
	Search(ctx context.Context, query string, maxResults int) []domain.WebRecord
	Configured() bool
}

type Service struct {
	store     repository.Store
	papers    PaperSource
	web       WebSource
	routes    *policy.Engine
	cache     cache.Cache
	config    *config.Config
	log       logrus.FieldLogger
	validator *validator.Validator
	conv      *conversation.Manager
	synth     *synthesis.Synthesizer
}

// New wires the pipeline. cache may be nil to disable retrieval caching.
func New(cfg *config.Config, store repository.Store, papers PaperSource, web WebSource, gen llm.Generator, routes *policy.Engine, c cache.Cache, log logrus.FieldLogger) *Service {
	return &Service{
		store:     store,
		papers:    papers,
		web:       web,
		routes:    routes,
		cache:     c,
		config:    cfg,
		log:       log.WithField("component", "service"),
		validator: validator.New(),
		conv:      conversation.NewManager(store, log),
		synth:     synthesis.New(gen, log),
	}
}

// Validate classifies a question without running the pipeline.
func (s *Service) Validate(query string) domain.ValidationResult {
	return s.validator.Validate(query)
}

// clampLimit applies def to non-positive values and caps the result at ceiling.
func clampLimit(v, def, ceiling int) int {
	if v <= 0 {
		v = def
	}
	if ceiling > 0 && v > ceiling {
		v = ceiling
	}
	return v
}
