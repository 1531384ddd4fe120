// Package policy decides whether a validated question is answered or redirected.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

// Input is the document the route policy is evaluated against.
type Input struct {
	IsInDomain   bool    `json:"is_in_domain"`
	Confidence   float64 `json:"confidence"`
	MatchedCount int     `json:"matched_count"`
	QueryLength  int     `json:"query_length"`
}

// InputFor builds the policy input for a validated question.
func InputFor(question string, v domain.ValidationResult) Input {
	return Input{
		IsInDomain:   v.IsInDomain,
		Confidence:   v.Confidence,
		MatchedCount: len(v.MatchedTerms),
		QueryLength:  len([]rune(question)),
	}
}

// Engine is the OPA route engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.route_policy.decision"),
		rego.Module("route_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewEngineFromFile loads the policy from path, or DefaultPolicy when path is empty.
func NewEngineFromFile(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewEngine(ctx, string(b))
}

// Decide evaluates the route for input. A policy that yields nothing, or
// something other than a known route, falls back to the validator verdict.
// Rejected questions are always redirected.
func (e *Engine) Decide(ctx context.Context, input Input) (domain.Route, error) {
	if !input.IsInDomain {
		return domain.RouteRedirect, nil
	}
	fallback := domain.RouteAnswer

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return fallback, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return fallback, nil
	}

	s, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return fallback, nil
	}
	switch route := domain.Route(s); route {
	case domain.RouteAnswer, domain.RouteRedirect:
		return route, nil
	default:
		return fallback, nil
	}
}

// DefaultPolicy answers exactly the questions the validator accepts.
const DefaultPolicy = `
package route_policy

default decision = "redirect"

decision = "answer" {
	input.is_in_domain
}
`
