package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

func TestDefaultPolicyFollowsValidator(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	route, err := e.Decide(ctx, Input{IsInDomain: true, Confidence: 0.5, MatchedCount: 1, QueryLength: 20})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteAnswer, route)

	route, err = e.Decide(ctx, Input{QueryLength: 20})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteRedirect, route)
}

func TestCustomPolicy(t *testing.T) {
	ctx := context.Background()
	strict := `
package route_policy

default decision = "redirect"

decision = "answer" {
	input.is_in_domain
	input.matched_count >= 2
}
`
	e, err := NewEngine(ctx, strict)
	require.NoError(t, err)

	route, _ := e.Decide(ctx, Input{IsInDomain: true, MatchedCount: 1})
	assert.Equal(t, domain.RouteRedirect, route)
	route, _ = e.Decide(ctx, Input{IsInDomain: true, MatchedCount: 2})
	assert.Equal(t, domain.RouteAnswer, route)
}

func TestUnknownDecisionFallsBack(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx, "package route_policy\n\ndecision = \"maybe\" { true }\n")
	require.NoError(t, err)

	route, err := e.Decide(ctx, Input{IsInDomain: true})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteAnswer, route)

	route, _ = e.Decide(ctx, Input{IsInDomain: false})
	assert.Equal(t, domain.RouteRedirect, route)
}

func TestPolicyCannotAdmitRejectedQuestion(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx, "package route_policy\n\ndecision = \"answer\" { true }\n")
	require.NoError(t, err)

	route, err := e.Decide(ctx, Input{IsInDomain: false, QueryLength: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteRedirect, route)
}

func TestNewEngineRejectsBadPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package route_policy\n\ndecision = {")
	assert.Error(t, err)
}

func TestNewEngineFromFile(t *testing.T) {
	ctx := context.Background()
	_, err := NewEngineFromFile(ctx, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "route.rego")
	require.NoError(t, os.WriteFile(path, []byte(DefaultPolicy), 0o600))
	_, err = NewEngineFromFile(ctx, path)
	require.NoError(t, err)

	_, err = NewEngineFromFile(ctx, filepath.Join(t.TempDir(), "missing.rego"))
	assert.Error(t, err)
}

func TestInputFor(t *testing.T) {
	in := InputFor("what is a qubit", domain.ValidationResult{IsInDomain: true, Confidence: 0.5, MatchedTerms: []string{"qubit"}})
	assert.Equal(t, Input{IsInDomain: true, Confidence: 0.5, MatchedCount: 1, QueryLength: 15}, in)
}
