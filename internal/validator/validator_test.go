package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsDomainQueries(t *testing.T) {
	v := New()
	queries := []string{
		"What is quantum entanglement?",
		"Explain Shor's algorithm for factoring",
		"How do superconducting qubits work?",
		"What is quantum teleportation?",
		"Describe the uncertainty principle",
		"What are quantum computers?",
		"ENTANGLEMENT",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			res := v.Validate(q)
			assert.True(t, res.IsInDomain)
			assert.NotEmpty(t, res.MatchedTerms)
			assert.Empty(t, res.SuggestedTopics)
			assert.GreaterOrEqual(t, res.Confidence, 0.3)
		})
	}
}

func TestValidateRejectsOutOfDomainQueries(t *testing.T) {
	v := New()
	queries := []string{
		"What is machine learning?",
		"Tell me about deep learning",
		"How does a classical computer work?",
		"What is blockchain?",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			res := v.Validate(q)
			assert.False(t, res.IsInDomain)
			assert.Empty(t, res.MatchedTerms)
			assert.Equal(t, 0.0, res.Confidence)
			assert.Equal(t, SuggestedTopics(DefaultSuggestionCount), res.SuggestedTopics)
		})
	}
}

func TestValidateEmptyInput(t *testing.T) {
	v := New()
	for _, q := range []string{"", "   ", "\n\t"} {
		res := v.Validate(q)
		assert.False(t, res.IsInDomain)
		assert.Empty(t, res.MatchedTerms)
		assert.Equal(t, 0.0, res.Confidence)
		assert.Len(t, res.SuggestedTopics, DefaultSuggestionCount)
	}
}

func TestValidateConfidenceFormula(t *testing.T) {
	v := New()
	for _, q := range []string{
		"entanglement",
		"What is quantum entanglement?",
		"quantum computing with superconducting qubit hardware and quantum error correction",
		"spin",
	} {
		res := v.Validate(q)
		want := 0.3 * float64(len(res.MatchedTerms))
		if want > 1.0 {
			want = 1.0
		}
		assert.Equal(t, want, res.Confidence, q)
	}

	res := v.Validate("What is quantum entanglement?")
	assert.Equal(t, []string{"quantum", "entanglement"}, res.MatchedTerms)
	assert.InDelta(t, 0.6, res.Confidence, 1e-9)
}

func TestValidateCountsOverlappingTerms(t *testing.T) {
	res := New().Validate("Tell me about the quantum computer")
	assert.Contains(t, res.MatchedTerms, "quantum")
	assert.Contains(t, res.MatchedTerms, "quantum computer")
}

// Substring containment is intentionally over-inclusive.
func TestValidateMatchesInsideUnrelatedWords(t *testing.T) {
	res := New().Validate("Is spinach healthy?")
	assert.True(t, res.IsInDomain)
	assert.Equal(t, []string{"spin"}, res.MatchedTerms)
}

func TestMatchedTermsAreVocabularySubset(t *testing.T) {
	vocab := map[string]bool{}
	for _, term := range Vocabulary() {
		vocab[term] = true
	}
	res := New().Validate("Grover's algorithm on a trapped ion quantum processor with a Hadamard gate")
	require.NotEmpty(t, res.MatchedTerms)
	for _, term := range res.MatchedTerms {
		assert.True(t, vocab[term], term)
	}
}

func TestVocabularyIsLowerCaseAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, term := range Vocabulary() {
		assert.Equal(t, strings.ToLower(term), term)
		assert.False(t, seen[term], "duplicate %q", term)
		seen[term] = true
	}
	assert.Greater(t, len(seen), 100)
}

func TestSuggestedTopicsDeterministic(t *testing.T) {
	a := SuggestedTopics(8)
	b := SuggestedTopics(8)
	assert.Equal(t, a, b)
	assert.Len(t, a, 8)
	assert.Equal(t, "quantum entanglement and Bell's theorem", a[0])

	a[0] = "mutated"
	assert.NotEqual(t, "mutated", SuggestedTopics(1)[0])

	assert.Len(t, SuggestedTopics(100), 14)
	assert.Empty(t, SuggestedTopics(-1))
}

func TestRejectionMessageListsSixTopics(t *testing.T) {
	msg := RejectionMessage()
	assert.Equal(t, RejectionSuggestionCount, strings.Count(msg, "  • "))
	for _, topic := range SuggestedTopics(RejectionSuggestionCount) {
		assert.Contains(t, msg, topic)
	}
	assert.Equal(t, msg, RejectionMessage())
}
