// Package validator decides whether a question belongs to the quantum
// computing / quantum mechanics domain.
//
// Matching is lexical: the lower-cased query is checked for substring
// containment of every vocabulary entry. Overlapping entries ("quantum" and
// "quantum entanglement") both count, and entries can match inside unrelated
// words ("spin" in "spinach").
package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

const (
	confidencePerMatch = 0.3

	// DefaultSuggestionCount is the number of topics attached to a rejection.
	DefaultSuggestionCount = 8
	// RejectionSuggestionCount is the number of topics listed in the redirect message.
	RejectionSuggestionCount = 6
)

// vocabulary is the fixed domain keyword list. Entries are lower case and unique.
var vocabulary = []string{
	// Quantum computing
	"quantum", "qubit", "qubits", "superposition", "entanglement",
	"quantum computing", "quantum computer", "quantum algorithm",
	"quantum gate", "quantum gates", "quantum circuit", "quantum circuits",
	"quantum supremacy", "quantum advantage", "quantum error correction",
	"quantum annealing", "adiabatic quantum", "topological quantum",
	"quantum simulation", "quantum simulator", "variational quantum",
	"quantum machine learning", "quantum cryptography", "qec", "nisq",

	// Algorithms and software
	"shor", "shor's algorithm", "grover", "grover's algorithm",
	"quantum fourier transform", "qft", "vqe", "qaoa",
	"variational quantum eigensolver", "quantum approximate optimization",
	"phase estimation", "amplitude amplification", "quantum walk",
	"quantum search", "quantum optimization", "qiskit", "cirq", "pennylane",
	"quantum programming",

	// Hardware
	"quantum processor", "quantum chip", "superconducting qubit", "transmon",
	"flux qubit", "ion trap", "trapped ion", "photonic quantum", "photonic qubit",
	"topological qubit", "majorana", "dilution refrigerator", "cryogenic",

	// Quantum mechanics
	"quantum mechanics", "quantum physics", "quantum theory",
	"wave function", "wavefunction", "schrodinger", "schrödinger",
	"heisenberg", "uncertainty principle", "pauli", "dirac",
	"fermion", "boson", "spin", "angular momentum", "orbital",
	"quantum state", "quantum states", "quantum system", "quantum systems",
	"quantum operator", "quantum observable", "quantum measurement",
	"hamiltonian", "eigenvalue", "eigenstate", "quantum field theory",
	"quantum electrodynamics", "qed", "quantum chromodynamics", "qcd",
	"photon", "phonon", "quantum harmonic oscillator", "quantum tunneling",
	"quantum coherence", "decoherence", "hilbert space", "density matrix",
	"quantum correlations", "quantum nonlocality", "quantum contextuality",
	"quantum foundations",

	// Quantum information
	"quantum information", "quantum communication", "quantum internet",
	"quantum teleportation", "quantum key distribution", "qkd",
	"quantum channel", "quantum entropy", "von neumann entropy",
	"quantum sensor", "quantum metrology", "quantum imaging",

	// Materials
	"quantum material", "quantum materials", "quantum dot", "quantum dots",
	"quantum well", "quantum wire", "topological insulator",
	"majorana fermion", "quantum hall effect",

	// Phenomena and formalism
	"bell state", "bell inequality", "bell's theorem", "epr paradox",
	"no-cloning theorem", "quantum interference", "quantum phase",
	"bloch sphere", "pauli matrices", "clifford gates", "hadamard gate",
	"cnot gate", "t gate", "toffoli gate",
}

var suggestedTopics = []string{
	"quantum entanglement and Bell's theorem",
	"quantum algorithms (Shor's, Grover's, VQE, QAOA)",
	"quantum error correction and fault-tolerant quantum computing",
	"quantum supremacy and quantum advantage",
	"qubits and quantum gates",
	"superposition and quantum measurement",
	"quantum cryptography and quantum key distribution",
	"quantum computing hardware (superconducting, ion trap, photonic)",
	"quantum mechanics fundamentals",
	"quantum field theory",
	"topological quantum computing",
	"quantum annealing and optimization",
	"NISQ (Noisy Intermediate-Scale Quantum) devices",
	"quantum simulation and quantum chemistry",
}

// Validator classifies queries against the fixed vocabulary. The zero value
// is ready to use.
type Validator struct{}

// New returns a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate classifies query. It never fails.
func (v *Validator) Validate(query string) domain.ValidationResult {
	if strings.TrimSpace(query) == "" {
		return domain.ValidationResult{
			MatchedTerms:    []string{},
			SuggestedTopics: SuggestedTopics(DefaultSuggestionCount),
		}
	}

	lower := strings.ToLower(query)
	matched := make([]string, 0)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			matched = append(matched, term)
		}
	}

	result := domain.ValidationResult{
		IsInDomain:      len(matched) > 0,
		Confidence:      Confidence(len(matched)),
		MatchedTerms:    matched,
		SuggestedTopics: []string{},
	}
	if !result.IsInDomain {
		result.SuggestedTopics = SuggestedTopics(DefaultSuggestionCount)
	}
	return result
}

// Confidence is linear in the number of matches, capped at 1.
func Confidence(matches int) float64 {
	return math.Min(confidencePerMatch*float64(matches), 1.0)
}

// SuggestedTopics returns the first n entries of the master topic list.
func SuggestedTopics(n int) []string {
	if n < 0 {
		n = 0
	}
	if n > len(suggestedTopics) {
		n = len(suggestedTopics)
	}
	out := make([]string, n)
	copy(out, suggestedTopics[:n])
	return out
}

// Vocabulary returns a copy of the domain vocabulary.
func Vocabulary() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// RejectionMessage is the redirect reply for out-of-domain questions.
func RejectionMessage() string {
	var b strings.Builder
	for _, topic := range SuggestedTopics(RejectionSuggestionCount) {
		fmt.Fprintf(&b, "  • %s\n", topic)
	}

	return "I'm a specialized Quantum Computing & Quantum Mechanics Assistant. " +
		"I can only help with questions related to quantum topics.\n\n" +
		"Your question doesn't appear to be related to quantum computing or quantum mechanics.\n\n" +
		"Here are some quantum topics I can help you with:\n" +
		b.String() +
		"\nPlease ask a question related to quantum computing or quantum mechanics!"
}
