// Package synthesis composes answers from retrieved context.
package synthesis

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/adapter/arxiv"
	"github.com/xiaot623/gogo/quantumqa/internal/adapter/llm"
	"github.com/xiaot623/gogo/quantumqa/internal/adapter/serp"
)

// AnswerDelimiter ends every prompt; generated text after it is the answer.
const AnswerDelimiter = "Answer:"

const (
	maxPromptLen  = 1500
	maxContextLen = 1200
)

// Synthesizer turns a question plus retrieved context into an answer.
type Synthesizer struct {
	gen    llm.Generator
	params llm.Params
	log    logrus.FieldLogger
}

// New creates a synthesizer using gen with the default sampling parameters.
func New(gen llm.Generator, log logrus.FieldLogger) *Synthesizer {
	return &Synthesizer{
		gen:    gen,
		params: llm.DefaultParams,
		log:    log.WithField("component", "synthesis"),
	}
}

// BuildPrompt assembles the generation prompt. Context blocks equal to the
// adapters' "nothing found" text are left out.
func BuildPrompt(question, paperCtx, webCtx, convCtx string) string {
	var b strings.Builder
	b.WriteString("You are a quantum computing and quantum mechanics expert assistant. ")
	b.WriteString("Answer the following question using the provided research papers and web sources.\n\n")

	if convCtx != "" {
		b.WriteString(convCtx + "\n\n")
	}
	if paperCtx != "" && paperCtx != arxiv.NoneFound {
		b.WriteString(paperCtx + "\n\n")
	}
	if webCtx != "" && webCtx != serp.NoneFound {
		b.WriteString(webCtx + "\n\n")
	}

	b.WriteString("Question: " + question + "\n\n")
	b.WriteString("Provide a comprehensive answer that:\n")
	b.WriteString("1. Directly answers the question\n")
	b.WriteString("2. Incorporates information from the research papers and web sources\n")
	b.WriteString("3. Is accurate and scientifically sound\n")
	b.WriteString("4. Is clear and understandable\n\n")
	b.WriteString(AnswerDelimiter)
	return b.String()
}

// TruncatePrompt shortens prompts over the hosted model's budget. The
// question and instructions are kept whole; the context before them is cut.
func TruncatePrompt(prompt string) string {
	if len([]rune(prompt)) <= maxPromptLen {
		return prompt
	}
	i := strings.LastIndex(prompt, "Question:")
	if i < 0 {
		return string([]rune(prompt)[:maxPromptLen])
	}
	head := []rune(prompt[:i])
	if len(head) > maxContextLen {
		head = head[:maxContextLen]
	}
	return string(head) + prompt[i:]
}

// GenerateAnswer asks the backend for an answer and falls back to the
// extractive composer when the backend is unavailable. Other generator
// errors are returned.
func (s *Synthesizer) GenerateAnswer(ctx context.Context, question, paperCtx, webCtx, convCtx string) (string, error) {
	if !s.gen.Available() {
		s.log.Debug("generator not configured, using extractive answer")
		return ExtractiveAnswer(paperCtx, webCtx), nil
	}

	prompt := TruncatePrompt(BuildPrompt(question, paperCtx, webCtx, convCtx))
	text, err := s.gen.Generate(ctx, prompt, s.params)
	if errors.Is(err, llm.ErrUnavailable) {
		s.log.WithError(err).Warn("generation unavailable, using extractive answer")
		return ExtractiveAnswer(paperCtx, webCtx), nil
	}
	if err != nil {
		return "", err
	}

	answer := AnswerAfterDelimiter(text)
	if answer == "" {
		s.log.Warn("generation returned only the prompt, using extractive answer")
		return ExtractiveAnswer(paperCtx, webCtx), nil
	}
	return answer, nil
}

// AnswerAfterDelimiter strips an echoed prompt from generated text.
func AnswerAfterDelimiter(text string) string {
	if i := strings.LastIndex(text, AnswerDelimiter); i >= 0 {
		return strings.TrimSpace(text[i+len(AnswerDelimiter):])
	}
	return strings.TrimSpace(text)
}
