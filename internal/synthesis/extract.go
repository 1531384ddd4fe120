package synthesis

import (
	"strings"
	"unicode"

	"github.com/xiaot623/gogo/quantumqa/internal/adapter/arxiv"
	"github.com/xiaot623/gogo/quantumqa/internal/adapter/serp"
)

const extractLen = 500

// NoInformationAnswer is returned when neither source produced usable text.
const NoInformationAnswer = "I apologize, but I couldn't find sufficient information to answer your quantum question. " +
	"This might be because:\n" +
	"1. The topic is very specialized or recent\n" +
	"2. The search didn't return relevant results\n\n" +
	"Please try rephrasing your question or asking about a different quantum topic."

// ExtractiveAnswer composes an answer from the context blocks alone.
func ExtractiveAnswer(paperCtx, webCtx string) string {
	var sections []string
	if paperCtx != "" && paperCtx != arxiv.NoneFound {
		if abstracts := ExtractAbstracts(paperCtx); abstracts != "" {
			sections = append(sections, "From Research Papers:\n"+clip(abstracts, extractLen))
		}
	}
	if webCtx != "" && webCtx != serp.NoneFound {
		if snippets := ExtractSnippets(webCtx); snippets != "" {
			sections = append(sections, "From Web Sources:\n"+clip(snippets, extractLen))
		}
	}
	if len(sections) == 0 {
		return NoInformationAnswer
	}

	var b strings.Builder
	b.WriteString("Based on the available sources:\n\n")
	for _, s := range sections {
		b.WriteString(s + "\n\n")
	}
	b.WriteString("Note: For more detailed AI-generated answers, please configure a HUGGINGFACE_API_KEY.")
	return b.String()
}

// ExtractAbstracts joins the text after each abstract marker in a paper digest.
func ExtractAbstracts(paperCtx string) string {
	var parts []string
	for _, line := range strings.Split(paperCtx, "\n") {
		i := strings.LastIndex(line, arxiv.AbstractMarker)
		if i < 0 {
			continue
		}
		if s := strings.TrimSpace(line[i+len(arxiv.AbstractMarker):]); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ExtractSnippets joins the snippet lines of a web digest, skipping the
// header, numbered titles and source lines.
func ExtractSnippets(webCtx string) string {
	var parts []string
	for _, line := range strings.Split(webCtx, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "",
			strings.HasPrefix(line, "Web Search"),
			strings.HasPrefix(line, "Source:"),
			strings.HasSuffix(line, ":"),
			isNumbered(line):
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// isNumbered matches list titles such as "3. Title".
func isNumbered(line string) bool {
	if line == "" || !unicode.IsDigit(rune(line[0])) {
		return false
	}
	head := line
	if len(head) > 5 {
		head = head[:5]
	}
	return strings.Contains(head, ". ")
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
