package synthesis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/xiaot623/gogo/quantumqa/internal/adapter/llm"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

const (
	// DefaultSummaryLength is the summary budget in characters.
	DefaultSummaryLength = 500

	// ModelHosted and ModelExtractive name the producer of a summary or analysis.
	ModelHosted     = "huggingface"
	ModelExtractive = "smart-extraction"

	maxSummaryInput   = 1024
	analysisKeywords  = 15
	analysisSentences = 4
)

var summaryParams = llm.Params{MaxNewTokens: 200, Temperature: 0.7, TopP: 0.95}

var analysisParams = llm.Params{MaxNewTokens: 500, Temperature: 0.7, TopP: 0.95}

// stopWords are skipped by ExtractKeywords.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the a an and or but in on at to for of with by from as is was are were been
		be have has had do does did will would could should may might must can this that
		these those then than when where why how all each every both few more most other
		some such no nor not only own same so too very just about into through during
		before after above below between under again further once here there who what which whom
		whose if because while out up down off over also its our their your his her them us`) {
		stopWords[w] = struct{}{}
	}
}

// importantWords raise the score of a sentence in SmartSummary.
var importantWords = []string{
	"propose", "present", "show", "demonstrate", "find", "discover",
	"result", "conclude", "method", "approach", "novel", "new",
	"significant", "improve", "performance", "achieve", "develop",
	"introduce", "study", "research", "analysis", "model", "algorithm",
}

var analysisPrompts = map[domain.AnalysisType]string{
	domain.AnalysisGeneral:      "Analyze this research paper and provide key insights, methodology, and findings.",
	domain.AnalysisMethodology:  "Explain the methodology used in this research paper.",
	domain.AnalysisFindings:     "Summarize the key findings and results of this research paper.",
	domain.AnalysisImplications: "Discuss the implications and potential applications of this research.",
}

// Summarize condenses text to at most maxLen characters, using the hosted
// backend when it is usable and SmartSummary otherwise.
func (s *Synthesizer) Summarize(ctx context.Context, text string, maxLen int) (domain.Summary, error) {
	if maxLen <= 0 {
		maxLen = DefaultSummaryLength
	}
	if s.gen.Available() {
		prompt := fmt.Sprintf("Summarize this research paper abstract in %d characters or less:\n\n%s\n\n%s",
			maxLen, clipRunes(text, maxSummaryInput), AnswerDelimiter)
		out, err := s.generate(ctx, prompt, summaryParams)
		if err != nil {
			return domain.Summary{}, err
		}
		if out != "" {
			return domain.Summary{Text: "AI-Powered Summary:\n\n" + out, Model: ModelHosted}, nil
		}
	}
	return domain.Summary{Text: SmartSummary(text, maxLen), Model: ModelExtractive}, nil
}

// Analyze produces an analysis of the requested kind. Unknown kinds are
// treated as general.
func (s *Synthesizer) Analyze(ctx context.Context, text string, kind domain.AnalysisType) (domain.Analysis, error) {
	if _, ok := analysisPrompts[kind]; !ok {
		kind = domain.AnalysisGeneral
	}
	if s.gen.Available() {
		prompt := analysisPrompts[kind] + "\n\nPaper abstract:\n" + text + "\n\n" + AnswerDelimiter
		out, err := s.generate(ctx, prompt, analysisParams)
		if err != nil {
			return domain.Analysis{}, err
		}
		if out != "" {
			return domain.Analysis{Type: kind, Content: out, Model: ModelHosted}, nil
		}
	}
	return domain.Analysis{Type: kind, Content: SmartAnalysis(text, kind), Model: ModelExtractive}, nil
}

// generate returns "" when the backend is unavailable or echoed only the prompt.
func (s *Synthesizer) generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	text, err := s.gen.Generate(ctx, prompt, params)
	if errors.Is(err, llm.ErrUnavailable) {
		s.log.WithError(err).Warn("generation unavailable, using extraction")
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return AnswerAfterDelimiter(text), nil
}

// SmartSummary picks the highest scoring sentences of text until about 85%
// of maxLen is used. Text that already fits is returned unchanged.
func SmartSummary(text string, maxLen int) string {
	if runeLen(text) <= maxLen {
		return text
	}

	var sentences []string
	for _, s := range splitSentences(text, ". ", "! ", "? ") {
		if runeLen(s) > 10 {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return clipRunes(text, maxLen) + "..."
	}

	type scored struct {
		text  string
		score int
	}
	ranked := make([]scored, len(sentences))
	for i, sentence := range sentences {
		score := 0
		if i == 0 {
			score += 5
		}
		if i == len(sentences)-1 {
			score += 2
		}
		lower := strings.ToLower(sentence)
		for _, w := range importantWords {
			if strings.Contains(lower, w) {
				score += 2
			}
		}
		switch n := runeLen(sentence); {
		case n > 40 && n < 200:
			score += 2
		case n < 20:
			score--
		}
		ranked[i] = scored{sentence, score}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var b strings.Builder
	used := 0
	for _, r := range ranked {
		n := runeLen(r.text)
		if used+n+2 <= maxLen {
			b.WriteString(r.text + " ")
			used += n + 1
		}
		if float64(used) >= float64(maxLen)*0.85 {
			break
		}
	}
	if out := strings.TrimSpace(b.String()); out != "" {
		return "Smart Summary:\n\n" + out
	}
	return sentences[0] + "..."
}

// SmartAnalysis renders the extractive analysis template for kind.
func SmartAnalysis(text string, kind domain.AnalysisType) string {
	keywords := ExtractKeywords(text, analysisKeywords)
	points := KeySentences(splitSentences(text, ". "), analysisSentences)

	var title, termsHeader, pointsHeader, terms string
	switch kind {
	case domain.AnalysisMethodology:
		title, termsHeader, pointsHeader = "Methodology Analysis", "Identified Keywords:", "Key Methodological Points:"
		terms = strings.Join(preferKeywords(keywords, []string{"method", "approach", "model", "algorithm", "technique", "system", "framework"}, 5), ", ")
	case domain.AnalysisFindings:
		title, termsHeader, pointsHeader = "Findings Analysis", "Key Result Terms:", "Main Findings:"
		terms = strings.Join(preferKeywords(keywords, []string{"result", "performance", "achieve", "improve", "show", "demonstrate"}, 5), ", ")
	case domain.AnalysisImplications:
		title, termsHeader, pointsHeader = "Implications Analysis", "Key Concept Terms:", "Potential Implications:"
		terms = strings.Join(keywords[:min(len(keywords), 8)], ", ")
	default:
		title, termsHeader, pointsHeader = "General Analysis", "Key Terms Identified:", "Main Points:"
		terms = strings.Join(keywords[:min(len(keywords), 10)], ", ")
	}

	return title + "\n\n" +
		termsHeader + "\n" + terms + "\n\n" +
		pointsHeader + "\n" + points + "\n\n" +
		"This analysis uses extraction. Configure HUGGINGFACE_API_KEY for a generated analysis."
}

// preferKeywords keeps the keywords found in wanted, or the first n keywords
// when none are.
func preferKeywords(keywords, wanted []string, n int) []string {
	var out []string
	for _, k := range keywords {
		for _, w := range wanted {
			if k == w {
				out = append(out, k)
				break
			}
		}
	}
	if len(out) == 0 {
		out = keywords
	}
	return out[:min(len(out), n)]
}

// ExtractKeywords returns the n most frequent non-stop-words longer than
// three characters. Ties keep first-appearance order.
func ExtractKeywords(text string, n int) []string {
	counts := map[string]int{}
	var order []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, word)
		if _, stop := stopWords[word]; stop || runeLen(word) <= 3 {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	return order[:min(len(order), n)]
}

// KeySentences returns the count best sentences as bullet lines. Earlier
// sentences score higher and sentences over 30 characters get a bonus.
func KeySentences(sentences []string, count int) string {
	if len(sentences) <= count {
		lines := make([]string, 0, len(sentences))
		for _, s := range sentences {
			if s != "" {
				lines = append(lines, "• "+s)
			}
		}
		return strings.Join(lines, "\n")
	}

	idx := make([]int, len(sentences))
	score := make([]float64, len(sentences))
	for i, s := range sentences {
		idx[i] = i
		score[i] = 1.0 / float64(i+1)
		if runeLen(s) > 30 {
			score[i] += 0.5
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return score[idx[a]] > score[idx[b]] })

	lines := make([]string, 0, count)
	for _, i := range idx[:count] {
		lines = append(lines, "• "+sentences[i])
	}
	return strings.Join(lines, "\n")
}

// splitSentences splits after each separator's punctuation, keeping it.
func splitSentences(text string, seps ...string) []string {
	const mark = "\x00"
	for _, sep := range seps {
		text = strings.ReplaceAll(text, sep, strings.TrimSpace(sep)+mark)
	}
	var out []string
	for _, s := range strings.Split(text, mark) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

func clipRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
