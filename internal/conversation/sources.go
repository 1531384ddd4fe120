package conversation

import (
	"fmt"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

// PaperCitation is the citation label for an arXiv paper.
func PaperCitation(id string) string {
	return fmt.Sprintf("[arXiv:%s]", id)
}

// WebCitation is the citation label for a web result.
func WebCitation(sourceDomain string) string {
	if sourceDomain == "" {
		sourceDomain = "Web"
	}
	return fmt.Sprintf("[Source: %s]", sourceDomain)
}

// FormatSources maps retrieval results to citations, papers first.
func FormatSources(papers []domain.PaperRecord, web []domain.WebRecord) []domain.SourceCitation {
	out := make([]domain.SourceCitation, 0, len(papers)+len(web))
	for _, p := range papers {
		out = append(out, domain.SourceCitation{
			Type:     domain.SourceTypeArxiv,
			ID:       p.ID,
			Title:    p.Title,
			URL:      p.URL,
			Citation: PaperCitation(p.ID),
		})
	}
	for _, w := range web {
		out = append(out, domain.SourceCitation{
			Type:     domain.SourceTypeWeb,
			Title:    w.Title,
			URL:      w.Link,
			Source:   w.SourceDomain,
			Citation: WebCitation(w.SourceDomain),
		})
	}
	return out
}
