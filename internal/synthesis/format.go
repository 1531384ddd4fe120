package synthesis

import (
	"fmt"
	"strings"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

const overviewItems = 3

// FormatAnswerWithCitations returns answer followed by a sources appendix,
// papers first. The input strings are not modified.
func FormatAnswerWithCitations(answer string, sources []domain.SourceCitation) string {
	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\n")
	if len(sources) == 0 {
		return b.String()
	}

	var papers, web []domain.SourceCitation
	for _, s := range sources {
		switch s.Type {
		case domain.SourceTypeArxiv:
			papers = append(papers, s)
		case domain.SourceTypeWeb:
			web = append(web, s)
		}
	}

	b.WriteString("Sources:\n")
	writeBlock(&b, "Research Papers:", papers)
	writeBlock(&b, "Web Resources:", web)
	return b.String()
}

func writeBlock(b *strings.Builder, header string, sources []domain.SourceCitation) {
	if len(sources) == 0 {
		return
	}
	b.WriteString("\n" + header + "\n")
	for _, s := range sources {
		fmt.Fprintf(b, "  • %s %s\n", s.Title, s.Citation)
		fmt.Fprintf(b, "    %s\n", s.URL)
	}
}

// SummarizeSources renders a short overview of what each source returned.
// At most three items per source are listed.
func SummarizeSources(question string, papers []domain.PaperRecord, web []domain.WebRecord, webConfigured bool) string {
	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	add(fmt.Sprintf("Based on your query about '%s', here's what I found from quantum computing and quantum mechanics research:", question), "")

	if len(papers) > 0 {
		add(fmt.Sprintf("Research Papers (%d found):", len(papers)), "")
		for i, p := range papers[:min(len(papers), overviewItems)] {
			add(fmt.Sprintf("%d. %s", i+1, p.Title))
			add("   Authors: " + strings.Join(p.Authors[:min(len(p.Authors), 3)], ", "))
			add("   Summary: " + clip(p.Abstract, 200))
			add("   Read more: "+p.URL, "")
		}
		if more := moreCount(len(papers)); more > 0 {
			add(fmt.Sprintf("   ... and %d more papers available", more), "")
		}
	} else {
		add("Research Papers: No arXiv papers found for this specific query.", "")
	}

	switch {
	case len(web) > 0:
		add(fmt.Sprintf("Web Resources (%d found):", len(web)), "")
		for i, w := range web[:min(len(web), overviewItems)] {
			source := w.SourceDomain
			if source == "" {
				source = "Web"
			}
			add(fmt.Sprintf("%d. %s", i+1, w.Title))
			add("   " + w.Snippet)
			add(fmt.Sprintf("   Source: %s (%s)", source, w.Link), "")
		}
		if more := moreCount(len(web)); more > 0 {
			add(fmt.Sprintf("   ... and %d more resources available", more), "")
		}
	case !webConfigured:
		add("Web Resources: Web search not available (SerpAPI key not configured)", "")
	default:
		add("Web Resources: No web results found.", "")
	}

	if len(papers) > 0 || len(web) > 0 {
		add("Key Insights: Research papers offer peer-reviewed academic insights, while web resources provide current developments and practical information.")
	} else {
		add("No specific resources found for this query. Try rephrasing your question or using different quantum-related keywords.")
	}
	return strings.Join(lines, "\n")
}

func moreCount(total int) int {
	return max(total-overviewItems, 0)
}
