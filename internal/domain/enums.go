// Package domain defines the core domain models for the research assistant.
package domain

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the stored roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Label is the speaker label used when replaying a conversation as text.
func (r Role) Label() string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}

// SourceType identifies which retrieval source produced a citation.
type SourceType string

const (
	SourceTypeArxiv SourceType = "arxiv"
	SourceTypeWeb   SourceType = "web"
)

// Route is the pipeline branch chosen for a validated question.
type Route string

const (
	RouteAnswer   Route = "answer"
	RouteRedirect Route = "redirect"
)

// AnalysisType selects the focus of a paper analysis.
type AnalysisType string

const (
	AnalysisGeneral      AnalysisType = "general"
	AnalysisMethodology  AnalysisType = "methodology"
	AnalysisFindings     AnalysisType = "findings"
	AnalysisImplications AnalysisType = "implications"
)
