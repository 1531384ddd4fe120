package domain

// QueryRequest is the input of the question pipeline.
type QueryRequest struct {
	Question      string `json:"question"`
	SessionID     string `json:"session_id,omitempty"`
	MaxPapers     int    `json:"max_papers,omitempty"`
	MaxWebResults int    `json:"max_web_results,omitempty"`
}

// SourcesCount reports how many records each source returned.
type SourcesCount struct {
	Papers     int `json:"papers"`
	WebResults int `json:"web_results"`
}

// QueryResponse is the output of the question pipeline.
type QueryResponse struct {
	Success         bool             `json:"success"`
	SessionID       string           `json:"session_id"`
	Question        string           `json:"question"`
	Answer          string           `json:"answer"`
	Overview        string           `json:"overview,omitempty"`
	IsInDomain      bool             `json:"is_in_domain"`
	Confidence      float64          `json:"confidence"`
	MatchedTerms    []string         `json:"matched_terms"`
	SuggestedTopics []string         `json:"suggested_topics,omitempty"`
	Sources         []SourceCitation `json:"sources"`
	RawPaperResults []PaperRecord    `json:"raw_paper_results"`
	RawWebResults   []WebRecord      `json:"raw_web_results"`
	SourcesCount    SourcesCount     `json:"sources_count"`
}

// ChatRequest is the HTTP body for a pipeline call. Query is accepted as an
// alias of Question.
type ChatRequest struct {
	Question      string `json:"question"`
	Query         string `json:"query"`
	SessionID     string `json:"session_id"`
	MaxPapers     int    `json:"max_papers"`
	MaxWebResults int    `json:"max_web_results"`
}

// ChatFailure is the HTTP body returned when the pipeline fails.
type ChatFailure struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Question string `json:"question"`
}

// SearchRequest is the HTTP body for a plain paper search.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// SavePaperRequest is the HTTP body for bookmarking a paper.
type SavePaperRequest struct {
	PaperID       string   `json:"paper_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract"`
	Summary       string   `json:"summary"`
	URL           string   `json:"url"`
	PublishedDate string   `json:"published_date"`
}

// ValidateRequest is the HTTP body for a validation-only call.
type ValidateRequest struct {
	Query string `json:"query"`
}

// SummarizeRequest is the HTTP body for summarizing a paper text.
type SummarizeRequest struct {
	Text      string `json:"text"`
	PaperID   string `json:"paper_id"`
	MaxLength int    `json:"max_length"`
}

// AnalyzeRequest is the HTTP body for analyzing a paper text.
type AnalyzeRequest struct {
	Text string       `json:"text"`
	Type AnalysisType `json:"type"`
}
