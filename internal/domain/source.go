package domain

// PaperRecord is a normalized academic-paper search result.
type PaperRecord struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract"`
	URL           string   `json:"url"`
	PublishedDate string   `json:"published"`
	UpdatedDate   string   `json:"updated,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PDFURL        string   `json:"pdf_url"`
}

// WebRecord is a normalized web-search result.
type WebRecord struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	Snippet      string `json:"snippet"`
	SourceDomain string `json:"source"`
	Position     int    `json:"position"`
	IsFeatured   bool   `json:"is_featured,omitempty"`
}

// SourceCitation is the stub of a source embedded in an assistant message.
type SourceCitation struct {
	Type     SourceType `json:"type"`
	ID       string     `json:"id,omitempty"`
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	Source   string     `json:"source,omitempty"`
	Citation string     `json:"citation"`
}

// ValidationResult is the outcome of topic validation for one query.
type ValidationResult struct {
	IsInDomain      bool     `json:"is_in_domain"`
	Confidence      float64  `json:"confidence"`
	MatchedTerms    []string `json:"matched_terms"`
	SuggestedTopics []string `json:"suggested_topics"`
}
