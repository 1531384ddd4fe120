package domain

import "time"

// SavedPaper is a paper bookmarked by a user.
type SavedPaper struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	PaperID       string    `json:"paper_id"`
	Title         string    `json:"title"`
	Authors       []string  `json:"authors"`
	Abstract      string    `json:"abstract"`
	Summary       string    `json:"summary,omitempty"`
	URL           string    `json:"url,omitempty"`
	PublishedDate string    `json:"published_date,omitempty"`
	SavedAt       time.Time `json:"saved_at"`
}

// QueryRecord is one entry of a user's search history.
type QueryRecord struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	QueryText string    `json:"query_text"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is a condensed paper text and the producer that wrote it.
type Summary struct {
	Text  string `json:"summary"`
	Model string `json:"model"`
}

// Analysis is a focused reading of a paper text.
type Analysis struct {
	Type    AnalysisType `json:"type"`
	Content string       `json:"content"`
	Model   string       `json:"model"`
}
