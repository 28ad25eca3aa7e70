package workflow

import "time"

// StateError is the reporting projection of a classified failure.
type StateError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
}

// State tracks how far a run progressed. Completion flags only move forward
// and the error list is append-only, so the final state is an honest record
// of the run.
type State struct {
	ArticlesFetched  bool         `json:"articles_fetched"`
	SummaryGenerated bool         `json:"summary_generated"`
	SummaryPublished bool         `json:"summary_published"`
	ArticleCount     int          `json:"article_count"`
	SummaryID        string       `json:"summary_id,omitempty"`
	Errors           []StateError `json:"errors,omitempty"`
}

func NewState() *State {
	return &State{}
}

func (s *State) MarkFetched(count int) {
	s.ArticlesFetched = true
	s.ArticleCount = count
}

func (s *State) MarkSummarized(summaryID string) {
	s.SummaryGenerated = true
	s.SummaryID = summaryID
}

func (s *State) MarkPublished() {
	s.SummaryPublished = true
}

func (s *State) RecordError(e *Error) {
	s.Errors = append(s.Errors, StateError{
		Type:        e.Type,
		Message:     e.Message,
		Recoverable: e.Recoverable,
		Timestamp:   e.Timestamp,
	})
}
