package stage

import "fmt"

// NewsFetchError means the news source could not be reached even after
// retries. The orchestrator recovers through the no-news path.
type NewsFetchError struct {
	Attempts int
	Err      error
}

func (e *NewsFetchError) Error() string {
	return fmt.Sprintf("news fetching failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *NewsFetchError) Unwrap() error { return e.Err }

// SummarizationError means neither the model-backed path nor the extractive
// fallback produced a summary.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summary generation failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }
