package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ainews/internal/stage"
)

// ErrorType classifies a workflow failure for reporting and alerting.
type ErrorType string

const (
	ErrTypeNewsFetch     ErrorType = "news_fetch_error"
	ErrTypeSummarization ErrorType = "summarization_error"
	ErrTypePublishing    ErrorType = "publishing_error"
	ErrTypeConfiguration ErrorType = "configuration_error"
	ErrTypeTimeout       ErrorType = "timeout_error"
	ErrTypeUnknown       ErrorType = "unknown_error"
)

// Error is the classified form every failure takes before it reaches the
// response. Recoverable failures have a degraded path; the rest abort.
type Error struct {
	Type        ErrorType
	Message     string
	Recoverable bool
	Timestamp   time.Time
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps a stage or context failure onto the error taxonomy.
func Classify(err error, at time.Time) *Error {
	var fetchErr *stage.NewsFetchError
	if errors.As(err, &fetchErr) {
		return &Error{
			Type:        ErrTypeNewsFetch,
			Message:     "news fetching failed",
			Recoverable: true,
			Timestamp:   at,
			Err:         err,
		}
	}

	// Summarization errors surface only after the extractive fallback has
	// also been ruled out, so there is no degraded path left.
	var sumErr *stage.SummarizationError
	if errors.As(err, &sumErr) {
		return &Error{
			Type:      ErrTypeSummarization,
			Message:   "summary generation failed",
			Timestamp: at,
			Err:       err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Type:      ErrTypeTimeout,
			Message:   "workflow ran out of time",
			Timestamp: at,
			Err:       err,
		}
	}

	return &Error{
		Type:      ErrTypeUnknown,
		Message:   "unexpected failure",
		Timestamp: at,
		Err:       err,
	}
}
