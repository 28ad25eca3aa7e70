package workflow

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"ainews/internal/config"
)

// Response is the terminal result of one run: 200 for success (including
// the no-news outcome), 206 for partial success, 500 for failure. Body is
// a JSON document.
type Response struct {
	StatusCode int
	Body       string
}

// ConfigEcho repeats the settings a run executed with, so a notification
// consumer can tell what was searched without access to the environment.
type ConfigEcho struct {
	SearchQuery    string `json:"search_query"`
	TimeRangeHours int    `json:"time_range_hours"`
	MaxArticles    int    `json:"max_articles"`
	SummaryLength  string `json:"summary_length"`
	ModelName      string `json:"model_name"`
}

type responseBody struct {
	Message              string      `json:"message"`
	Timestamp            string      `json:"timestamp"`
	CorrelationID        string      `json:"correlation_id"`
	ExecutionTimeSeconds float64     `json:"execution_time_seconds"`
	Status               string      `json:"status,omitempty"`
	ErrorType            ErrorType   `json:"error_type,omitempty"`
	SummaryID            string      `json:"summary_id,omitempty"`
	ArticleCount         int         `json:"article_count,omitempty"`
	Config               *ConfigEcho `json:"config,omitempty"`
	WorkflowState        *State      `json:"workflow_state,omitempty"`
}

// responder renders terminal responses for one run.
type responder struct {
	correlationID string
	start         time.Time
	now           func() time.Time
	cfg           *config.Config
}

func (r *responder) echo() *ConfigEcho {
	return &ConfigEcho{
		SearchQuery:    r.cfg.SearchQuery,
		TimeRangeHours: r.cfg.TimeRangeHours,
		MaxArticles:    r.cfg.MaxArticles,
		SummaryLength:  r.cfg.SummaryLength,
		ModelName:      r.cfg.ModelName,
	}
}

func (r *responder) render(statusCode int, body responseBody) Response {
	end := r.now()
	body.Timestamp = end.UTC().Format(time.RFC3339)
	body.CorrelationID = r.correlationID
	body.ExecutionTimeSeconds = math.Round(end.Sub(r.start).Seconds()*100) / 100

	payload, err := json.Marshal(body)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"message":"failed to encode response","correlation_id":%q}`, r.correlationID))
	}
	return Response{StatusCode: statusCode, Body: string(payload)}
}

func (r *responder) success(message, summaryID string, articleCount int, state *State) Response {
	return r.render(200, responseBody{
		Message:       message,
		SummaryID:     summaryID,
		ArticleCount:  articleCount,
		Config:        r.echo(),
		WorkflowState: state,
	})
}

func (r *responder) noNews(message string, state *State) Response {
	return r.render(200, responseBody{
		Message:       message,
		Config:        r.echo(),
		WorkflowState: state,
	})
}

func (r *responder) partial(message string, errType ErrorType, state *State) Response {
	return r.render(206, responseBody{
		Message:       message,
		Status:        "partial_success",
		ErrorType:     errType,
		SummaryID:     state.SummaryID,
		ArticleCount:  state.ArticleCount,
		Config:        r.echo(),
		WorkflowState: state,
	})
}

func (r *responder) failure(wfErr *Error, state *State) Response {
	return r.render(500, responseBody{
		Message:       wfErr.Message,
		ErrorType:     wfErr.Type,
		Config:        r.echo(),
		WorkflowState: state,
	})
}
