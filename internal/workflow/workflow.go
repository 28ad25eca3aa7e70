// Package workflow orchestrates one fetch-summarize-publish run and turns
// every outcome, including failures, into a terminal response.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ainews/internal/config"
	"ainews/internal/format"
	"ainews/internal/model"
	"ainews/internal/stage"
)

const (
	defaultRelevanceFloor = 0.1
	defaultNoNewsAttempts = 2
	defaultNoNewsDelay    = 2 * time.Second

	fallbackArticleLimit    = 10
	fallbackNarrativeTitles = 5
	fallbackKeyPointLimit   = 8
	fallbackTitleRunes      = 100
)

// Fetcher is the fetch stage as the orchestrator sees it.
type Fetcher interface {
	Run(ctx context.Context) (*stage.FetchResult, error)
}

// Summarizer is the summarize stage as the orchestrator sees it.
type Summarizer interface {
	Run(ctx context.Context, articles []*model.Article) (*model.Summary, error)
}

// Publisher is the publish stage as the orchestrator sees it.
type Publisher interface {
	PublishSummary(ctx context.Context, summary *model.Summary) bool
	SendNoNews(ctx context.Context) bool
}

// Event triggers a run. A missing correlation id is generated so every run
// is traceable.
type Event struct {
	CorrelationID string            `json:"correlation_id,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Options tune orchestrator behavior. Zero values mean defaults.
type Options struct {
	// RelevanceFloor is the score a fetched article must exceed for the
	// run to proceed to summarization.
	RelevanceFloor float64
	NoNewsAttempts int
	NoNewsDelay    time.Duration
}

// Orchestrator drives the pipeline stages and owns the degradation policy:
// fetch failures fall back to a no-news notice, summarization failures to an
// extractive summary, publish failures to progressively smaller payloads.
type Orchestrator struct {
	cfg        *config.Config
	fetcher    Fetcher
	summarizer Summarizer
	publisher  Publisher
	logger     *slog.Logger
	opts       Options
	now        func() time.Time
}

func New(cfg *config.Config, fetcher Fetcher, summarizer Summarizer, publisher Publisher, logger *slog.Logger, opts Options) *Orchestrator {
	if opts.RelevanceFloor <= 0 {
		opts.RelevanceFloor = defaultRelevanceFloor
	}
	if opts.NoNewsAttempts < 1 {
		opts.NoNewsAttempts = defaultNoNewsAttempts
	}
	if opts.NoNewsDelay <= 0 {
		opts.NoNewsDelay = defaultNoNewsDelay
	}
	return &Orchestrator{
		cfg:        cfg,
		fetcher:    fetcher,
		summarizer: summarizer,
		publisher:  publisher,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

// Run executes one pipeline pass. It never returns an error: every outcome,
// panics included, becomes a terminal Response.
func (o *Orchestrator) Run(ctx context.Context, event Event) (resp Response) {
	correlationID := event.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	logger := o.logger.With("correlation_id", correlationID)
	state := NewState()
	r := &responder{correlationID: correlationID, start: o.now(), now: o.now, cfg: o.cfg}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("workflow panicked", "panic", rec)
			wfErr := &Error{
				Type:      ErrTypeUnknown,
				Message:   fmt.Sprintf("unexpected failure: %v", rec),
				Timestamp: o.now(),
			}
			state.RecordError(wfErr)
			resp = r.failure(wfErr, state)
		}
	}()

	logger.Info("workflow started",
		"query", o.cfg.SearchQuery,
		"time_range_hours", o.cfg.TimeRangeHours,
		"model", o.cfg.ModelName)

	result, err := o.fetcher.Run(ctx)
	if err != nil {
		wfErr := Classify(err, o.now())
		state.RecordError(wfErr)
		logger.Error("news fetching failed", "error", err)

		if o.sendNoNews(ctx, logger) {
			return r.partial("News fetching failed; sent no-news notification", wfErr.Type, state)
		}
		return r.failure(wfErr, state)
	}
	state.MarkFetched(len(result.Articles))

	if result.NoResults || !o.anyRelevant(result.Articles) {
		logger.Info("no relevant articles in window", "fetched", len(result.Articles))
		if o.sendNoNews(ctx, logger) {
			return r.noNews("No relevant news found - notification sent", state)
		}
		// The notification is informational; a quiet news day is still a
		// successful run.
		logger.Warn("no-news notification could not be delivered")
		return r.noNews("No relevant news found - notification failed", state)
	}

	summary, err := o.summarizer.Run(ctx, result.Articles)
	if err != nil {
		logger.Warn("summarization failed, building extractive summary", "error", err)
		summary = o.fallbackSummary(result.Articles)
		if summary == nil {
			wfErr := Classify(err, o.now())
			wfErr.Type = ErrTypeSummarization
			state.RecordError(wfErr)
			return r.failure(wfErr, state)
		}
	}
	state.MarkSummarized(summary.ID)

	if !o.publishWithFallbacks(ctx, logger, summary) {
		wfErr := &Error{
			Type:        ErrTypePublishing,
			Message:     "summary generated but publishing failed",
			Recoverable: true,
			Timestamp:   o.now(),
		}
		state.RecordError(wfErr)
		return r.partial("Summary generated but publishing failed", ErrTypePublishing, state)
	}
	state.MarkPublished()

	logger.Info("workflow complete",
		"summary_id", summary.ID,
		"article_count", summary.ArticleCount,
		"unique_sources", len(summary.UniqueSources()))
	return r.success("AI news summary generated and published successfully", summary.ID, summary.ArticleCount, state)
}

// anyRelevant reports whether at least one article clears the relevance
// floor. The fetch stage already filtered by threshold; this guards the
// boundary case where everything sits exactly at it.
func (o *Orchestrator) anyRelevant(articles []*model.Article) bool {
	for _, a := range articles {
		if a.Score() > o.opts.RelevanceFloor {
			return true
		}
	}
	return false
}

// sendNoNews delivers the no-news notice with a small fixed-gap retry on
// top of the publish stage's own retry.
func (o *Orchestrator) sendNoNews(ctx context.Context, logger *slog.Logger) bool {
	for attempt := 1; attempt <= o.opts.NoNewsAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(o.opts.NoNewsDelay):
			}
		}
		if o.publisher.SendNoNews(ctx) {
			return true
		}
		logger.Warn("no-news notification attempt failed", "attempt", attempt)
	}
	return false
}

// fallbackSummary is the orchestrator's last-resort summary when the
// summarize stage errors outright. Nil means nothing could be built.
func (o *Orchestrator) fallbackSummary(articles []*model.Article) *model.Summary {
	if len(articles) == 0 {
		return nil
	}

	top := articles
	if len(top) > fallbackArticleLimit {
		top = top[:fallbackArticleLimit]
	}

	pairs := make([]string, 0, len(top))
	keyPoints := make([]string, 0, len(top))
	sources := make([]model.SourceRef, 0, len(top))
	for _, a := range top {
		pairs = append(pairs, fmt.Sprintf("%s (%s)", a.Title, a.Source))
		keyPoints = append(keyPoints, format.Truncate(a.Title, fallbackTitleRunes))
		sources = append(sources, model.SourceRefFromArticle(a))
	}

	if len(pairs) > fallbackNarrativeTitles {
		pairs = pairs[:fallbackNarrativeTitles]
	}
	narrative := fmt.Sprintf("Recent Generative AI developments from %d sources include: %s",
		len(articles), strings.Join(pairs, "; "))
	if len(articles) > fallbackNarrativeTitles {
		narrative += fmt.Sprintf(" and %d more articles.", len(articles)-fallbackNarrativeTitles)
	}

	if len(keyPoints) > fallbackKeyPointLimit {
		keyPoints = keyPoints[:fallbackKeyPointLimit]
	}

	return model.NewSummary(narrative, keyPoints, sources, o.now().UTC(), len(articles))
}

// publishWithFallbacks tries the full summary, then a simplified version,
// then a minimal one. Each attempt carries the publish stage's own retry.
func (o *Orchestrator) publishWithFallbacks(ctx context.Context, logger *slog.Logger, summary *model.Summary) bool {
	if o.publisher.PublishSummary(ctx, summary) {
		return true
	}

	logger.Warn("full summary publish failed, trying simplified version", "summary_id", summary.ID)
	simplified := format.Simplify(summary, format.Limits{NarrativeChars: 1000, MaxKeyPoints: 5, MaxSources: 10})
	if o.publisher.PublishSummary(ctx, simplified) {
		return true
	}

	logger.Warn("simplified publish failed, trying minimal version", "summary_id", summary.ID)
	keyPoints := summary.KeyPoints
	if len(keyPoints) > 3 {
		keyPoints = keyPoints[:3]
	}
	sources := summary.Sources
	if len(sources) > 5 {
		sources = sources[:5]
	}
	minimal := model.NewSummary(format.Truncate(format.PlainText(summary), 500),
		keyPoints, sources, summary.GeneratedAt, summary.ArticleCount)
	return o.publisher.PublishSummary(ctx, minimal)
}
