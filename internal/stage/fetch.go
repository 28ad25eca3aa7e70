package stage

import (
	"context"
	"log/slog"
	"time"

	"ainews/internal/model"
	"ainews/internal/retry"
	"ainews/pkg/news"
)

// FetchResult is the tagged outcome of a fetch: either a list of relevant
// articles or an explicit no-results marker. "No results" is a valid
// outcome, distinct from "search failed".
type FetchResult struct {
	Articles  []*model.Article
	NoResults bool
	Attempts  int
}

// FetchStage wraps the news source with retry and time-window filtering.
type FetchStage struct {
	source      news.Source
	query       string
	window      time.Duration
	maxArticles int
	policy      retry.Policy
	logger      *slog.Logger
	now         func() time.Time
}

func NewFetchStage(source news.Source, query string, windowHours, maxArticles int, logger *slog.Logger) *FetchStage {
	return &FetchStage{
		source:      source,
		query:       query,
		window:      time.Duration(windowHours) * time.Hour,
		maxArticles: maxArticles,
		policy: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			Multiplier:  2,
		},
		logger: logger,
		now:    time.Now,
	}
}

// WithPolicy overrides the default retry policy.
func (s *FetchStage) WithPolicy(p retry.Policy) *FetchStage {
	s.policy = p
	return s
}

// Run searches the news source and returns relevant articles inside the
// configured window. Search failures are retried with exponential backoff;
// exhausting the attempts yields a NewsFetchError.
func (s *FetchStage) Run(ctx context.Context) (*FetchResult, error) {
	var items []news.Item
	attempts := 0

	err := retry.Do(ctx, s.policy, func() error {
		attempts++
		s.logger.Info("news fetch attempt", "attempt", attempts, "max_attempts", s.policy.MaxAttempts)
		var searchErr error
		items, searchErr = s.source.Search(ctx, s.query)
		if searchErr != nil {
			s.logger.Warn("news fetch attempt failed", "attempt", attempts, "error", searchErr)
		}
		return searchErr
	})
	if err != nil {
		return nil, &NewsFetchError{Attempts: attempts, Err: err}
	}

	if len(items) == 0 {
		s.logger.Warn("no articles returned from news source", "query", s.query)
		return &FetchResult{NoResults: true, Attempts: attempts}, nil
	}

	articles := s.convert(items)
	filtered := s.source.Filter(articles)

	if len(filtered) > s.maxArticles {
		filtered = filtered[:s.maxArticles]
		s.logger.Info("limited articles", "max_articles", s.maxArticles)
	}

	s.logger.Info("fetch complete", "raw", len(items), "converted", len(articles), "relevant", len(filtered))

	if len(filtered) == 0 {
		return &FetchResult{NoResults: true, Attempts: attempts}, nil
	}

	return &FetchResult{Articles: filtered, Attempts: attempts}, nil
}

// convert turns raw items into validated articles, dropping items that are
// unusable, outside the window, or repeats of a URL already seen in this
// call.
func (s *FetchStage) convert(items []news.Item) []*model.Article {
	cutoff := s.now().Add(-s.window)
	seen := make(map[string]bool)

	articles := make([]*model.Article, 0, len(items))
	for _, item := range items {
		if item.Title == "" || item.Link == "" {
			s.logger.Warn("skipping item missing title or URL", "title", item.Title, "url", item.Link)
			continue
		}

		publishedAt := s.now()
		if item.PublishedAt != nil {
			publishedAt = *item.PublishedAt
		}

		if !publishedAt.After(cutoff) {
			continue
		}

		if seen[item.Link] {
			continue
		}

		content := item.Description
		if content == "" {
			content = "Content not available"
		}
		source := item.Source
		if source == "" {
			source = "Unknown"
		}

		article, err := model.NewArticle(item.Title, content, item.Link, source, publishedAt)
		if err != nil {
			s.logger.Warn("skipping invalid item", "url", item.Link, "error", err)
			continue
		}

		seen[item.Link] = true
		articles = append(articles, article)
	}

	return articles
}
