package stage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"ainews/internal/model"
	"ainews/internal/retry"
	"ainews/pkg/news"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fastPolicy keeps retries in the millisecond range for tests.
func fastPolicy(maxAttempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		Multiplier:  2,
	}
}

// fakeSource replays scripted search results, one per call.
type fakeSource struct {
	results [][]news.Item
	errs    []error
	calls   int
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]news.Item, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var items []news.Item
	if i < len(f.results) {
		items = f.results[i]
	}
	return items, err
}

func (f *fakeSource) Filter(articles []*model.Article) []*model.Article { return articles }

func (f *fakeSource) Name() string { return "fake" }

func timePtr(t time.Time) *time.Time { return &t }

func freshItems(n int) []news.Item {
	now := time.Now()
	items := make([]news.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, news.Item{
			Title:       "AI headline " + string(rune('A'+i)),
			Description: "Machine learning news body.",
			Link:        "https://example.com/ai-" + string(rune('a'+i)),
			Source:      "Example News",
			PublishedAt: timePtr(now.Add(-time.Hour)),
		})
	}
	return items
}

func TestFetchSuccess(t *testing.T) {
	source := &fakeSource{results: [][]news.Item{freshItems(3)}}
	stage := NewFetchStage(source, "Generative AI", 72, 50, testLogger())
	stage.policy = fastPolicy(3)

	result, err := stage.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, false, result.NoResults)
	assert.Equal(t, 3, len(result.Articles))
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, source.calls)
}

func TestFetchErrorThenEmptyRetriesExactlyTwice(t *testing.T) {
	source := &fakeSource{
		errs:    []error{errors.New("connection reset"), nil},
		results: [][]news.Item{nil, {}},
	}
	stage := NewFetchStage(source, "Generative AI", 72, 50, testLogger())
	stage.policy = fastPolicy(3)

	result, err := stage.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, true, result.NoResults)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 2, source.calls)
}

func TestFetchExhaustsRetries(t *testing.T) {
	boom := errors.New("service unavailable")
	source := &fakeSource{errs: []error{boom, boom, boom}}
	stage := NewFetchStage(source, "Generative AI", 72, 50, testLogger())
	stage.policy = fastPolicy(3)

	result, err := stage.Run(context.Background())

	assert.Equal(t, nil, result)
	var fetchErr *NewsFetchError
	assert.Equal(t, true, errors.As(err, &fetchErr))
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Equal(t, 3, source.calls)
}

func TestFetchEmptyIsNoResultsWithoutRetry(t *testing.T) {
	source := &fakeSource{results: [][]news.Item{{}}}
	stage := NewFetchStage(source, "Generative AI", 72, 50, testLogger())
	stage.policy = fastPolicy(3)

	result, err := stage.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, true, result.NoResults)
	assert.Equal(t, 1, source.calls)
}

func TestFetchCapsAtMaxArticles(t *testing.T) {
	source := &fakeSource{results: [][]news.Item{freshItems(5)}}
	stage := NewFetchStage(source, "Generative AI", 72, 2, testLogger())
	stage.policy = fastPolicy(3)

	result, err := stage.Run(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(result.Articles))
}

func TestConvertSkipsBadAndStaleItems(t *testing.T) {
	now := time.Now()
	items := []news.Item{
		{Title: "Fresh AI story", Description: "body", Link: "https://example.com/fresh", Source: "A", PublishedAt: timePtr(now.Add(-time.Hour))},
		{Title: "", Description: "no title", Link: "https://example.com/untitled", PublishedAt: timePtr(now)},
		{Title: "No link", Description: "body"},
		{Title: "Too old", Description: "body", Link: "https://example.com/old", PublishedAt: timePtr(now.Add(-80 * time.Hour))},
		{Title: "Duplicate link", Description: "body", Link: "https://example.com/fresh", PublishedAt: timePtr(now.Add(-time.Hour))},
		{Title: "Undated defaults to now", Description: "", Link: "https://example.com/undated"},
	}

	stage := NewFetchStage(&fakeSource{}, "q", 72, 50, testLogger())
	articles := stage.convert(items)

	assert.Equal(t, 2, len(articles))
	assert.Equal(t, "Fresh AI story", articles[0].Title)
	assert.Equal(t, "Undated defaults to now", articles[1].Title)
	assert.Equal(t, "Content not available", articles[1].Content)
	assert.Equal(t, "Unknown", articles[1].Source)
}
