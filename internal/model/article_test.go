package model

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestNewArticleGeneratesID(t *testing.T) {
	a, err := NewArticle("OpenAI ships new model", "Details about the launch.", "https://example.com/a", "TechWire", time.Now())

	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", a.ID)

	b, err := NewArticle("OpenAI ships new model", "Details about the launch.", "https://example.com/a", "TechWire", time.Now())
	assert.Equal(t, nil, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewArticleTrimsFields(t *testing.T) {
	a, err := NewArticle("  Title  ", "  body  ", " https://example.com/a ", " Wire ", time.Now())

	assert.Equal(t, nil, err)
	assert.Equal(t, "Title", a.Title)
	assert.Equal(t, "body", a.Content)
	assert.Equal(t, "https://example.com/a", a.URL)
	assert.Equal(t, "Wire", a.Source)
}

func TestNewArticleValidation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		title   string
		content string
		url     string
		source  string
	}{
		{"empty title", "  ", "body", "https://example.com", "Wire"},
		{"empty content", "Title", "", "https://example.com", "Wire"},
		{"empty url", "Title", "body", "", "Wire"},
		{"relative url", "Title", "body", "/path/only", "Wire"},
		{"url without host", "Title", "body", "https://", "Wire"},
		{"empty source", "Title", "body", "https://example.com", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArticle(tt.title, tt.content, tt.url, tt.source, now)
			assert.NotEqual(t, nil, err)
		})
	}
}

func TestSetRelevanceScoreClamps(t *testing.T) {
	a, _ := NewArticle("Title", "body", "https://example.com", "Wire", time.Now())

	a.SetRelevanceScore(1.7)
	assert.Equal(t, 1.0, a.Score())

	a.SetRelevanceScore(-0.2)
	assert.Equal(t, 0.0, a.Score())

	a.SetRelevanceScore(0.42)
	assert.Equal(t, 0.42, a.Score())
}

func TestSummarySourceHelpers(t *testing.T) {
	base := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	s := NewSummary("narrative", nil, []SourceRef{
		{Title: "old", URL: "https://example.com/1", Source: "Wire", PublishedAt: base.Add(-2 * time.Hour)},
		{Title: "new", URL: "https://example.com/2", Source: "Herald", PublishedAt: base},
		{Title: "mid", URL: "https://example.com/3", Source: "Wire", PublishedAt: base.Add(-time.Hour)},
	}, base, 3)

	assert.NotEqual(t, "", s.ID)

	byDate := s.SourcesByDate()
	assert.Equal(t, "new", byDate[0].Title)
	assert.Equal(t, "mid", byDate[1].Title)
	assert.Equal(t, "old", byDate[2].Title)

	assert.Equal(t, []string{"Wire", "Herald"}, s.UniqueSources())
}
