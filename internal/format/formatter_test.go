package format

import (
	"strings"
	"testing"
	"time"

	"ainews/internal/model"

	"github.com/go-playground/assert/v2"
)

func sampleSummary() *model.Summary {
	generated := time.Date(2026, time.August, 20, 9, 30, 0, 0, time.UTC)
	return &model.Summary{
		ID:        "sum-1",
		Narrative: "Several labs shipped new models this week.",
		KeyPoints: []string{"Lab A shipped a model", "Lab B raised funding"},
		Sources: []model.SourceRef{
			{Title: "Lab A ships", URL: "https://example.com/a", Source: "TechWire", PublishedAt: generated.Add(-3 * time.Hour)},
			{Title: "Lab B raises", URL: "https://example.com/b", Source: "Herald", PublishedAt: generated.Add(-5 * time.Hour)},
		},
		GeneratedAt:  generated,
		ArticleCount: 2,
	}
}

func TestRichText(t *testing.T) {
	out := RichText(sampleSummary())

	for _, want := range []string{
		"# AI News Summary - August 20, 2026",
		"**Generated at:** 2026-08-20 09:30:00 UTC",
		"**Articles analyzed:** 2",
		"## Summary",
		"Several labs shipped new models this week.",
		"## Key Points",
		"1. Lab A shipped a model",
		"2. Lab B raised funding",
		"## Sources",
		"1. **Lab A ships** - TechWire (2026-08-20)",
		"https://example.com/a",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rich text missing %q", want)
		}
	}
}

func TestPlainTextHasNoMarkup(t *testing.T) {
	out := PlainText(sampleSummary())

	if strings.Contains(out, "#") || strings.Contains(out, "**") {
		t.Errorf("plain text contains markup: %s", out)
	}

	for _, want := range []string{
		"AI News Summary - August 20, 2026",
		strings.Repeat("=", 50),
		"SUMMARY",
		"KEY POINTS",
		"SOURCES",
		"1. Lab A ships - TechWire (2026-08-20)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plain text missing %q", want)
		}
	}
}

func TestSectionsOmittedWhenEmpty(t *testing.T) {
	s := sampleSummary()
	s.KeyPoints = nil
	s.Sources = nil

	rich := RichText(s)
	plain := PlainText(s)

	assert.Equal(t, false, strings.Contains(rich, "## Key Points"))
	assert.Equal(t, false, strings.Contains(rich, "## Sources"))
	assert.Equal(t, false, strings.Contains(plain, "KEY POINTS"))
	assert.Equal(t, false, strings.Contains(plain, "SOURCES"))
}

func TestSimplifyNeverIncreases(t *testing.T) {
	s := sampleSummary()

	tests := []struct {
		name   string
		limits Limits
	}{
		{"tight", Limits{NarrativeChars: 10, MaxKeyPoints: 1, MaxSources: 1}},
		{"loose", Limits{NarrativeChars: 10000, MaxKeyPoints: 50, MaxSources: 50}},
		{"unbounded", Limits{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Simplify(s, tt.limits)

			if len(out.Narrative) > len(s.Narrative)+len("...") {
				t.Errorf("narrative grew: %d > %d", len(out.Narrative), len(s.Narrative))
			}
			if len(out.KeyPoints) > len(s.KeyPoints) {
				t.Errorf("key points grew")
			}
			if len(out.Sources) > len(s.Sources) {
				t.Errorf("sources grew")
			}
			assert.Equal(t, s.ID, out.ID)
			assert.Equal(t, s.ArticleCount, out.ArticleCount)
		})
	}
}

func TestSimplifyTruncatesNarrative(t *testing.T) {
	s := sampleSummary()
	out := Simplify(s, Limits{NarrativeChars: 7, MaxKeyPoints: 1, MaxSources: 1})

	assert.Equal(t, "Several...", out.Narrative)
	assert.Equal(t, 1, len(out.KeyPoints))
	assert.Equal(t, 1, len(out.Sources))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "abc", 10, "abc"},
		{"exactly max", "abcde", 5, "abcde"},
		{"cut", "abcdef", 5, "abcde..."},
		{"no cap", "abcdef", 0, "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}
