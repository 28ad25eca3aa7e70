package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SourceRef is the reference projection of an Article embedded in a Summary.
// It deliberately carries no body text.
type SourceRef struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Summary is the synthesized result of one workflow run.
type Summary struct {
	ID           string
	Narrative    string
	KeyPoints    []string
	Sources      []SourceRef
	GeneratedAt  time.Time
	ArticleCount int
}

// NewSummary builds a Summary, generating an ID when none is given.
func NewSummary(narrative string, keyPoints []string, sources []SourceRef, generatedAt time.Time, articleCount int) *Summary {
	return &Summary{
		ID:           uuid.NewString(),
		Narrative:    narrative,
		KeyPoints:    keyPoints,
		Sources:      sources,
		GeneratedAt:  generatedAt,
		ArticleCount: articleCount,
	}
}

// SourceRefFromArticle projects an Article down to its reference fields.
func SourceRefFromArticle(a *Article) SourceRef {
	return SourceRef{
		Title:       a.Title,
		URL:         a.URL,
		Source:      a.Source,
		PublishedAt: a.PublishedAt,
	}
}

// SourcesByDate returns the summary's sources sorted newest first.
func (s *Summary) SourcesByDate() []SourceRef {
	sorted := make([]SourceRef, len(s.Sources))
	copy(sorted, s.Sources)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})
	return sorted
}

// UniqueSources returns the distinct source labels across all references.
func (s *Summary) UniqueSources() []string {
	seen := make(map[string]bool)
	var names []string
	for _, src := range s.Sources {
		if !seen[src.Source] {
			seen[src.Source] = true
			names = append(names, src.Source)
		}
	}
	return names
}
