// Package relevance scores articles against a topic vocabulary and detects
// duplicate coverage of the same story.
package relevance

import (
	"strings"
	"unicode"

	"ainews/internal/model"
)

// DefaultKeywords is the vocabulary used when the caller supplies none.
func DefaultKeywords() []string {
	return []string{
		"artificial intelligence", "ai", "machine learning", "ml",
		"generative ai", "chatgpt", "gpt", "llm", "large language model",
		"neural network", "deep learning", "transformer", "openai",
		"anthropic", "claude", "gemini", "bard", "copilot",
	}
}

// Scorer holds the inclusion and duplicate policy parameters. The defaults
// are a deliberately low bar for inclusion, not tuned values.
type Scorer struct {
	Keywords            []string
	Threshold           float64
	SimilarityThreshold float64
}

func NewScorer() *Scorer {
	return &Scorer{
		Keywords:            DefaultKeywords(),
		Threshold:           0.1,
		SimilarityThreshold: 0.8,
	}
}

// Score computes a keyword-density score in [0, 1] for the article and caches
// it on the article. Title matches carry an extra 0.3-weighted boost since
// they are a stronger relevance signal than body matches.
func (s *Scorer) Score(a *model.Article) float64 {
	keywords := s.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}

	text := strings.ToLower(a.Title + " " + a.Content)
	title := strings.ToLower(a.Title)

	var matches, titleMatches int
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(text, kw) {
			matches++
		}
		if strings.Contains(title, kw) {
			titleMatches++
		}
	}

	base := float64(matches) / float64(len(keywords))
	boost := float64(titleMatches) / float64(len(keywords)) * 0.3

	score := base + boost
	if score > 1.0 {
		score = 1.0
	}

	a.SetRelevanceScore(score)
	return score
}

// IsRelevant reports whether the article clears the scorer's threshold,
// computing the score first if it has not been cached yet.
func (s *Scorer) IsRelevant(a *model.Article) bool {
	if a.RelevanceScore == nil {
		s.Score(a)
	}
	return a.Score() >= s.Threshold
}

// IsDuplicate reports whether two articles cover the same story: identical
// URLs, or title word sets with Jaccard similarity above the threshold.
func (s *Scorer) IsDuplicate(a, b *model.Article) bool {
	if a.URL == b.URL {
		return true
	}
	return TitleSimilarity(a.Title, b.Title) > s.SimilarityThreshold
}

// TitleSimilarity computes the Jaccard similarity of the lowercase word sets
// of two titles. Two empty word sets are identical; one empty and one
// non-empty are dissimilar.
func TitleSimilarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1.0
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	var intersection int
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection

	return float64(intersection) / float64(union)
}

// wordSet splits text into maximal alphanumeric runs, lowercased.
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			set[sb.String()] = true
			sb.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return set
}
