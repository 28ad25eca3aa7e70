package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article is a single fetched news candidate. It lives for one invocation
// only and is read-only once relevance filtering has run.
type Article struct {
	ID             string
	Title          string
	Content        string
	URL            string
	Source         string
	PublishedAt    time.Time
	RelevanceScore *float64
}

// NewArticle builds a validated Article, generating an ID when none is given.
func NewArticle(title, content, rawURL, source string, publishedAt time.Time) (*Article, error) {
	a := &Article{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Content:     strings.TrimSpace(content),
		URL:         strings.TrimSpace(rawURL),
		Source:      strings.TrimSpace(source),
		PublishedAt: publishedAt,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("article title cannot be empty")
	}
	if strings.TrimSpace(a.Content) == "" {
		return fmt.Errorf("article content cannot be empty")
	}
	if strings.TrimSpace(a.URL) == "" {
		return fmt.Errorf("article URL cannot be empty")
	}
	if !isValidURL(a.URL) {
		return fmt.Errorf("invalid URL format: %s", a.URL)
	}
	if strings.TrimSpace(a.Source) == "" {
		return fmt.Errorf("article source cannot be empty")
	}
	if a.PublishedAt.IsZero() {
		return fmt.Errorf("article published date must be set")
	}
	return nil
}

// SetRelevanceScore records a score, clamped into [0, 1].
func (a *Article) SetRelevanceScore(score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	a.RelevanceScore = &score
}

// Score returns the cached relevance score, or 0 when none has been computed.
func (a *Article) Score() float64 {
	if a.RelevanceScore == nil {
		return 0
	}
	return *a.RelevanceScore
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
