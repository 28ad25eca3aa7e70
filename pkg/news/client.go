package news

import (
	"context"
	"time"

	"ainews/internal/model"
)

// Item is a raw search result before validation and filtering.
type Item struct {
	Title       string
	Description string
	Link        string
	Source      string
	PublishedAt *time.Time
}

// Source is the news-source collaborator consumed by the fetch stage.
type Source interface {
	// Search runs a topic query and returns raw items. An empty result is
	// a valid outcome, not an error.
	Search(ctx context.Context, query string) ([]Item, error)
	// Filter scores articles for relevance, drops irrelevant ones and
	// duplicates, and sorts by score descending.
	Filter(articles []*model.Article) []*model.Article
	Name() string
}
