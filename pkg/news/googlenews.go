package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"ainews/internal/model"
	"ainews/internal/relevance"
)

const defaultFeedURL = "https://news.google.com/rss/search"

// GoogleNewsClient reads the Google News RSS search feed. Calls are paced
// with a token bucket so repeated invocations stay inside the feed's
// tolerated request rate.
type GoogleNewsClient struct {
	feedURL    string
	language   string
	country    string
	maxResults int
	httpClient *http.Client
	parser     *gofeed.Parser
	limiter    *rate.Limiter
	scorer     *relevance.Scorer
}

func NewGoogleNewsClient(maxResults, requestsPerMinute int) *GoogleNewsClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &GoogleNewsClient{
		feedURL:    defaultFeedURL,
		language:   "en",
		country:    "US",
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		parser:     gofeed.NewParser(),
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
		scorer:     relevance.NewScorer(),
	}
}

func (c *GoogleNewsClient) Name() string {
	return "GoogleNews"
}

// Search queries the RSS feed for the topic and returns raw items.
func (c *GoogleNewsClient) Search(ctx context.Context, query string) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("google news rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("google news request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google news fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news fetch: unexpected status %d", resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google news parse: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if c.maxResults > 0 && len(items) >= c.maxResults {
			break
		}
		items = append(items, toItem(fi))
	}

	return items, nil
}

// Filter scores articles, drops those under the relevance threshold and any
// duplicates, and sorts the remainder by score descending.
func (c *GoogleNewsClient) Filter(articles []*model.Article) []*model.Article {
	if len(articles) == 0 {
		return nil
	}

	unique := c.scorer.Dedupe(articles)

	relevant := make([]*model.Article, 0, len(unique))
	for _, a := range unique {
		score := c.scorer.Score(a)
		if c.scorer.IsRelevant(a) {
			relevant = append(relevant, a)
		} else {
			slog.Debug("article filtered out", "title", a.Title, "score", score)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Score() > relevant[j].Score()
	})

	return relevant
}

func (c *GoogleNewsClient) searchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", fmt.Sprintf("%s-%s", c.language, c.country))
	params.Set("gl", c.country)
	params.Set("ceid", fmt.Sprintf("%s:%s", c.country, c.language))
	return c.feedURL + "?" + params.Encode()
}

func toItem(fi *gofeed.Item) Item {
	title, source := splitPublisher(fi.Title)
	if source == "" {
		source = hostOf(fi.Link)
	}
	return Item{
		Title:       title,
		Description: fi.Description,
		Link:        fi.Link,
		Source:      source,
		PublishedAt: fi.PublishedParsed,
	}
}

// splitPublisher separates the " - Publisher" suffix Google News appends to
// item titles.
func splitPublisher(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 || idx+3 >= len(title) {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "Unknown"
	}
	return u.Host
}
