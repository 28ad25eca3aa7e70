package stage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"ainews/internal/config"
	"ainews/internal/model"
	"ainews/internal/retry"
)

// fakeGenerator replays scripted model responses, one per call.
type fakeGenerator struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (f *fakeGenerator) ModelName() string { return "fake-model" }

func testArticles(t *testing.T, n int) []*model.Article {
	t.Helper()
	titles := []string{
		"OpenAI ships new reasoning model",
		"Anthropic expands Claude availability",
		"Google updates Gemini for enterprises",
		"Meta open-sources a new LLM",
		"Microsoft integrates Copilot everywhere",
		"Startup raises funding for AI agents",
	}
	articles := make([]*model.Article, 0, n)
	for i := 0; i < n; i++ {
		a, err := model.NewArticle(titles[i%len(titles)], "Body text about generative AI.",
			"https://example.com/a"+string(rune('0'+i)), "Example News", time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("building test article: %v", err)
		}
		articles = append(articles, a)
	}
	return articles
}

func newTestSummarizeStage(gen *fakeGenerator) *SummarizeStage {
	s := NewSummarizeStage(gen, config.LengthMedium, testLogger())
	s.policy = retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		Multiplier:  2,
		RetryIf:     isTransientModelError,
	}
	return s
}

func TestSummarizeSuccess(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"AI moved fast this week across several labs.",
		"• OpenAI shipped a model\n• Anthropic expanded access\n• Google updated Gemini",
	}}
	stage := newTestSummarizeStage(gen)
	articles := testArticles(t, 3)

	summary, err := stage.Run(context.Background(), articles)

	assert.Equal(t, nil, err)
	assert.Equal(t, "AI moved fast this week across several labs.", summary.Narrative)
	assert.Equal(t, 3, len(summary.KeyPoints))
	assert.Equal(t, "OpenAI shipped a model", summary.KeyPoints[0])
	assert.Equal(t, 3, summary.ArticleCount)
	assert.Equal(t, 3, len(summary.Sources))
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, true, strings.Contains(gen.prompts[0], "OpenAI ships new reasoning model"))
	assert.Equal(t, true, strings.Contains(gen.prompts[0], "4-5 paragraphs"))
}

func TestSummarizeRetriesTransientError(t *testing.T) {
	gen := &fakeGenerator{
		errs:      []error{errors.New("rate limit exceeded"), nil, nil},
		responses: []string{"", "Recovered narrative.", "- One point"},
	}
	stage := newTestSummarizeStage(gen)

	summary, err := stage.Run(context.Background(), testArticles(t, 2))

	assert.Equal(t, nil, err)
	assert.Equal(t, "Recovered narrative.", summary.Narrative)
	assert.Equal(t, 3, gen.calls)
}

func TestSummarizeFailsFastOnPermanentError(t *testing.T) {
	gen := &fakeGenerator{errs: []error{errors.New("invalid request")}}
	stage := newTestSummarizeStage(gen)

	summary, err := stage.Run(context.Background(), testArticles(t, 2))

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, true, strings.HasPrefix(summary.Narrative, fallbackPrefix))
}

func TestSummarizeFallbackAfterExhaustedRetries(t *testing.T) {
	boom := errors.New("bedrock throttled the request")
	gen := &fakeGenerator{errs: []error{boom, boom, boom}}
	stage := newTestSummarizeStage(gen)
	articles := testArticles(t, 6)

	summary, err := stage.Run(context.Background(), articles)

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, true, strings.HasPrefix(summary.Narrative, fallbackPrefix))
	assert.Equal(t, true, strings.Contains(summary.Narrative, "and 1 more articles"))
	assert.Equal(t, 6, len(summary.KeyPoints))
	assert.Equal(t, 6, summary.ArticleCount)
	assert.Equal(t, 6, len(summary.Sources))
}

func TestSummarizeKeyPointFailureDerivesFromTitles(t *testing.T) {
	gen := &fakeGenerator{
		responses: []string{"A solid narrative.", ""},
		errs:      []error{nil, errors.New("invalid request")},
	}
	stage := newTestSummarizeStage(gen)

	summary, err := stage.Run(context.Background(), testArticles(t, 2))

	assert.Equal(t, nil, err)
	assert.Equal(t, "A solid narrative.", summary.Narrative)
	assert.Equal(t, 2, len(summary.KeyPoints))
	assert.Equal(t, "OpenAI ships new reasoning model - Example News", summary.KeyPoints[0])
}

func TestSummarizeEmptyInputIsError(t *testing.T) {
	stage := newTestSummarizeStage(&fakeGenerator{})

	_, err := stage.Run(context.Background(), nil)

	var sumErr *SummarizationError
	assert.Equal(t, true, errors.As(err, &sumErr))
}

func TestParseKeyPoints(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "bullet markers",
			text: "• First point\n- Second point\n* Third point",
			want: []string{"First point", "Second point", "Third point"},
		},
		{
			name: "numbered list",
			text: "1. First\n2. Second\nnot a bullet\n10. Tenth",
			want: []string{"First", "Second", "Tenth"},
		},
		{
			name: "caps at eight",
			text: "- a\n- b\n- c\n- d\n- e\n- f\n- g\n- h\n- i\n- j",
			want: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		},
		{
			name: "no bullets",
			text: "Just prose without structure.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseKeyPoints(tt.text))
		})
	}
}

func TestIsTransientModelError(t *testing.T) {
	tests := []struct {
		err  string
		want bool
	}{
		{"rate limit exceeded", true},
		{"request was throttled", true},
		{"bedrock converse failed", true},
		{"model is loading", true},
		{"connection timed out", true},
		{"invalid request payload", false},
		{"unauthorized", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransientModelError(errors.New(tt.err)))
		})
	}
}
