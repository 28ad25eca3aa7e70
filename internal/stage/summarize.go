package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ainews/internal/config"
	"ainews/internal/format"
	"ainews/internal/model"
	"ainews/internal/retry"
	"ainews/pkg/llm"
)

// fallbackPrefix opens the extractive summary used when the model is
// unavailable.
const fallbackPrefix = "Recent Generative AI developments include: "

const (
	maxKeyPoints       = 8
	fallbackTitles     = 5
	fallbackTitleRunes = 100
	excerptRunes       = 2000
)

var lengthInstructions = map[string]string{
	config.LengthShort:  "2-3 paragraphs",
	config.LengthMedium: "4-5 paragraphs",
	config.LengthLong:   "6-8 paragraphs",
}

// SummarizeStage turns a batch of articles into a Summary via the model
// generator, with an extractive fallback so the pipeline never stalls on a
// model outage.
type SummarizeStage struct {
	generator llm.Generator
	length    string
	policy    retry.Policy
	logger    *slog.Logger
	now       func() time.Time
}

func NewSummarizeStage(generator llm.Generator, length string, logger *slog.Logger) *SummarizeStage {
	return &SummarizeStage{
		generator: generator,
		length:    length,
		policy: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			Multiplier:  2,
			RetryIf:     isTransientModelError,
		},
		logger: logger,
		now:    time.Now,
	}
}

// WithPolicy overrides the default retry policy. A nil RetryIf keeps the
// transient-error classification.
func (s *SummarizeStage) WithPolicy(p retry.Policy) *SummarizeStage {
	if p.RetryIf == nil {
		p.RetryIf = isTransientModelError
	}
	s.policy = p
	return s
}

// Run generates the narrative and key points. Model failures after retries
// degrade to the extractive fallback rather than erroring; only an empty
// input is a hard error.
func (s *SummarizeStage) Run(ctx context.Context, articles []*model.Article) (*model.Summary, error) {
	if len(articles) == 0 {
		return nil, &SummarizationError{Err: errors.New("no articles to summarize")}
	}

	narrative, err := s.generate(ctx, narrativePrompt(articles, s.length))
	if err != nil {
		s.logger.Warn("model summarization failed, using extractive fallback", "error", err, "model", s.generator.ModelName())
		return s.Fallback(articles), nil
	}

	keyPoints, err := s.keyPoints(ctx, articles)
	if err != nil || len(keyPoints) == 0 {
		s.logger.Warn("key point extraction failed, deriving key points from titles", "error", err)
		keyPoints = titleKeyPoints(articles, fallbackTitles)
	}

	s.logger.Info("summary generated", "model", s.generator.ModelName(), "articles", len(articles), "key_points", len(keyPoints))
	return s.build(narrative, keyPoints, articles), nil
}

// Fallback builds an extractive summary straight from article titles. It
// cannot fail.
func (s *SummarizeStage) Fallback(articles []*model.Article) *model.Summary {
	var titles []string
	for i, a := range articles {
		if i == fallbackTitles {
			break
		}
		titles = append(titles, fmt.Sprintf("%s (%s)", a.Title, a.Source))
	}

	narrative := fallbackPrefix + strings.Join(titles, "; ")
	if len(articles) > fallbackTitles {
		narrative += fmt.Sprintf("; and %d more articles", len(articles)-fallbackTitles)
	}

	var keyPoints []string
	for i, a := range articles {
		if i == maxKeyPoints {
			break
		}
		keyPoints = append(keyPoints, format.Truncate(a.Title, fallbackTitleRunes))
	}

	return s.build(narrative, keyPoints, articles)
}

func (s *SummarizeStage) build(narrative string, keyPoints []string, articles []*model.Article) *model.Summary {
	sources := make([]model.SourceRef, 0, len(articles))
	for _, a := range articles {
		sources = append(sources, model.SourceRefFromArticle(a))
	}
	return model.NewSummary(narrative, keyPoints, sources, s.now().UTC(), len(articles))
}

// generate runs one prompt through the model with the stage retry policy.
// An empty model response is treated as permanent.
func (s *SummarizeStage) generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := retry.Do(ctx, s.policy, func() error {
		text, genErr := s.generator.Generate(ctx, prompt)
		if genErr != nil {
			s.logger.Warn("model call failed", "error", genErr)
			return genErr
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return retry.Permanent(errors.New("model returned an empty response"))
		}
		out = text
		return nil
	})
	return out, err
}

func (s *SummarizeStage) keyPoints(ctx context.Context, articles []*model.Article) ([]string, error) {
	text, err := s.generate(ctx, keyPointsPrompt(articles))
	if err != nil {
		return nil, err
	}
	return parseKeyPoints(text), nil
}

func narrativePrompt(articles []*model.Article, length string) string {
	instruction, ok := lengthInstructions[length]
	if !ok {
		instruction = lengthInstructions[config.LengthMedium]
	}

	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nSource: %s\nPublished: %s\nContent: %s",
			a.Title, a.Source, a.PublishedAt.Format("2006-01-02"), format.Truncate(a.Content, excerptRunes)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please analyze the following %d news articles about Generative AI and write a comprehensive summary.\n\n", len(articles))
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Write a coherent narrative summary in %s\n", instruction)
	b.WriteString("- Focus on the most significant developments and trends\n")
	b.WriteString("- Maintain an objective, informative tone\n")
	b.WriteString("- Only use information present in the articles\n\n")
	b.WriteString("Articles:\n\n")
	b.WriteString(strings.Join(blocks, "\n\n---\n\n"))
	return b.String()
}

func keyPointsPrompt(articles []*model.Article) string {
	var b strings.Builder
	b.WriteString("Extract 5-8 key points from the following Generative AI news articles.\n")
	b.WriteString("Each key point must be one concise sentence on its own line, starting with a bullet marker.\n\n")
	for i, a := range articles {
		fmt.Fprintf(&b, "Article %d (%s):\n%s\n\n---\n\n", i+1, a.Source, format.Truncate(a.Content, excerptRunes))
	}
	return b.String()
}

// parseKeyPoints pulls bullet lines out of a model response. Accepted
// markers are "•", "-", "*" and "N.".
func parseKeyPoints(text string) []string {
	var points []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var point string
		switch {
		case strings.HasPrefix(line, "•"):
			point = strings.TrimSpace(strings.TrimPrefix(line, "•"))
		case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"):
			point = strings.TrimSpace(line[1:])
		default:
			if i := strings.Index(line, "."); i > 0 && isDigits(line[:i]) {
				point = strings.TrimSpace(line[i+1:])
			}
		}

		if point != "" {
			points = append(points, point)
		}
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func titleKeyPoints(articles []*model.Article, max int) []string {
	var points []string
	for i, a := range articles {
		if i == max {
			break
		}
		points = append(points, fmt.Sprintf("%s - %s", a.Title, a.Source))
	}
	return points
}

// isTransientModelError reports whether a model failure is worth retrying.
// Throttling and provider-side hiccups are transient; everything else
// (bad request, auth, validation) fails fast.
func isTransientModelError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "throttl", "timeout", "timed out", "model", "bedrock", "overloaded", "unavailable"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
