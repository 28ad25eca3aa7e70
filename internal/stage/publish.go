package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"ainews/internal/format"
	"ainews/internal/model"
	"ainews/internal/retry"
	"ainews/pkg/notify"
)

const (
	messageTypeSummary = "NewsSummary"
	messageTypeNoNews  = "NoNewsNotification"

	noNewsSubject = "AI News Summary - No Updates Today"
)

// deliveryTracker is implemented by notifiers that can report post-publish
// delivery information. Tracking is best-effort.
type deliveryTracker interface {
	TrackDelivery(ctx context.Context, messageID string) (map[string]string, error)
}

// PublishStage delivers summaries and no-news notices to the notification
// topic. It reports success as a bool: a failed publish is a degraded
// outcome the orchestrator handles, not an error that aborts the run.
type PublishStage struct {
	notifier    notify.Notifier
	windowHours int
	policy      retry.Policy
	logger      *slog.Logger
}

func NewPublishStage(notifier notify.Notifier, windowHours int, logger *slog.Logger) *PublishStage {
	return &PublishStage{
		notifier:    notifier,
		windowHours: windowHours,
		policy: retry.Policy{
			MaxAttempts: 4,
			BaseDelay:   time.Second,
			MaxDelay:    60 * time.Second,
			Multiplier:  2,
			Jitter:      0.1,
			RetryIf:     func(err error) bool { return !notify.IsNonRetryable(err) },
		},
		logger: logger,
	}
}

// WithPolicy overrides the default retry policy. A nil RetryIf keeps the
// non-retryable error classification.
func (p *PublishStage) WithPolicy(policy retry.Policy) *PublishStage {
	if policy.RetryIf == nil {
		policy.RetryIf = func(err error) bool { return !notify.IsNonRetryable(err) }
	}
	p.policy = policy
	return p
}

// PublishSummary renders the summary for each delivery protocol and sends
// it with retry.
func (p *PublishStage) PublishSummary(ctx context.Context, summary *model.Summary) bool {
	message, err := envelope(format.PlainText(summary), format.RichText(summary))
	if err != nil {
		p.logger.Error("failed to encode notification message", "error", err, "summary_id", summary.ID)
		return false
	}

	subject := "AI News Summary - " + summary.GeneratedAt.Format("January 2, 2006")
	attributes := map[string]string{
		"MessageType":  messageTypeSummary,
		"ArticleCount": strconv.Itoa(summary.ArticleCount),
		"GeneratedAt":  summary.GeneratedAt.UTC().Format(time.RFC3339),
	}

	return p.send(ctx, message, subject, attributes)
}

// SendNoNews publishes the canned notice for runs that found nothing
// relevant.
func (p *PublishStage) SendNoNews(ctx context.Context) bool {
	plain := fmt.Sprintf("No relevant Generative AI news articles were found in the last %d hours.\n\n"+
		"This could mean:\n"+
		"- No significant AI news was published recently\n"+
		"- News sources may be temporarily unavailable\n\n"+
		"The news agent will continue monitoring and will send updates when new articles are available.",
		p.windowHours)

	rich := fmt.Sprintf("# %s\n\n"+
		"No relevant Generative AI news articles were found in the last %d hours.\n\n"+
		"This could mean:\n\n"+
		"- No significant AI news was published recently\n"+
		"- News sources may be temporarily unavailable\n\n"+
		"The news agent will continue monitoring and will send updates when new articles are available.\n",
		noNewsSubject, p.windowHours)

	message, err := envelope(plain, rich)
	if err != nil {
		p.logger.Error("failed to encode no-news message", "error", err)
		return false
	}

	return p.send(ctx, message, noNewsSubject, map[string]string{"MessageType": messageTypeNoNews})
}

func (p *PublishStage) send(ctx context.Context, message, subject string, attributes map[string]string) bool {
	attempts := 0
	var messageID string

	err := retry.Do(ctx, p.policy, func() error {
		attempts++
		id, sendErr := p.notifier.Send(ctx, message, subject, attributes)
		if sendErr != nil {
			p.logger.Warn("publish attempt failed", "attempt", attempts, "error", sendErr)
			return sendErr
		}
		messageID = id
		return nil
	})
	if err != nil {
		p.logger.Error("publishing failed after retries", "attempts", attempts, "error", err)
		return false
	}

	p.logger.Info("notification published", "message_id", messageID, "subject", subject)
	p.trackDelivery(ctx, messageID)
	return true
}

func (p *PublishStage) trackDelivery(ctx context.Context, messageID string) {
	tracker, ok := p.notifier.(deliveryTracker)
	if !ok {
		return
	}
	attrs, err := tracker.TrackDelivery(ctx, messageID)
	if err != nil {
		p.logger.Warn("delivery tracking unavailable", "message_id", messageID, "error", err)
		return
	}
	p.logger.Info("delivery status recorded", "message_id", messageID, "topic_attributes", len(attrs))
}

// envelope wraps per-protocol message bodies in the JSON structure the
// notification transport expects. "default" is the required fallback body.
func envelope(plain, rich string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"default": plain,
		"email":   rich,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode message envelope: %w", err)
	}
	return string(payload), nil
}
