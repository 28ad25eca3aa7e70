package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/smithy-go"
)

// snsAPI is the slice of the SNS client the notifier needs.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	ListSubscriptionsByTopic(ctx context.Context, params *sns.ListSubscriptionsByTopicInput, optFns ...func(*sns.Options)) (*sns.ListSubscriptionsByTopicOutput, error)
	ConfirmSubscription(ctx context.Context, params *sns.ConfirmSubscriptionInput, optFns ...func(*sns.Options)) (*sns.ConfirmSubscriptionOutput, error)
	GetTopicAttributes(ctx context.Context, params *sns.GetTopicAttributesInput, optFns ...func(*sns.Options)) (*sns.GetTopicAttributesOutput, error)
}

// SNSNotifier publishes to an AWS SNS topic. Messages are JSON envelopes
// with per-protocol bodies, so MessageStructure is always "json".
type SNSNotifier struct {
	api      snsAPI
	topicARN string
}

func NewSNSNotifier(cfg aws.Config, topicARN string) *SNSNotifier {
	return &SNSNotifier{
		api:      sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}
}

func (n *SNSNotifier) Send(ctx context.Context, message, subject string, attributes map[string]string) (string, error) {
	msgAttrs := make(map[string]types.MessageAttributeValue, len(attributes))
	for k, v := range attributes {
		dataType := "String"
		if k == "ArticleCount" {
			dataType = "Number"
		}
		msgAttrs[k] = types.MessageAttributeValue{
			DataType:    aws.String(dataType),
			StringValue: aws.String(v),
		}
	}

	out, err := n.api.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(n.topicARN),
		Message:           aws.String(message),
		Subject:           aws.String(subject),
		MessageStructure:  aws.String("json"),
		MessageAttributes: msgAttrs,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}

	return aws.ToString(out.MessageId), nil
}

func (n *SNSNotifier) GetSubscriptionStatus(ctx context.Context) (*SubscriptionStatus, error) {
	out, err := n.api.ListSubscriptionsByTopic(ctx, &sns.ListSubscriptionsByTopicInput{
		TopicArn: aws.String(n.topicARN),
	})
	if err != nil {
		return nil, fmt.Errorf("sns list subscriptions: %w", err)
	}

	status := &SubscriptionStatus{
		TopicARN:  n.topicARN,
		Total:     len(out.Subscriptions),
		Endpoints: make([]Subscription, 0, len(out.Subscriptions)),
	}

	for _, sub := range out.Subscriptions {
		arn := aws.ToString(sub.SubscriptionArn)
		confirmed := arn != "PendingConfirmation"
		if confirmed {
			status.Confirmed++
		} else {
			status.Pending++
		}
		status.Endpoints = append(status.Endpoints, Subscription{
			SubscriptionARN: arn,
			Protocol:        aws.ToString(sub.Protocol),
			Endpoint:        aws.ToString(sub.Endpoint),
			Confirmed:       confirmed,
		})
	}

	return status, nil
}

func (n *SNSNotifier) ConfirmSubscription(ctx context.Context, token, topicARN string) error {
	out, err := n.api.ConfirmSubscription(ctx, &sns.ConfirmSubscriptionInput{
		TopicArn: aws.String(topicARN),
		Token:    aws.String(token),
	})
	if err != nil {
		return fmt.Errorf("sns confirm subscription: %w", err)
	}

	slog.Info("subscription confirmed", "subscription_arn", aws.ToString(out.SubscriptionArn))
	return nil
}

// TrackDelivery inspects topic attributes after a successful publish. It is
// best-effort monitoring data; callers treat errors as non-fatal.
func (n *SNSNotifier) TrackDelivery(ctx context.Context, messageID string) (map[string]string, error) {
	out, err := n.api.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{
		TopicArn: aws.String(n.topicARN),
	})
	if err != nil {
		return nil, fmt.Errorf("sns topic attributes: %w", err)
	}
	return out.Attributes, nil
}

// Non-retryable SNS error codes: retrying cannot fix a bad request, missing
// topic, or rejected credentials.
var nonRetryableCodes = map[string]bool{
	"InvalidParameter":   true,
	"AuthorizationError": true,
	"NotFound":           true,
}

// IsNonRetryable reports whether err carries an SNS error code that should
// abort the retry loop immediately.
func IsNonRetryable(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return nonRetryableCodes[apiErr.ErrorCode()]
	}
	return false
}
