package notify

import "context"

// SubscriptionStatus summarizes the delivery endpoints attached to the
// notification topic.
type SubscriptionStatus struct {
	TopicARN  string         `json:"topic_arn"`
	Total     int            `json:"total_subscriptions"`
	Confirmed int            `json:"confirmed_subscriptions"`
	Pending   int            `json:"pending_subscriptions"`
	Endpoints []Subscription `json:"subscriptions"`
}

type Subscription struct {
	SubscriptionARN string `json:"subscription_arn"`
	Protocol        string `json:"protocol"`
	Endpoint        string `json:"endpoint"`
	Confirmed       bool   `json:"confirmed"`
}

// Notifier is the notification collaborator consumed by the publish stage.
type Notifier interface {
	// Send delivers a message and returns the transport's message id.
	Send(ctx context.Context, message, subject string, attributes map[string]string) (string, error)
	GetSubscriptionStatus(ctx context.Context) (*SubscriptionStatus, error)
	ConfirmSubscription(ctx context.Context, token, topicARN string) error
}
