// Package config loads and validates the agent settings from the
// environment. Configuration is read once per invocation and is immutable
// after construction.
package config

import (
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Summary length categories.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Supported model providers.
const (
	ProviderBedrock   = "bedrock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const topicARNPrefix = "arn:aws:sns:"

type rawConfig struct {
	SearchQuery    string `long:"search-query" env:"SEARCH_QUERY" default:"Generative AI" description:"Search query for news articles"`
	TimeRangeHours int    `long:"time-range-hours" env:"TIME_RANGE_HOURS" default:"72" description:"Look-back window in hours (1-168)"`
	TopicARN       string `long:"sns-topic-arn" env:"SNS_TOPIC_ARN" description:"SNS topic ARN for notifications"`
	MaxArticles    int    `long:"max-articles" env:"MAX_ARTICLES" default:"50" description:"Maximum number of articles to process (1-100)"`
	SummaryLength  string `long:"summary-length" env:"SUMMARY_LENGTH" default:"medium" description:"Summary length: short, medium or long"`
	ModelName      string `long:"model-name" env:"MODEL_NAME" default:"amazon.nova-pro-v1:0" description:"Model identifier for summarization"`
	ModelProvider  string `long:"model-provider" env:"MODEL_PROVIDER" default:"bedrock" description:"Model provider: bedrock, openai or anthropic"`
	Region         string `long:"aws-region" env:"AWS_REGION" default:"us-east-1" description:"AWS region for SNS and Bedrock"`
}

// Config holds the validated agent settings.
type Config struct {
	SearchQuery    string
	TimeRangeHours int
	TopicARN       string
	MaxArticles    int
	SummaryLength  string
	ModelName      string
	ModelProvider  string
	Region         string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var raw rawConfig

	parser := flags.NewParser(&raw, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(nil); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Config{
		SearchQuery:    strings.TrimSpace(raw.SearchQuery),
		TimeRangeHours: raw.TimeRangeHours,
		TopicARN:       raw.TopicARN,
		MaxArticles:    raw.MaxArticles,
		SummaryLength:  strings.ToLower(strings.TrimSpace(raw.SummaryLength)),
		ModelName:      raw.ModelName,
		ModelProvider:  strings.ToLower(strings.TrimSpace(raw.ModelProvider)),
		Region:         raw.Region,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SearchQuery == "" {
		return fmt.Errorf("search query cannot be empty or just whitespace")
	}
	if len(c.SearchQuery) > 200 {
		return fmt.Errorf("search query must be at most 200 characters")
	}
	if c.TimeRangeHours < 1 || c.TimeRangeHours > 168 {
		return fmt.Errorf("time range hours must be between 1 and 168, got %d", c.TimeRangeHours)
	}
	if c.TopicARN == "" {
		return fmt.Errorf("SNS topic ARN is required")
	}
	if !strings.HasPrefix(c.TopicARN, topicARNPrefix) {
		return fmt.Errorf("SNS topic ARN must start with %q", topicARNPrefix)
	}
	if c.MaxArticles < 1 || c.MaxArticles > 100 {
		return fmt.Errorf("max articles must be between 1 and 100, got %d", c.MaxArticles)
	}
	switch c.SummaryLength {
	case LengthShort, LengthMedium, LengthLong:
	default:
		return fmt.Errorf("summary length must be one of short, medium, long; got %q", c.SummaryLength)
	}
	if c.ModelName == "" {
		return fmt.Errorf("model name is required")
	}
	switch c.ModelProvider {
	case ProviderBedrock, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("model provider must be one of bedrock, openai, anthropic; got %q", c.ModelProvider)
	}
	return nil
}
