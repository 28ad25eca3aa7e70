package llm

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"ainews/internal/config"
)

// NewFromConfig builds the Generator for the configured provider. API keys
// come from the environment; Bedrock uses the default AWS credential chain.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.ModelProvider {
	case config.ProviderOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return NewOpenAIClient(key, cfg.ModelName), nil

	case config.ProviderAnthropic:
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return NewAnthropicClient(key, cfg.ModelName, 4096), nil

	case config.ProviderBedrock:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		return NewBedrockClient(awsCfg, cfg.ModelName), nil

	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.ModelProvider)
	}
}
