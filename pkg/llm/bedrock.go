package llm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// bedrockAPI is the slice of the Bedrock runtime client the generator needs.
type bedrockAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type BedrockClient struct {
	api     bedrockAPI
	modelID string
}

func NewBedrockClient(cfg aws.Config, modelID string) *BedrockClient {
	return &BedrockClient{
		api:     bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}
}

func (c *BedrockClient) ModelName() string {
	return c.modelID
}

func (c *BedrockClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: prompt},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("bedrock API error: %w", err)
	}

	msg, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return "", fmt.Errorf("no response from bedrock")
	}

	text, ok := msg.Value.Content[0].(*types.ContentBlockMemberText)
	if !ok {
		return "", fmt.Errorf("unexpected bedrock content block type")
	}

	return text.Value, nil
}
