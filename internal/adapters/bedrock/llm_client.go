package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
)

// BedrockClient is an implementation of the LLMClient interface using Amazon Bedrock
type BedrockClient struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(client *bedrockruntime.Client, modelID string, logger *zap.Logger) *BedrockClient {
	return &BedrockClient{
		client:  client,
		modelID: modelID,
		logger:  logger,
	}
}

func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.")
}

func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}

// Complete sends the prompt to the model and returns the raw text response
func (c *BedrockClient) Complete(ctx context.Context, prompt string, opts core.GenerationOptions) (string, error) {
	// Build the request payload for the model family
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": opts.MaxOutputTokens,
			"temperature":          opts.Temperature,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": opts.MaxOutputTokens,
				"temperature":   opts.Temperature,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  opts.MaxOutputTokens,
			"temperature": opts.Temperature,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := c.extractText(resp.Body)
	if err != nil {
		return "", err
	}

	c.logger.Debug("Bedrock completion received",
		zap.String("model", c.modelID),
		zap.Int("response_size", len(text)))

	return text, nil
}

// extractText pulls the generated text out of the model-family-specific
// response envelope
func (c *BedrockClient) extractText(body []byte) (string, error) {
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("failed to parse Bedrock response: %w", err)
	}

	if c.isAnthropicModel() {
		if completion, ok := envelope["completion"].(string); ok && completion != "" {
			return completion, nil
		}
		return "", fmt.Errorf("%w: no completion from Bedrock", core.ErrEmptyModelResponse)
	}

	if c.isAmazonTitanModel() {
		if results, ok := envelope["results"].([]interface{}); ok && len(results) > 0 {
			if result, ok := results[0].(map[string]interface{}); ok {
				if text, ok := result["outputText"].(string); ok && text != "" {
					return text, nil
				}
			}
		}
		return "", fmt.Errorf("%w: no output text from Bedrock", core.ErrEmptyModelResponse)
	}

	for _, key := range []string{"completion", "generation", "text"} {
		if text, ok := envelope[key].(string); ok && text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: unrecognized Bedrock response shape", core.ErrEmptyModelResponse)
}
