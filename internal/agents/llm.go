// Package agents provides the LLM agent gateway and the synthesis coordinator.
package agents

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// agentTemperature biases agents toward stable, reproducible phrasing.
// It does not make responses deterministic.
const agentTemperature = 0.4

// LLMClient defines the interface for the language-model service boundary.
type LLMClient interface {
	// CompleteWithSystem sends a system-framed prompt and returns the
	// response text.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt, model string) (string, error)
}

// OpenAIClient implements LLMClient using the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI LLM client.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
	}
}

// CompleteWithSystem sends a prompt with system message to the LLM.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt, model string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: agentTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}
