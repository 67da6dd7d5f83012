package ai

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client from OPENAI_API_KEY / OPENAI_MODEL. A
// missing key does not fail startup: the service substitutes a fallback
// reply instead of calling the API.
func NewOpenAIClient() *OpenAIClient {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	var client *openai.Client
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		client = openai.NewClient(apiKey)
	}

	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

func (c *OpenAIClient) Configured() bool {
	return c.client != nil
}

// GetCompletion sends the prompt as a single user message. The remote side
// is stateless per call; any conversational context is already folded into
// the prompt.
func (c *OpenAIClient) GetCompletion(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("openai: %w", ports.ErrMissingAPIKey)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
