package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/andrew/llm-chat/pkg/models"
	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4o

// OpenAIClient streams chat completions from the OpenAI API
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client for the OpenAI API. An empty baseURL uses
// the public endpoint.
func NewOpenAIClient(apiKey string, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
	}
}

// Stream sends the conversation and forwards each delta to fn
func (c *OpenAIClient) Stream(ctx context.Context, req Request, fn FragmentFunc) error {
	model := req.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(req.System, req.Messages),
		Temperature: req.Config.Temperature,
		TopP:        req.Config.TopP,
		MaxTokens:   req.Config.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to start completion stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading completion stream: %w", err)
		}

		// Usage-only and role-only chunks carry no text
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}

		if err := fn(resp.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
}

// Close cleans up any resources
func (c *OpenAIClient) Close() error {
	// No cleanup needed for HTTP client
	return nil
}

func toOpenAIMessages(system string, messages []models.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, msg := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return out
}
