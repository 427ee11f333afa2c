package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andrew/llm-chat/pkg/models"
	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

const defaultOllamaModel = "llama3.2"

// OllamaClient is a client that uses the Ollama API to stream chat replies
type OllamaClient struct {
	client *api.Client
	host   string
}

// NewOllamaClient creates a new client for an Ollama server. host accepts the
// same forms as OLLAMA_HOST, including a bare "host:port"; an empty host falls
// back to the Ollama environment defaults.
func NewOllamaClient(host string) (*OllamaClient, error) {
	var ollamaURL *url.URL
	if host == "" {
		ollamaURL = envconfig.Host()
	} else {
		if !strings.Contains(host, "://") {
			host = "http://" + host
		}

		var err error
		ollamaURL, err = url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid Ollama host %q: %w", host, err)
		}
	}

	httpClient := &http.Client{
		Timeout: time.Minute * 5, // 5 minute timeout for potentially long generations
	}

	return &OllamaClient{
		client: api.NewClient(ollamaURL, httpClient),
		host:   ollamaURL.String(),
	}, nil
}

// Stream sends the conversation to the chat endpoint and forwards each
// streamed chunk to fn
func (c *OllamaClient) Stream(ctx context.Context, req Request, fn FragmentFunc) error {
	model := req.Model
	if model == "" {
		model = defaultOllamaModel
	}

	stream := true
	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: toOllamaMessages(req.System, req.Messages),
		Stream:   &stream,
		Options:  toOllamaOptions(req.Config),
	}

	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		return fn(resp.Message.Content)
	})
	if err != nil {
		return fmt.Errorf("Ollama chat at %s failed: %w", c.host, err)
	}

	return nil
}

// Close cleans up any resources
func (c *OllamaClient) Close() error {
	// No cleanup needed for HTTP client
	return nil
}

func toOllamaMessages(system string, messages []models.Message) []api.Message {
	out := make([]api.Message, 0, len(messages)+1)
	if system != "" {
		out = append(out, api.Message{Role: string(models.RoleSystem), Content: system})
	}

	for _, msg := range messages {
		out = append(out, api.Message{Role: string(msg.Role), Content: msg.Content})
	}

	return out
}

func toOllamaOptions(config ModelConfig) map[string]interface{} {
	options := map[string]interface{}{}
	if config.Temperature > 0 {
		options["temperature"] = config.Temperature
	}
	if config.TopP > 0 {
		options["top_p"] = config.TopP
	}
	if config.MaxTokens > 0 {
		options["num_predict"] = config.MaxTokens
	}
	return options
}
