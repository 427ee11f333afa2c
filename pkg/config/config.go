package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/andrew/llm-chat/pkg/llm"
)

const (
	// APIKeyEnv holds the OpenAI credential
	APIKeyEnv = "OPENAI_API_KEY"
	// BaseURLEnv overrides the OpenAI endpoint
	BaseURLEnv = "OPENAI_BASE_URL"
	// ProviderEnv selects the completion provider
	ProviderEnv = "CHAT_PROVIDER"
	// ModelEnv overrides the provider's default model
	ModelEnv = "CHAT_MODEL"
	// OllamaHostEnv is the Ollama server address
	OllamaHostEnv = "OLLAMA_HOST"
)

// ErrMissingAPIKey is returned by Validate when the credential is not set
var ErrMissingAPIKey = errors.New(APIKeyEnv + " environment variable is not set")

// Config holds the client configuration
type Config struct {
	Provider   string
	APIKey     string
	BaseURL    string
	OllamaHost string
	Model      string
	Generation llm.ModelConfig
	Debug      bool
	NoColor    bool
}

// Load reads the configuration from the environment
func Load() Config {
	provider := strings.ToLower(env(ProviderEnv))
	if provider == "" {
		provider = llm.ProviderOpenAI
	}

	return Config{
		Provider:   provider,
		APIKey:     env(APIKeyEnv),
		BaseURL:    env(BaseURLEnv),
		OllamaHost: env(OllamaHostEnv),
		Model:      env(ModelEnv),
		Generation: llm.DefaultModelConfig(),
	}
}

// Validate checks that everything the selected provider needs is present
func (c Config) Validate() error {
	switch c.Provider {
	case llm.ProviderOpenAI:
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
	case llm.ProviderOllama:
	default:
		return fmt.Errorf("%w: %q", llm.ErrUnknownProvider, c.Provider)
	}

	if c.Generation.MaxTokens < 0 {
		return fmt.Errorf("invalid max tokens: %d", c.Generation.MaxTokens)
	}
	return nil
}

// ModelName returns the configured model or the provider default
func (c Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return llm.DefaultModel(c.Provider)
}

// ProviderConfig returns the settings used to build the completion client
func (c Config) ProviderConfig() llm.ProviderConfig {
	cfg := llm.ProviderConfig{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
	}
	if c.Provider == llm.ProviderOllama {
		cfg.BaseURL = c.OllamaHost
	}
	return cfg
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
