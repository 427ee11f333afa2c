package config

import (
	"testing"

	"github.com/andrew/llm-chat/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{APIKeyEnv, BaseURLEnv, ProviderEnv, ModelEnv, OllamaHostEnv} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, llm.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.ModelName())
	assert.Equal(t, llm.DefaultModelConfig(), cfg.Generation)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(APIKeyEnv, "  sk-test \n")
	t.Setenv(BaseURLEnv, "https://proxy.example.com/v1")
	t.Setenv(ModelEnv, "gpt-4o-mini")

	cfg := Load()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.ModelName())

	pc := cfg.ProviderConfig()
	assert.Equal(t, llm.ProviderOpenAI, pc.Provider)
	assert.Equal(t, "sk-test", pc.APIKey)
	assert.Equal(t, "https://proxy.example.com/v1", pc.BaseURL)
}

func TestOllamaNeedsNoAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv(ProviderEnv, "Ollama")
	t.Setenv(OllamaHostEnv, "http://gpu-box:11434")

	cfg := Load()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "llama3.2", cfg.ModelName())
	assert.Equal(t, "http://gpu-box:11434", cfg.ProviderConfig().BaseURL)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := Config{Provider: "gemini"}
	assert.ErrorIs(t, cfg.Validate(), llm.ErrUnknownProvider)
}

func TestMissingAPIKeyNamesVariable(t *testing.T) {
	assert.Contains(t, ErrMissingAPIKey.Error(), "OPENAI_API_KEY")
}
