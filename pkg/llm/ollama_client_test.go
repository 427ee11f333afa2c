package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrew/llm-chat/pkg/models"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClientStreamsFragments(t *testing.T) {
	var got api.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"model":"llama3.2","message":{"role":"assistant","content":"Hi"},"done":false}`)
		fmt.Fprintln(w, `{"model":"llama3.2","message":{"role":"assistant","content":" there!"},"done":false}`)
		fmt.Fprintln(w, `{"model":"llama3.2","message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer server.Close()

	client, err := NewOllamaClient(server.URL)
	require.NoError(t, err)

	var fragments []string
	err = client.Stream(context.Background(), Request{
		System:   "be nice",
		Messages: []models.Message{models.NewMessage(models.RoleUser, "hello")},
		Config:   ModelConfig{Temperature: 0.2, MaxTokens: 100},
	}, func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hi", " there!"}, fragments)

	assert.Equal(t, defaultOllamaModel, got.Model)
	require.NotNil(t, got.Stream)
	assert.True(t, *got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be nice", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
	assert.EqualValues(t, 100, got.Options["num_predict"])
	assert.NotContains(t, got.Options, "top_p")
}

func TestOllamaClientReturnsStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"model":"llama3.2","message":{"role":"assistant","content":"partial"},"done":false}`)
		fmt.Fprintln(w, `{"error":"model crashed"}`)
	}))
	defer server.Close()

	client, err := NewOllamaClient(server.URL)
	require.NoError(t, err)

	var fragments []string
	err = client.Stream(context.Background(), Request{
		Messages: []models.Message{models.NewMessage(models.RoleUser, "hello")},
	}, func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model crashed")
	assert.Equal(t, []string{"partial"}, fragments)
}

func TestNewOllamaClientRejectsBadHost(t *testing.T) {
	_, err := NewOllamaClient("http://[::1")
	assert.Error(t, err)
}

func TestOllamaClientAcceptsHostWithoutScheme(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"model":"llama3.2","message":{"role":"assistant","content":"pong"},"done":true}`)
	}))
	defer server.Close()

	client, err := NewOllamaClient(strings.TrimPrefix(server.URL, "http://"))
	require.NoError(t, err)
	assert.Equal(t, server.URL, client.host)

	var reply strings.Builder
	err = client.Stream(context.Background(), Request{
		Messages: []models.Message{models.NewMessage(models.RoleUser, "ping")},
	}, func(fragment string) error {
		reply.WriteString(fragment)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "pong", reply.String())
}

func TestNewOllamaClientDefaultsFromEnvironment(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")

	client, err := NewOllamaClient("")

	require.NoError(t, err)
	assert.Contains(t, client.host, ":11434")
}
