package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/domain/credential"
)

func newChatServer(t *testing.T, handler func(w http.ResponseWriter, req openai.ChatCompletionRequest)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/openai/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer model-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestChatClient(baseURL string, creds credential.Provider) *ChatClient {
	return NewChatClient(Config{BaseURL: baseURL + "/v1beta/openai/", Model: "gemini-2.0-flash", Timeout: 2 * time.Second}, creds, zerolog.Nop())
}

func TestGenerate_ReturnsFirstChoice(t *testing.T) {
	server, calls := newChatServer(t, func(w http.ResponseWriter, req openai.ChatCompletionRequest) {
		assert.Equal(t, "gemini-2.0-flash", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
		assert.Equal(t, "[Knowledge Graph] Paris: Capital of France\n\ncapital of France", req.Messages[0].Content)

		writeJSON(w, http.StatusOK, openai.ChatCompletionResponse{
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "Paris."}},
			},
		})
	})

	client := newTestChatClient(server.URL, credential.NewStatic("", "model-key"))
	text, err := client.Generate(context.Background(), augment.BuildPrompt("[Knowledge Graph] Paris: Capital of France", true, "capital of France"))

	require.NoError(t, err)
	assert.Equal(t, "Paris.", text)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGenerate_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, map[string]any{"error": map[string]string{"message": "overloaded"}}, "status 500"},
		{"unauthorized", http.StatusUnauthorized, map[string]any{"error": "bad key"}, "status 401"},
		{"no choices", http.StatusOK, openai.ChatCompletionResponse{}, "no choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := newChatServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := newTestChatClient(server.URL, credential.NewStatic("", "model-key")).Generate(context.Background(), "hello")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotErrorIs(t, err, augment.ErrModelNotConfigured)
			assert.EqualValues(t, 1, calls.Load())
		})
	}
}

func TestGenerate_TruncatesErrorBody(t *testing.T) {
	server, _ := newChatServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	})

	_, err := newTestChatClient(server.URL, credential.NewStatic("", "model-key")).Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 400)
}

func TestGenerate_NotConfigured(t *testing.T) {
	server, calls := newChatServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		writeJSON(w, http.StatusOK, openai.ChatCompletionResponse{})
	})

	for _, creds := range []credential.Provider{credential.NewStatic("serper", ""), nil} {
		_, err := newTestChatClient(server.URL, creds).Generate(context.Background(), "hello")
		assert.ErrorIs(t, err, augment.ErrModelNotConfigured)
	}
	assert.Zero(t, calls.Load())
}

func TestGenerate_RespectsContext(t *testing.T) {
	server, _ := newChatServer(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		time.Sleep(500 * time.Millisecond)
		writeJSON(w, http.StatusOK, openai.ChatCompletionResponse{})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestChatClient(server.URL, credential.NewStatic("", "model-key")).Generate(ctx, "hello")
	assert.Error(t, err)
}

func TestNewChatClient_Defaults(t *testing.T) {
	client := NewChatClient(Config{}, nil, zerolog.Nop())
	assert.Equal(t, DefaultBaseURL, client.cfg.BaseURL)
	assert.Equal(t, DefaultModel, client.cfg.Model)
	assert.Equal(t, 60*time.Second, client.cfg.Timeout)
}

func TestGenerateWithImage_SendsMultiPartMessage(t *testing.T) {
	server, calls := newChatServer(t, func(w http.ResponseWriter, req openai.ChatCompletionRequest) {
		require.Len(t, req.Messages, 1)
		msg := req.Messages[0]
		assert.Empty(t, msg.Content)
		require.Len(t, msg.MultiContent, 2)
		assert.Equal(t, openai.ChatMessagePartTypeText, msg.MultiContent[0].Type)
		assert.Equal(t, "read the label", msg.MultiContent[0].Text)
		assert.Equal(t, openai.ChatMessagePartTypeImageURL, msg.MultiContent[1].Type)
		require.NotNil(t, msg.MultiContent[1].ImageURL)
		assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", msg.MultiContent[1].ImageURL.URL)

		writeJSON(w, http.StatusOK, openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: `{"name": "Sassicaia"}`}},
			},
		})
	})

	client := newTestChatClient(server.URL, credential.NewStatic("", "model-key"))
	text, err := client.GenerateWithImage(context.Background(), "read the label",
		augment.Image{MIMEType: "image/png", Data: "iVBORw0KGgo="})

	require.NoError(t, err)
	assert.Equal(t, `{"name": "Sassicaia"}`, text)
	assert.EqualValues(t, 1, calls.Load())
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewChatClient(Config{}, credential.NewStatic("", "model-key"), zerolog.Nop()).Configured())
	assert.False(t, NewChatClient(Config{}, credential.NewStatic("serper", ""), zerolog.Nop()).Configured())
	assert.False(t, NewChatClient(Config{}, nil, zerolog.Nop()).Configured())

	_, err := NewChatClient(Config{}, nil, zerolog.Nop()).GenerateWithImage(context.Background(), "x", augment.Image{})
	assert.ErrorIs(t, err, augment.ErrModelNotConfigured)
}
