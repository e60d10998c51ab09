package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/domain/credential"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/metrics"
)

const (
	providerName     = "model"
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel     = "gemini-2.0-flash"
	maxErrorBodySize = 256
)

var errEmptyCompletion = errors.New("model returned no choices")

// Config selects the OpenAI-compatible endpoint and model.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ChatClient sends a single-message chat completion and returns the reply text.
type ChatClient struct {
	cfg    Config
	http   *resty.Client
	creds  credential.Provider
	log    zerolog.Logger
	tracer trace.Tracer
}

var _ augment.ModelClient = (*ChatClient)(nil)

func NewChatClient(cfg Config, creds credential.Provider, log zerolog.Logger) *ChatClient {
	cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &ChatClient{
		cfg: cfg,
		http: resty.New().
			SetHeader("User-Agent", "Cork-Grounding-Gateway/1.0").
			SetTimeout(cfg.Timeout).
			SetRetryCount(0),
		creds:  creds,
		log:    log.With().Str("component", "inference").Logger(),
		tracer: otel.Tracer("grounding-gateway/inference"),
	}
}

// Configured reports whether a model key is available.
func (c *ChatClient) Configured() bool {
	return c.key().IsSet()
}

// Generate returns augment.ErrModelNotConfigured without a call when no key is set.
func (c *ChatClient) Generate(ctx context.Context, prompt augment.Prompt) (string, error) {
	return c.run(ctx, "inference.Generate", openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.String(),
	})
}

// GenerateWithImage sends the prompt and the image as one multi-part user message.
func (c *ChatClient) GenerateWithImage(ctx context.Context, prompt augment.Prompt, image augment.Image) (string, error) {
	return c.run(ctx, "inference.GenerateWithImage", openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt.String()},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: image.DataURL(), Detail: openai.ImageURLDetailAuto},
			},
		},
	})
}

func (c *ChatClient) key() credential.Credential {
	if c.creds == nil {
		return credential.Credential{}
	}
	return c.creds.Model()
}

func (c *ChatClient) run(ctx context.Context, spanName string, message openai.ChatCompletionMessage) (string, error) {
	key := c.key()
	if !key.IsSet() {
		metrics.RecordModelInvocation(c.cfg.Model, "not_configured")
		return "", augment.ErrModelNotConfigured
	}

	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.cfg.Model))

	text, err := c.complete(ctx, key, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		metrics.RecordModelInvocation(c.cfg.Model, "error")
		return "", err
	}
	metrics.RecordModelInvocation(c.cfg.Model, "ok")
	return text, nil
}

func (c *ChatClient) complete(ctx context.Context, key credential.Credential, message openai.ChatCompletionMessage) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{message},
	}

	var respBody openai.ChatCompletionResponse
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", key.Reveal())).
		SetBody(request).
		SetResult(&respBody).
		Post(c.cfg.BaseURL + "/chat/completions")
	metrics.RecordProviderDuration(providerName, time.Since(start).Seconds())

	if err != nil {
		metrics.RecordProviderError(providerName, "transport")
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if !resp.IsSuccess() {
		metrics.RecordProviderError(providerName, "status")
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode(), truncate(resp.String(), maxErrorBodySize))
	}
	if len(respBody.Choices) == 0 {
		metrics.RecordProviderError(providerName, "empty")
		return "", errEmptyCompletion
	}

	c.log.Debug().
		Str("model", respBody.Model).
		Int("prompt_tokens", respBody.Usage.PromptTokens).
		Int("completion_tokens", respBody.Usage.CompletionTokens).
		Msg("chat completion finished")

	return respBody.Choices[0].Message.Content, nil
}

func normalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
