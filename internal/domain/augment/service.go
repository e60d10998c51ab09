package augment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/corkapps/grounding-gateway/internal/domain/identity"
	"github.com/corkapps/grounding-gateway/internal/domain/search"
	"github.com/corkapps/grounding-gateway/internal/utils/platformerrors"
	"github.com/corkapps/grounding-gateway/pkg/telemetry"
)

const (
	DefaultMaxQueryLength = 2000
	DefaultSearchTimeout  = 8 * time.Second
	DefaultModelTimeout   = 60 * time.Second
)

// ModelClient turns a prompt, optionally with an image, into generated text.
type ModelClient interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
	GenerateWithImage(ctx context.Context, prompt Prompt, image Image) (string, error)
	// Configured reports whether the client holds a credential.
	Configured() bool
}

// Config bounds a single orchestration.
type Config struct {
	ResultCount    int
	MaxQueryLength int
	SearchTimeout  time.Duration
	ModelTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.ResultCount <= 0 {
		c.ResultCount = search.DefaultResultCount
	}
	if c.MaxQueryLength <= 0 {
		c.MaxQueryLength = DefaultMaxQueryLength
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = DefaultSearchTimeout
	}
	if c.ModelTimeout <= 0 {
		c.ModelTimeout = DefaultModelTimeout
	}
	return c
}

// Request is an end-user question.
type Request struct {
	Query          string
	IncludeContext bool
}

// Answer is the generated text plus the context it was grounded on.
type Answer struct {
	Text       string
	Context    string
	HasContext bool
}

// Service grounds questions on search results before asking the model.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	searcher  search.Client
	model     ModelClient
	cfg       Config
	sanitizer *telemetry.Sanitizer
	log       zerolog.Logger
	tracer    trace.Tracer
}

func NewService(searcher search.Client, model ModelClient, cfg Config, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *Service {
	return &Service{
		searcher:  searcher,
		model:     model,
		cfg:       cfg.withDefaults(),
		sanitizer: sanitizer,
		log:       log.With().Str("component", "augment").Logger(),
		tracer:    otel.Tracer("grounding-gateway/augment"),
	}
}

// Answer grounds the query on web search results when available and asks the model.
func (s *Service) Answer(ctx context.Context, req Request, id identity.Identity) (*Answer, error) {
	if err := s.validateQuery(ctx, req.Query); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "augment.Answer")
	defer span.End()

	groundingContext, present := s.retrieve(ctx, search.NewQuery(req.Query, s.cfg.ResultCount))
	span.SetAttributes(attribute.Bool("augment.has_context", present))

	s.log.Debug().
		Str("subject", s.sanitizer.SanitizeSubject(id.Subject)).
		Str("query", s.sanitizer.SanitizeQuery(req.Query)).
		Bool("has_context", present).
		Msg("invoking model")

	text, err := s.invoke(ctx, BuildPrompt(groundingContext, present, req.Query))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model invocation failed")
		return nil, s.modelError(ctx, err)
	}

	answer := &Answer{Text: text}
	if req.IncludeContext && present {
		answer.Context = groundingContext
		answer.HasContext = true
	}
	return answer, nil
}

func (s *Service) validateQuery(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"query is required", ErrInvalidRequest)
	}
	if utf8.RuneCountInString(query) > s.cfg.MaxQueryLength {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("query exceeds %d characters", s.cfg.MaxQueryLength), ErrInvalidRequest,
			map[string]any{"max_query_length": s.cfg.MaxQueryLength})
	}
	return nil
}

// retrieve never fails: an unavailable search yields no context.
func (s *Service) retrieve(ctx context.Context, q search.Query) (string, bool) {
	if s.searcher == nil {
		return "", false
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()

	result := s.searcher.Search(searchCtx, q)
	set, ok := result.Get()
	if !ok {
		s.log.Debug().Str("reason", result.Reason()).Msg("search unavailable, continuing without context")
		return "", false
	}
	return search.Format(set)
}

func (s *Service) modelConfigured() bool {
	return s.model != nil && s.model.Configured()
}

func (s *Service) invoke(ctx context.Context, prompt Prompt) (string, error) {
	if s.model == nil {
		return "", ErrModelNotConfigured
	}
	modelCtx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()
	return s.model.Generate(modelCtx, prompt)
}

func (s *Service) modelError(ctx context.Context, cause error) *platformerrors.PlatformError {
	errorType := platformerrors.ErrorTypeExternal
	message := "model invocation failed"
	if errors.Is(cause, ErrModelNotConfigured) {
		errorType = platformerrors.ErrorTypeInternal
		message = "model provider not configured"
	}
	perr := platformerrors.NewError(ctx, platformerrors.LayerDomain, errorType, message,
		fmt.Errorf("%w: %w", ErrModelInvocationFailed, cause))
	platformerrors.LogError(s.log, perr)
	return perr
}
