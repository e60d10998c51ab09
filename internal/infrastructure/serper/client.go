package serper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/corkapps/grounding-gateway/internal/domain/credential"
	"github.com/corkapps/grounding-gateway/internal/domain/search"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/metrics"
)

const (
	providerName    = "serper"
	DefaultEndpoint = "https://google.serper.dev/search"
)

// Config controls the Serper client.
type Config struct {
	Endpoint string
	// Timeout caps one request; the caller's context may be shorter.
	Timeout time.Duration
	Breaker BreakerConfig
}

// Client calls the Serper search API once per query and never retries.
type Client struct {
	cfg     Config
	http    *resty.Client
	creds   credential.Provider
	breaker *CircuitBreaker
	log     zerolog.Logger
	tracer  trace.Tracer
}

var _ search.Client = (*Client)(nil)

func NewClient(cfg Config, creds credential.Provider, log zerolog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	log = log.With().Str("component", "serper").Logger()

	httpClient := resty.New().
		SetHeader("User-Agent", "Cork-Grounding-Gateway/1.0").
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetTransport(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		})

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		creds:   creds,
		breaker: NewCircuitBreaker(providerName, cfg.Breaker, log),
		log:     log,
		tracer:  otel.Tracer("grounding-gateway/serper"),
	}
}

// Search never returns an error: every failure becomes search.Unavailable.
func (c *Client) Search(ctx context.Context, q search.Query) (result search.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("serper search panicked")
			metrics.RecordSearch(providerName, "unavailable")
			result = search.Unavailable("search client failure")
		}
	}()

	var key credential.Credential
	if c.creds != nil {
		key = c.creds.Search()
	}
	if !key.IsSet() {
		metrics.RecordSearch(providerName, "skipped")
		return search.Unavailable("search credential not configured")
	}
	if !c.breaker.Allow() {
		metrics.RecordSearch(providerName, "skipped")
		return search.Unavailable("search circuit breaker open")
	}

	ctx, span := c.tracer.Start(ctx, "serper.Search", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("search.num", q.Num))

	set, err := c.do(ctx, key, q)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.breaker.Record(err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "search unavailable")
		metrics.RecordSearch(providerName, "unavailable")
		c.log.Debug().Err(err).Msg("serper search unavailable")
		return search.Unavailable(err.Error())
	}

	c.breaker.Record(nil)
	metrics.RecordSearch(providerName, "ok")
	span.SetAttributes(
		attribute.Bool("search.knowledge_graph", set.KnowledgeGraph != nil),
		attribute.Bool("search.answer_box", set.AnswerBox != nil),
		attribute.Int("search.organic", len(set.Organic)),
	)
	return search.Ok(set)
}

func (c *Client) do(ctx context.Context, key credential.Credential, q search.Query) (search.ResultSet, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", key.Reveal()).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"q":   q.Text,
			"num": q.Num,
		}).
		Post(c.cfg.Endpoint)
	metrics.RecordProviderDuration(providerName, time.Since(start).Seconds())

	if err != nil {
		metrics.RecordProviderError(providerName, "transport")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return search.ResultSet{}, fmt.Errorf("serper request: %w", ctxErr)
		}
		return search.ResultSet{}, fmt.Errorf("serper request: %w", err)
	}
	if !resp.IsSuccess() {
		metrics.RecordProviderError(providerName, "status")
		return search.ResultSet{}, fmt.Errorf("serper returned status %d", resp.StatusCode())
	}

	set, err := decodeResultSet(resp.Body())
	if err != nil {
		metrics.RecordProviderError(providerName, "decode")
		return search.ResultSet{}, err
	}
	return set, nil
}
