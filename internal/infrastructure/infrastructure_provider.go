package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/corkapps/grounding-gateway/internal/config"
	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/domain/credential"
	"github.com/corkapps/grounding-gateway/internal/domain/search"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/auth"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/inference"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/serper"
	"github.com/corkapps/grounding-gateway/pkg/telemetry"
)

// ProvideCredentials exposes the provider keys loaded from the environment.
func ProvideCredentials(cfg *config.Config) *credential.Static {
	return cfg.Credentials()
}

// ProvideSanitizer builds the PII sanitizer used by domain logging.
func ProvideSanitizer(cfg *config.Config) *telemetry.Sanitizer {
	return telemetry.NewSanitizer(telemetry.PIILevel(cfg.PIILevel), cfg.PIISalt)
}

// ProvideVerifier starts JWKS loading for the identity authority.
func ProvideVerifier(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.JWKSVerifier, error) {
	return auth.NewJWKSVerifier(ctx, auth.Options{
		JWKSURL:      cfg.AuthJWKSURL,
		Issuer:       cfg.AuthIssuer,
		Audience:     cfg.AuthAudience,
		ClockSkew:    cfg.AuthClockSkew,
		RefreshEvery: cfg.AuthJWKSRefresh,
	}, log)
}

// ProvideSearchClient builds the Serper client.
func ProvideSearchClient(cfg *config.Config, creds credential.Provider, log zerolog.Logger) *serper.Client {
	return serper.NewClient(serper.Config{
		Endpoint: cfg.SerperEndpoint,
		Timeout:  cfg.SearchTimeout,
		Breaker: serper.BreakerConfig{
			Enabled:          cfg.SearchBreakerEnabled,
			FailureThreshold: cfg.SearchBreakerFailures,
			SuccessThreshold: cfg.SearchBreakerSuccesses,
			Cooldown:         cfg.SearchBreakerCooldown,
		},
	}, creds, log)
}

// ProvideModelClient builds the OpenAI-compatible chat client.
func ProvideModelClient(cfg *config.Config, creds credential.Provider, log zerolog.Logger) *inference.ChatClient {
	return inference.NewChatClient(inference.Config{
		BaseURL: cfg.ModelBaseURL,
		Model:   cfg.ModelName,
		Timeout: cfg.ModelTimeout,
	}, creds, log)
}

// ProvideAugmentConfig maps environment bounds onto the orchestrator.
func ProvideAugmentConfig(cfg *config.Config) augment.Config {
	return augment.Config{
		ResultCount:    cfg.SearchResults,
		MaxQueryLength: cfg.MaxQueryLength,
		SearchTimeout:  cfg.SearchTimeout,
		ModelTimeout:   cfg.ModelTimeout,
	}
}

var InfrastructureProvider = wire.NewSet(
	ProvideCredentials,
	wire.Bind(new(credential.Provider), new(*credential.Static)),
	ProvideSanitizer,
	ProvideVerifier,
	ProvideSearchClient,
	wire.Bind(new(search.Client), new(*serper.Client)),
	ProvideModelClient,
	wire.Bind(new(augment.ModelClient), new(*inference.ChatClient)),
	ProvideAugmentConfig,
)
