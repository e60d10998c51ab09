package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/corkapps/grounding-gateway/internal/domain/credential"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// Config holds the environment driven configuration for the gateway.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"grounding-gateway"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTLPHeaders     string        `env:"OTEL_EXPORTER_OTLP_HEADERS" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	PIILevel string `env:"PII_LEVEL" envDefault:"hashed"`
	PIISalt  string `env:"PII_SALT" envDefault:"grounding-gateway"`

	// Identity authority
	FirebaseProjectID string        `env:"FIREBASE_PROJECT_ID"`
	AuthIssuer        string        `env:"AUTH_ISSUER"`
	AuthAudience      string        `env:"AUTH_AUDIENCE"`
	AuthJWKSURL       string        `env:"AUTH_JWKS_URL" envDefault:"https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"`
	AuthClockSkew     time.Duration `env:"AUTH_CLOCK_SKEW" envDefault:"30s"`
	AuthJWKSRefresh   time.Duration `env:"AUTH_JWKS_REFRESH" envDefault:"1h"`

	// Search provider
	SerperAPIKey   string        `env:"SERPER_API_KEY"`
	SerperEndpoint string        `env:"SERPER_ENDPOINT" envDefault:"https://google.serper.dev/search"`
	SearchResults  int           `env:"SEARCH_RESULTS" envDefault:"5"`
	SearchTimeout  time.Duration `env:"SEARCH_TIMEOUT" envDefault:"8s"`

	SearchBreakerEnabled   bool          `env:"SEARCH_BREAKER_ENABLED" envDefault:"false"`
	SearchBreakerFailures  int           `env:"SEARCH_BREAKER_FAILURES" envDefault:"5"`
	SearchBreakerSuccesses int           `env:"SEARCH_BREAKER_SUCCESSES" envDefault:"2"`
	SearchBreakerCooldown  time.Duration `env:"SEARCH_BREAKER_COOLDOWN" envDefault:"30s"`

	// Language model
	ModelAPIKey    string        `env:"MODEL_API_KEY"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	ModelBaseURL   string        `env:"MODEL_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	ModelName      string        `env:"MODEL_NAME" envDefault:"gemini-2.0-flash"`
	ModelTimeout   time.Duration `env:"MODEL_TIMEOUT" envDefault:"60s"`
	MaxQueryLength int           `env:"MAX_QUERY_LENGTH" envDefault:"2000"`

	// HTTP edge
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimit          string   `env:"RATE_LIMIT" envDefault:""`
}

// Load parses environment variables into Config.
//
// Provider keys are optional: a missing key degrades the matching call
// instead of failing startup.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.applyFallbacks()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFallbacks() {
	if strings.TrimSpace(c.ModelAPIKey) == "" {
		c.ModelAPIKey = c.GeminiAPIKey
	}
	project := strings.TrimSpace(c.FirebaseProjectID)
	if project == "" {
		return
	}
	if strings.TrimSpace(c.AuthIssuer) == "" {
		c.AuthIssuer = firebaseIssuerPrefix + project
	}
	if strings.TrimSpace(c.AuthAudience) == "" {
		c.AuthAudience = project
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.AuthAudience) == "" {
		return fmt.Errorf("AUTH_AUDIENCE or FIREBASE_PROJECT_ID is required")
	}
	if strings.TrimSpace(c.AuthIssuer) == "" {
		return fmt.Errorf("AUTH_ISSUER or FIREBASE_PROJECT_ID is required")
	}
	if strings.TrimSpace(c.AuthJWKSURL) == "" {
		return fmt.Errorf("AUTH_JWKS_URL is required")
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("SEARCH_TIMEOUT must be positive")
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive")
	}
	if c.MaxQueryLength <= 0 {
		return fmt.Errorf("MAX_QUERY_LENGTH must be positive")
	}
	switch c.PIILevel {
	case "none", "hashed", "full":
	default:
		return fmt.Errorf("PII_LEVEL must be one of none, hashed, full")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Credentials exposes the provider keys behind redacting values.
func (c *Config) Credentials() *credential.Static {
	return credential.NewStatic(c.SerperAPIKey, c.ModelAPIKey)
}

// Warnings lists configuration that is accepted but likely a mistake.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.SearchTimeout >= c.ModelTimeout {
		warnings = append(warnings, "SEARCH_TIMEOUT should be shorter than MODEL_TIMEOUT")
	}
	if strings.TrimSpace(c.SerperAPIKey) == "" {
		warnings = append(warnings, "SERPER_API_KEY not set, answers will not be grounded")
	}
	if strings.TrimSpace(c.ModelAPIKey) == "" {
		warnings = append(warnings, "MODEL_API_KEY not set, model calls will fail")
	}
	return warnings
}
