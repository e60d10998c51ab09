package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/corkapps/grounding-gateway/internal/domain/identity"
)

const (
	jwksInitialRetryInterval   = time.Second
	jwksInitialRetryMaxBackoff = 30 * time.Second
)

// Options configures token verification.
type Options struct {
	JWKSURL      string
	Issuer       string
	Audience     string
	ClockSkew    time.Duration
	RefreshEvery time.Duration
}

// JWKSVerifier validates identity tokens against the authority's published keys.
// Keys are cached and refreshed; verification results never are.
type JWKSVerifier struct {
	opts    Options
	log     zerolog.Logger
	keyfunc atomic.Pointer[jwt.Keyfunc]
}

var _ identity.Verifier = (*JWKSVerifier)(nil)

// NewJWKSVerifier returns immediately and loads the key set in the background.
// Tokens are rejected until the first fetch succeeds; see Ready.
func NewJWKSVerifier(ctx context.Context, opts Options, log zerolog.Logger) (*JWKSVerifier, error) {
	if strings.TrimSpace(opts.JWKSURL) == "" {
		return nil, errors.New("jwks url is required")
	}
	if opts.RefreshEvery <= 0 {
		opts.RefreshEvery = time.Hour
	}

	v := newVerifier(opts, log)
	go v.initJWKS(ctx)
	return v, nil
}

// NewStaticVerifier verifies with a fixed key lookup. It is ready at once.
func NewStaticVerifier(lookup jwt.Keyfunc, opts Options, log zerolog.Logger) *JWKSVerifier {
	v := newVerifier(opts, log)
	v.keyfunc.Store(&lookup)
	return v
}

func newVerifier(opts Options, log zerolog.Logger) *JWKSVerifier {
	return &JWKSVerifier{
		opts: opts,
		log:  log.With().Str("component", "auth").Logger(),
	}
}

func (v *JWKSVerifier) initJWKS(ctx context.Context) {
	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   v.opts.RefreshEvery,
		RefreshUnknownKID: true,
		RefreshRateLimit:  time.Minute,
		RefreshErrorHandler: func(err error) {
			v.log.Error().Err(err).Msg("jwks refresh failed")
		},
	}

	backoff := jwksInitialRetryInterval
	for attempt := 1; ; attempt++ {
		jwks, err := keyfunc.Get(v.opts.JWKSURL, options)
		if err == nil {
			var lookup jwt.Keyfunc = jwks.Keyfunc
			v.keyfunc.Store(&lookup)
			v.log.Info().Str("jwks_url", v.opts.JWKSURL).Msg("jwks loaded")
			return
		}
		v.log.Warn().
			Err(err).
			Str("jwks_url", v.opts.JWKSURL).
			Int("attempt", attempt).
			Msg("initial jwks fetch failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		if next := backoff * 2; next <= jwksInitialRetryMaxBackoff {
			backoff = next
		} else {
			backoff = jwksInitialRetryMaxBackoff
		}
	}
}

// Verify checks the bearer token in an Authorization header value.
func (v *JWKSVerifier) Verify(_ context.Context, authorizationHeader string) (identity.Identity, error) {
	rawToken := bearerToken(authorizationHeader)
	if rawToken == "" {
		return identity.Identity{}, identity.ErrMissingCredential
	}

	id, err := v.validate(rawToken)
	if err != nil {
		v.log.Warn().Err(err).Msg("token rejected")
		return identity.Identity{}, fmt.Errorf("%w: %v", identity.ErrInvalidCredential, err)
	}
	return id, nil
}

func (v *JWKSVerifier) validate(rawToken string) (identity.Identity, error) {
	lookup := v.keyfunc.Load()
	if lookup == nil {
		return identity.Identity{}, errors.New("jwks not initialised")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.opts.Issuer),
		jwt.WithAudience(v.opts.Audience),
		jwt.WithLeeway(v.opts.ClockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(rawToken, claims, *lookup)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return identity.Identity{}, errors.New("invalid token")
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return identity.Identity{}, errors.New("sub claim missing")
	}
	iss, _ := claims.GetIssuer()
	aud, _ := claims.GetAudience()

	id := identity.Identity{
		Subject:  sub,
		Issuer:   iss,
		Audience: []string(aud),
		Email:    claimString(claims["email"]),
		Claims:   map[string]any(claims),
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		id.ExpiresAt = exp.UTC()
	}
	if iat, _ := claims.GetIssuedAt(); iat != nil {
		id.IssuedAt = iat.UTC()
	}
	return id, nil
}

// Ready indicates whether the key set has been loaded.
func (v *JWKSVerifier) Ready() bool {
	return v.keyfunc.Load() != nil
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func claimString(value any) string {
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}
