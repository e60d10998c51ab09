package interfaces

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/corkapps/grounding-gateway/internal/config"
	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/auth"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/handlers"
)

// ProvideHTTPServer builds the gin server; the verifier also drives /readyz.
func ProvideHTTPServer(cfg *config.Config, log zerolog.Logger, service handlers.Augmenter, verifier *auth.JWKSVerifier) (*httpserver.HttpServer, error) {
	return httpserver.New(cfg, log, service, verifier, verifier)
}

var InterfacesProvider = wire.NewSet(
	ProvideHTTPServer,
	wire.Bind(new(handlers.Augmenter), new(*augment.Service)),
)
