//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/corkapps/grounding-gateway/internal/config"
	"github.com/corkapps/grounding-gateway/internal/domain"
	"github.com/corkapps/grounding-gateway/internal/infrastructure"
	"github.com/corkapps/grounding-gateway/internal/interfaces"
)

func CreateApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		interfaces.InterfacesProvider,
		NewApplication,
	)
	return nil, nil
}
