package domain

import (
	"github.com/google/wire"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
)

var ServiceProvider = wire.NewSet(
	augment.NewService,
)
