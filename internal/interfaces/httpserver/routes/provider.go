package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/handlers"
	v1 "github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/routes/v1"
)

// Provider groups every versioned route registrar.
type Provider struct {
	V1 *v1.Routes
}

func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{V1: v1.NewRoutes(handlerProvider)}
}

// Register attaches all versions to an authenticated router.
func (p *Provider) Register(router gin.IRouter) {
	p.V1.Register(router)
}
