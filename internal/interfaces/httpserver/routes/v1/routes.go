package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/handlers"
)

const (
	maxBodyBytes = 64 << 10
	// Label photos arrive inline as base64.
	maxImageBodyBytes = 10 << 20
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under the /v1 prefix of an authenticated router.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")
	registerAnswerRoutes(group, r.handlers.Answer)
	registerLookupRoutes(group, r.handlers.Lookup)
	registerLabelRoutes(group, r.handlers.Label)
}
