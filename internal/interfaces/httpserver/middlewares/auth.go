package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corkapps/grounding-gateway/internal/domain/identity"
	"github.com/corkapps/grounding-gateway/internal/infrastructure/metrics"
)

const (
	msgNoToken      = "Unauthorized - No token provided"
	msgInvalidToken = "Unauthorized - Invalid token"
)

// Auth verifies the bearer token and stores the identity on the request context.
// Rejected requests never reach the handlers.
func Auth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := verifier.Verify(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			message, outcome := msgInvalidToken, "invalid"
			if errors.Is(err, identity.ErrMissingCredential) {
				message, outcome = msgNoToken, "missing"
			}
			metrics.RecordAuth(outcome)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		metrics.RecordAuth("ok")
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(c *gin.Context) (identity.Identity, bool) {
	return identity.FromContext(c.Request.Context())
}
