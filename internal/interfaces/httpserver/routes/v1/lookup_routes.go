package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/handlers"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/middlewares"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/responses"
)

// looseString accepts a JSON string or number, e.g. a vintage sent as 2019 or "2019".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = looseString(n.String())
	return nil
}

type priceLookupRequest struct {
	Name     looseString `json:"name"`
	Producer looseString `json:"producer"`
	Year     looseString `json:"year"`
	Region   looseString `json:"region"`
}

type priceLookupResponse struct {
	Success     bool                   `json:"success"`
	Data        *augment.PriceEstimate `json:"data"`
	SearchTerms string                 `json:"searchTerms"`
	Message     string                 `json:"message,omitempty"`
}

func registerLookupRoutes(router gin.IRoutes, handler *handlers.LookupHandler) {
	router.POST("/lookups/price", postPriceLookup(handler))
}

// postPriceLookup estimates a wine's retail price from search results.
// Provider failures still answer 200 with null data.
func postPriceLookup(handler *handlers.LookupHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		var body priceLookupRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			responses.BadRequest(c, err, "Invalid request body")
			return
		}

		id, _ := middlewares.IdentityFromContext(c)
		result, err := handler.LookupPrice(c.Request.Context(), augment.LookupRequest{
			Name:     string(body.Name),
			Producer: string(body.Producer),
			Year:     string(body.Year),
			Region:   string(body.Region),
		}, id)
		if err != nil {
			responses.HandleError(c, err, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, priceLookupResponse{
			Success:     true,
			Data:        result.Estimate,
			SearchTerms: result.SearchTerms,
			Message:     result.Message,
		})
	}
}
