package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/handlers"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/middlewares"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/responses"
)

type labelRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

type labelResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type labelParseFailure struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

func registerLabelRoutes(router gin.IRoutes, handler *handlers.LabelHandler) {
	router.POST("/labels/analyze", postLabelAnalysis(handler))
}

// postLabelAnalysis reads a wine label photo sent as base64 or a data URL.
func postLabelAnalysis(handler *handlers.LabelHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBodyBytes)

		var body labelRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			responses.BadRequest(c, err, "Invalid request body")
			return
		}

		id, _ := middlewares.IdentityFromContext(c)
		result, err := handler.AnalyzeLabel(c.Request.Context(), augment.LabelRequest{ImageBase64: body.ImageBase64}, id)
		if err != nil {
			responses.HandleError(c, err, "Failed to analyze image")
			return
		}

		if !result.Parsed() {
			c.JSON(http.StatusInternalServerError, labelParseFailure{Error: "Failed to parse wine data", Raw: result.Raw})
			return
		}
		c.JSON(http.StatusOK, labelResponse{Success: true, Data: result.Data})
	}
}
