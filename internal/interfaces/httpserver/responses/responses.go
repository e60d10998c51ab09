package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corkapps/grounding-gateway/internal/utils/platformerrors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError writes a PlatformError as {"error": message} with its mapped status.
// Errors of unknown shape become a 500 with fallbackMessage.
func HandleError(c *gin.Context, err error, fallbackMessage string) {
	perr := platformerrors.AsError(c.Request.Context(), platformerrors.LayerRoute, err, fallbackMessage)
	_ = c.Error(perr)

	status := perr.HTTPStatus()
	message := perr.Message
	if message == "" {
		message = fallbackMessage
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// HandleErrorWithStatus writes a fixed status and message.
func HandleErrorWithStatus(c *gin.Context, status int, err error, message string) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// BadRequest is a 400 with the given message.
func BadRequest(c *gin.Context, err error, message string) {
	HandleErrorWithStatus(c, http.StatusBadRequest, err, message)
}
