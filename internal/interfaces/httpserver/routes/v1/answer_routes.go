package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corkapps/grounding-gateway/internal/domain/augment"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/handlers"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/middlewares"
	"github.com/corkapps/grounding-gateway/internal/interfaces/httpserver/responses"
)

type answerRequest struct {
	Query          string `json:"query"`
	IncludeContext bool   `json:"include_context"`
}

type answerResponse struct {
	Answer  string  `json:"answer"`
	Context *string `json:"context,omitempty"`
}

func registerAnswerRoutes(router gin.IRoutes, handler *handlers.AnswerHandler) {
	router.POST("/answer", postAnswer(handler))
}

// postAnswer answers a question grounded on live web search results.
func postAnswer(handler *handlers.AnswerHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		var body answerRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			responses.BadRequest(c, err, "Invalid request body")
			return
		}

		id, _ := middlewares.IdentityFromContext(c)
		answer, err := handler.Answer(c.Request.Context(), augment.Request{
			Query:          body.Query,
			IncludeContext: body.IncludeContext,
		}, id)
		if err != nil {
			responses.HandleError(c, err, "Internal server error")
			return
		}

		resp := answerResponse{Answer: answer.Text}
		if answer.HasContext {
			resp.Context = &answer.Context
		}
		c.JSON(http.StatusOK, resp)
	}
}
