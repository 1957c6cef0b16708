package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope for all error payloads.
type ErrorResponse struct {
	Error string `json:"error"`
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}
