package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader     = "X-Request-Id"
	requestIDContextKey = "chat.request_id"
)

// RequestID tags every request with a UUID request id. A caller-supplied
// X-Request-Id is honored only when it parses as a UUID; anything else is
// replaced so log and trace correlation never keys on junk input. The id is
// echoed on the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Request.Header.Set(requestIDHeader, id)
		}

		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext returns the request id assigned by RequestID, or an
// empty string outside its scope.
func RequestIDFromContext(c *gin.Context) string {
	id, ok := c.Get(requestIDContextKey)
	if !ok {
		return ""
	}
	s, _ := id.(string)
	return s
}
