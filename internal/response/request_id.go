package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// requestIDHeader is both accepted from clients and echoed on responses,
// so a caller-supplied ID survives end to end.
const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an ID. If the client sent
// one it is reused, otherwise a fresh UUID is minted. The ID ends up in
// the response envelope metadata and in log lines.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
