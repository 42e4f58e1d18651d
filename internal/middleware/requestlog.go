package middleware

import (
	"time"

	"budgetbook/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestLogger emits one structured line per request with a request id.
// Requests from authenticated users carry the user id.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		c.Set("requestID", reqID)

		c.Next()

		ev := log.Info()
		if len(c.Errors) > 0 || c.Writer.Status() >= 500 {
			ev = log.Error()
		}

		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				ev = ev.Uint("user_id", user.ID)
			}
		}

		ev.Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
