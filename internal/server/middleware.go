package server

import (
	"time"

	"ihint/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// requestContext tags each request with an id, puts a request-scoped logger
// in its context and writes one access line when it completes.
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		log := s.log.WithField("request_id", requestID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), log))

		start := time.Now()
		c.Next()

		log.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

func requestLogger(c *gin.Context) *logger.Logger {
	if log := logger.FromContext(c.Request.Context()); log != nil {
		return log
	}
	return logger.Discard()
}
