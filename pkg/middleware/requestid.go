package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/sirupsen/logrus"
)

const (
	requestIDKey    = "request.id"
	RequestIDHeader = "X-Request-ID"
)

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// NewRequestLogMiddleware tags every request with an id, taken from the
// X-Request-ID header when present, and logs the outcome.
func NewRequestLogMiddleware() gin.HandlerFunc {
	return requestLogMiddleware{log.WithField("module", "http")}.build()
}

type requestLogMiddleware struct {
	logger *logrus.Entry
}

func (r requestLogMiddleware) build() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := r.getRequestID(c)
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		r.logger.WithFields(logrus.Fields{
			"requestId": requestID,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
		}).Info("request handled")
	}
}

func (r requestLogMiddleware) getRequestID(c *gin.Context) string {
	if id := c.GetHeader(RequestIDHeader); id != "" && len(id) <= 128 {
		return id
	}
	return uuid.New().String()
}
