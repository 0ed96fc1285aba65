package logger

import (
	"crypto/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const (
	ContextRequestID = "requestID"
	contextEntry     = "logEntry"
)

// RequestLogger tags every request with an X-Request-ID and logs it once done.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = ulid.MustNew(ulid.Timestamp(start), rand.Reader).String()
		}
		c.Header("X-Request-ID", reqID)

		entry := logg.WithFields(logrus.Fields{
			"req_id": reqID,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Set(ContextRequestID, reqID)
		c.Set(contextEntry, entry)

		c.Next()

		entry.WithFields(logrus.Fields{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		}).Info("http_request")
	}
}

// FromGin returns the request-scoped entry, or a bare one outside a request.
func FromGin(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(contextEntry); ok {
		if e, ok := v.(*logrus.Entry); ok {
			return e
		}
	}
	return logrus.NewEntry(logg)
}
