package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "shortid/internal/core/context"
	"shortid/internal/core/id"
	"shortid/pkg/logger"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace middleware adds request tracing context.
// Missing request IDs and missing or malformed trace IDs are minted as
// version 1 UUIDs.
func Trace(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = id.New().String()
		}

		// Trace IDs are UUIDs end to end; anything else is replaced.
		traceID := c.GetHeader(HeaderTraceID)
		if parsed, err := id.Parse(traceID); err == nil {
			traceID = parsed.String()
		} else {
			traceID = id.New().String()
		}

		trace := &appctx.TraceContext{
			TraceID:   traceID,
			SpanID:    id.New().String()[:16],
			RequestID: requestID,
		}

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		ctx = logger.WithLogger(ctx, log)
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
