package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shortid/pkg/logger"
)

// Logger writes one access line per request. Server errors log at error
// level, client errors at warn, the rest at info. Requests whose path is in
// skipPaths are not logged unless they fail.
func Logger(log *logger.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		if _, ok := skip[c.Request.URL.Path]; ok && status < http.StatusBadRequest {
			return
		}

		fields := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			l.Errorw("request failed", fields...)
		case status >= http.StatusBadRequest:
			l.Warnw("request rejected", fields...)
		default:
			l.Infow("request served", fields...)
		}
	}
}
