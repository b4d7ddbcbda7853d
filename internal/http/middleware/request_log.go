package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

// RequestLogger writes one access line per request. Probe and scrape paths in
// quiet are only logged when they fail.
func RequestLogger(log *logger.Logger, quiet ...string) gin.HandlerFunc {
	muted := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		muted[p] = struct{}{}
	}
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()
		if log == nil {
			return
		}

		code := c.Writer.Status()
		if _, ok := muted[c.Request.URL.Path]; ok && code < 400 {
			return
		}

		kv := append([]interface{}{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"path", c.Request.URL.Path,
			"status", code,
			"latency_ms", time.Since(began).Milliseconds(),
			"resp_bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if msg := c.Errors.ByType(gin.ErrorTypeAny).String(); msg != "" {
			kv = append(kv, "errors", msg)
		}
		levelFor(log, code)("request served", kv...)
	}
}

func levelFor(log *logger.Logger, code int) func(string, ...interface{}) {
	if code >= 500 {
		return log.Error
	}
	if code >= 400 {
		return log.Warn
	}
	return log.Debug
}
