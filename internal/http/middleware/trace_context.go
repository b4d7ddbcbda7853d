package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxIDLen = 128
)

// AttachTraceContext assigns request and trace ids and echoes them as response
// headers. The trace id comes from the active span when otelgin runs first, then
// from a caller header, else it is minted.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		var spanTrace string
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			spanTrace = sc.TraceID().String()
		}
		td := &ctxutil.TraceData{
			RequestID: firstID(c.GetHeader(headerRequestID)),
			TraceID:   firstID(spanTrace, c.GetHeader(headerTraceID)),
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Set("request_id", td.RequestID)
		c.Set("trace_id", td.TraceID)
		h := c.Writer.Header()
		h.Set(headerRequestID, td.RequestID)
		h.Set(headerTraceID, td.TraceID)
		c.Next()
	}
}

// firstID returns the first usable candidate, or a fresh uuid.
func firstID(candidates ...string) string {
	for _, s := range candidates {
		if id := cleanID(s); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

// cleanID drops ids that are too long or carry characters unsafe for logs and headers.
func cleanID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxIDLen {
		return ""
	}
	for _, r := range s {
		ok := r == '-' || r == '_' || r == '.' || r == ':' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return ""
		}
	}
	return s
}
