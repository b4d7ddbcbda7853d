package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-42")
	req.Header.Set(headerTraceID, "bad id\nwith newline")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-42" {
		t.Fatalf("trace data = %+v", seen)
	}
	if seen.TraceID == "" || strings.Contains(seen.TraceID, " ") {
		t.Fatalf("unsafe trace id kept: %q", seen.TraceID)
	}
	if rec.Header().Get(headerRequestID) != "req-42" || rec.Header().Get(headerTraceID) != seen.TraceID {
		t.Fatalf("headers = %v", rec.Header())
	}
}

func TestCleanID(t *testing.T) {
	cases := map[string]string{
		" abc-123 ":              "abc-123",
		"a:b.c_d":                "a:b.c_d",
		"<script>":               "",
		strings.Repeat("x", 200): "",
	}
	for in, want := range cases {
		if got := cleanID(in); got != want {
			t.Fatalf("cleanID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaxBodyBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MaxBodyBytes(16))
	r.POST("/x", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"userResponse":"`+strings.Repeat("a", 64)+`"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	r := gin.New()
	r.Use(Metrics(m, "/metrics"))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/api/health", "/metrics", "/nope/1", "/nope/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	n, err := testutil.GatherAndCount(reg, "flightsim_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	// health 200 plus one shared series for unmatched 404s
	if n != 2 {
		t.Fatalf("series = %d, want 2", n)
	}
}

func TestRequestLoggerLevelsAndQuietPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(AttachTraceContext(), RequestLogger(logger.FromZap(zap.New(core)), "/healthz"))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/data/flights", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/scenario/generate", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/healthz"},
		{http.MethodGet, "/api/data/flights"},
		{http.MethodPost, "/api/scenario/generate"},
		{http.MethodGet, "/nope"},
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3 (healthz muted)", len(entries))
	}
	want := []struct {
		level zapcore.Level
		route string
	}{
		{zapcore.DebugLevel, "/api/data/flights"},
		{zapcore.ErrorLevel, "/api/scenario/generate"},
		{zapcore.WarnLevel, "unmatched"},
	}
	for i, w := range want {
		e := entries[i]
		if e.Level != w.level || e.ContextMap()["route"] != w.route {
			t.Fatalf("entry %d = %v %v, want %v %s", i, e.Level, e.ContextMap()["route"], w.level, w.route)
		}
		if _, ok := e.ContextMap()["request_id"]; !ok {
			t.Fatalf("entry %d missing request_id", i)
		}
	}
}
