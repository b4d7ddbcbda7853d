package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name      string
		allowed   []string
		origin    string
		preflight bool
		wantAllow string
	}{
		{name: "dev default vite", origin: "http://localhost:5173", preflight: true, wantAllow: "http://localhost:5173"},
		{name: "dev default loopback", origin: "http://127.0.0.1:3000", wantAllow: "http://127.0.0.1:3000"},
		{name: "configured origin", allowed: []string{"https://sim.example.com"}, origin: "https://sim.example.com", wantAllow: "https://sim.example.com"},
		{name: "dev origin rejected once configured", allowed: []string{"https://sim.example.com"}, origin: "http://localhost:5173"},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://anywhere.test", preflight: true, wantAllow: "*"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tc.allowed))
			r.POST("/api/scenario/generate", func(c *gin.Context) { c.Status(http.StatusOK) })

			method := http.MethodPost
			if tc.preflight {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "/api/scenario/generate", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("allow-origin = %q, want %q (status %d)", got, tc.wantAllow, rec.Code)
			}
			if tc.wantAllow == "" && rec.Code != http.StatusForbidden {
				t.Fatalf("rejected origin status = %d, want 403", rec.Code)
			}
		})
	}
}
