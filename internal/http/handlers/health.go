package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/http/response"
)

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type HealthHandler struct {
	version string
	checks  map[string]ReadyCheck
	now     func() time.Time
}

func NewHealthHandler(version string, checks map[string]ReadyCheck) *HealthHandler {
	return &HealthHandler{version: version, checks: checks, now: time.Now}
}

// HealthCheck is the browser-facing status endpoint.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
		"version":   h.version,
	})
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	failed := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "status": "unavailable", "failed": failed})
		return
	}
	response.RespondOK(c, gin.H{"status": "ready"})
}
