package response

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/platform/apierr"
)

type ErrorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Success:   false,
		Error:     msg,
		Code:      code,
		RequestID: c.GetString("request_id"),
	})
}

// RespondCoreError maps a service error through apierr.FromCore.
func RespondCoreError(c *gin.Context, err error) {
	ae := apierr.FromCore(err)
	RespondError(c, ae.Status, ae.Code, ae)
}

// RespondBadRequest is for bodies that fail to bind or validate.
func RespondBadRequest(c *gin.Context, err error) {
	RespondCoreError(c, apierr.BadRequest(err))
}
