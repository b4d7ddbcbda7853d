package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondOK writes the success envelope: payload fields plus success=true.
func RespondOK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
