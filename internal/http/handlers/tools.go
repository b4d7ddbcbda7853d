package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/http/response"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/simulator/tools"
)

type ToolHandler struct {
	log      *logger.Logger
	executor *tools.Executor
}

func NewToolHandler(log *logger.Logger, executor *tools.Executor) *ToolHandler {
	return &ToolHandler{
		log:      log.With("handler", "ToolHandler"),
		executor: executor,
	}
}

func (h *ToolHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"tools": tools.Definitions()})
}

type executeToolRequest struct {
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

func (h *ToolHandler) Execute(c *gin.Context) {
	var req executeToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		response.RespondBadRequest(c, errors.New("name is required"))
		return
	}
	res := h.executor.Execute(name, req.Input)
	if !res.Success {
		h.log.Debug("tool call failed", "tool", name, "error", res.Error)
		response.RespondError(c, http.StatusUnprocessableEntity, "tool_failed", errors.New(res.Error))
		return
	}
	response.RespondOK(c, gin.H{"data": res.Data})
}
