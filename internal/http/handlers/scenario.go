package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/http/response"
	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/services"
	"github.com/yungbote/flightsim-backend/internal/simulator/scenario"
)

type ScenarioHandler struct {
	log *logger.Logger
	svc services.ScenarioService
}

func NewScenarioHandler(log *logger.Logger, svc services.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{
		log: log.With("handler", "ScenarioHandler"),
		svc: svc,
	}
}

type generateScenarioRequest struct {
	Role            string `json:"role"`
	Difficulty      string `json:"difficulty"`
	UseRealTimeData bool   `json:"useRealTimeData"`
}

func (h *ScenarioHandler) Generate(c *gin.Context) {
	var req generateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	role, err := scenario.ParseRole(req.Role)
	if err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	difficulty, err := scenario.ParseDifficulty(req.Difficulty)
	if err != nil {
		response.RespondBadRequest(c, err)
		return
	}

	out, err := h.svc.Generate(c.Request.Context(), scenario.Request{
		Role:            role,
		Difficulty:      difficulty,
		UseRealTimeData: req.UseRealTimeData,
	})
	if err != nil {
		h.log.Error("scenario generation failed", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondCoreError(c, err)
		return
	}
	warnings := out.Warnings
	if warnings == nil {
		warnings = []scenario.ConsistencyWarning{}
	}
	body := gin.H{"scenario": out.Scenario, "warnings": warnings}
	if req.UseRealTimeData {
		body["realTimeFacts"] = out.Facts
	}
	response.RespondOK(c, body)
}

type respondRequest struct {
	ConversationHistory []scenario.Turn `json:"conversationHistory"`
	UserResponse        string          `json:"userResponse"`
	Scenario            json.RawMessage `json:"scenario"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (h *ScenarioHandler) Respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	out, err := h.svc.Respond(c.Request.Context(), services.RespondInput{
		History:      req.ConversationHistory,
		UserResponse: req.UserResponse,
		Scenario:     req.Scenario,
	})
	if err != nil {
		h.log.Error("scenario respond failed", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondCoreError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"response":            out.Response,
		"conversationHistory": out.History,
		"assistantContent":    []contentBlock{{Type: "text", Text: out.Response}},
	})
}

type gradeScenarioRequest struct {
	ConversationHistory []scenario.Turn `json:"conversationHistory"`
	Scenario            json.RawMessage `json:"scenario"`
}

func (h *ScenarioHandler) Grade(c *gin.Context) {
	var req gradeScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	g, err := h.svc.Grade(c.Request.Context(), req.ConversationHistory, req.Scenario)
	if err != nil {
		h.log.Error("scenario grading failed", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondCoreError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"grade": g})
}
