package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/flightsim-backend/internal/http/response"
	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/services"
	"github.com/yungbote/flightsim-backend/internal/simulator/testprep"
)

type TestPrepHandler struct {
	log *logger.Logger
	svc services.TestPrepService
}

func NewTestPrepHandler(log *logger.Logger, svc services.TestPrepService) *TestPrepHandler {
	return &TestPrepHandler{
		log: log.With("handler", "TestPrepHandler"),
		svc: svc,
	}
}

func (h *TestPrepHandler) Flashcards(c *gin.Context) {
	response.RespondOK(c, gin.H{"data": h.svc.Flashcards(c.Query("category"))})
}

func (h *TestPrepHandler) Categories(c *gin.Context) {
	response.RespondOK(c, gin.H{"categories": h.svc.Categories()})
}

type generateTestRequest struct {
	Length         int      `json:"length"`
	Categories     []string `json:"categories"`
	WeakAreas      []string `json:"weakAreas"`
	QuestionFormat string   `json:"questionFormat"`
}

func (h *TestPrepHandler) Generate(c *gin.Context) {
	var req generateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	qs, err := h.svc.GenerateTest(c.Request.Context(), services.GenerateTestInput{
		Length:     req.Length,
		Categories: req.Categories,
		WeakAreas:  req.WeakAreas,
		Format:     testprep.ParseQuestionFormat(req.QuestionFormat),
	})
	if err != nil {
		h.log.Error("test generation failed", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondCoreError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": qs})
}

type gradeTestRequest struct {
	Questions []testprep.Question `json:"questions"`
	Answers   []testprep.Answer   `json:"answers"`
}

func (h *TestPrepHandler) Grade(c *gin.Context) {
	var req gradeTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	g, err := h.svc.GradeTest(c.Request.Context(), req.Questions, req.Answers)
	if err != nil {
		h.log.Error("test grading failed", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondCoreError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"grade": g})
}

type teachRequest struct {
	Category string   `json:"category"`
	Concepts []string `json:"concepts"`
}

func (h *TestPrepHandler) Teach(c *gin.Context) {
	var req teachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	lesson, err := h.svc.Teach(c.Request.Context(), req.Category, req.Concepts)
	if err != nil {
		h.log.Error("teach failed", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondCoreError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}
