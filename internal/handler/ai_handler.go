package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vantahire/internal/domain/dto"
	"vantahire/internal/service"
)

type AIHandler struct {
	aiService service.AIService
}

func NewAIHandler(aiService service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// Features handles GET /api/features/ai.
func (h *AIHandler) Features(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.aiService.Enabled()})
}

func (h *AIHandler) AnalyzeJobDescription(c *gin.Context) {
	var req dto.AnalyzeJobRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.aiService.Analyze(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		respondError(c, err, "Failed to analyze job description")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AIHandler) ScoreJob(c *gin.Context) {
	var req dto.ScoreJobRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.aiService.Score(c.Request.Context(), req.Title, req.Description, req.JobID)
	if err != nil {
		respondError(c, err, "Failed to score job")
		return
	}
	c.JSON(http.StatusOK, res)
}
