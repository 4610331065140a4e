package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vantahire/internal/domain"
	"vantahire/internal/domain/dto"
	"vantahire/internal/service"
)

type JobHandler struct {
	jobService service.JobService
}

func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// ListJobs handles GET /api/jobs.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var q dto.JobListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	page, err := h.jobService.ListPublic(c.Request.Context(), q.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to fetch jobs")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	job, err := h.jobService.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch job")
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.JobCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobService.Create(c.Request.Context(), actor(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create job")
		return
	}
	c.JSON(http.StatusCreated, job)
}

// SetActive handles PATCH /api/jobs/:id/status.
func (h *JobHandler) SetActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.JobActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := domain.ValidateStruct(&req); err != nil {
		respondError(c, err, "Failed to update job")
		return
	}
	job, err := h.jobService.SetActive(c.Request.Context(), actor(c), id, *req.IsActive)
	if err != nil {
		respondError(c, err, "Failed to update job")
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ListMyJobs(c *gin.Context) {
	jobs, err := h.jobService.ListMine(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err, "Failed to fetch jobs")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// AdminListJobs handles GET /api/admin/jobs; unlike the public list it includes every status.
func (h *JobHandler) AdminListJobs(c *gin.Context) {
	var q dto.JobListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	filter := q.ToFilter()
	if filter.Status != "" && filter.Status != domain.JobStatusPending &&
		filter.Status != domain.JobStatusApproved && filter.Status != domain.JobStatusRejected {
		badRequest(c, "Invalid status filter")
		return
	}
	page, err := h.jobService.ListAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch jobs")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *JobHandler) ReviewJob(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.JobReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobService.Review(c.Request.Context(), actor(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to review job")
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) AdminStats(c *gin.Context) {
	stats, err := h.jobService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
