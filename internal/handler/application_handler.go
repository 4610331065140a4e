package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vantahire/internal/domain/dto"
	"vantahire/internal/service"
	"vantahire/internal/upload"
)

type ApplicationHandler struct {
	appService service.ApplicationService
}

func NewApplicationHandler(appService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// Apply handles POST /api/jobs/:id/applications with a multipart form. The
// resume file is optional when a resumeUrl field is supplied.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, ok := paramID(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, upload.MaxResumeSize+1<<20)

	var req dto.ApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid application form")
		return
	}

	var resume *service.ResumeFile
	fh, err := c.FormFile("resume")
	switch {
	case err == nil:
		if fh.Size > upload.MaxResumeSize {
			badRequest(c, upload.ErrTooLarge.Error())
			return
		}
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "Failed to read resume")
			return
		}
		defer f.Close()
		resume = &service.ResumeFile{
			Filename:    fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		badRequest(c, "Invalid resume upload")
		return
	}

	app, err := h.appService.Apply(c.Request.Context(), jobID, &req, resume)
	if err != nil {
		respondError(c, err, "Failed to submit application")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"applicationId": app.ID,
		"message":       "Application submitted successfully",
	})
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	jobID, ok := paramID(c, "id")
	if !ok {
		return
	}
	apps, err := h.appService.ListForJob(c.Request.Context(), actor(c), jobID)
	if err != nil {
		respondError(c, err, "Failed to fetch applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ApplicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.appService.UpdateStatus(c.Request.Context(), actor(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update application")
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.appService.ListMine(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err, "Failed to fetch applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}
