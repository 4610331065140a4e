package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vantahire/internal/domain/dto"
	"vantahire/internal/service"
)

// SiteHandler serves the public helper endpoints: health, client config,
// the contact form and analytics export.
type SiteHandler struct {
	contactService service.ContactService
	exportService  service.ExportService
	apolloAppID    string
}

func NewSiteHandler(contactService service.ContactService, exportService service.ExportService, apolloAppID string) *SiteHandler {
	return &SiteHandler{contactService: contactService, exportService: exportService, apolloAppID: apolloAppID}
}

func (h *SiteHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// ClientConfig reports apolloAppId as null when it is not configured.
func (h *SiteHandler) ClientConfig(c *gin.Context) {
	var apollo any
	if h.apolloAppID != "" {
		apollo = h.apolloAppID
	}
	c.JSON(http.StatusOK, gin.H{"apolloAppId": apollo})
}

func (h *SiteHandler) Contact(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := h.contactService.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to submit contact form")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": sub.ID})
}

// ExportAnalytics handles GET /api/analytics/export?format=csv&dateRange=30.
func (h *SiteHandler) ExportAnalytics(c *gin.Context) {
	days := service.DefaultExportDays
	if raw := c.Query("dateRange"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "dateRange must be a positive number of days")
			return
		}
		days = n
	}

	export, err := h.exportService.Export(c.Request.Context(), actor(c), service.ExportFormat(c.DefaultQuery("format", "json")), days)
	if err != nil {
		respondError(c, err, "Failed to export analytics")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
