package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vantahire/internal/domain"
	"vantahire/internal/domain/dto"
	"vantahire/internal/service"
)

type AdminHandler struct {
	userService service.UserService
}

func NewAdminHandler(userService service.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := domain.ValidateStruct(&req); err != nil {
		respondError(c, err, "Failed to update role")
		return
	}
	user, err := h.userService.UpdateRole(c.Request.Context(), actor(c), id, domain.Role(req.Role))
	if err != nil {
		respondError(c, err, "Failed to update role")
		return
	}
	c.JSON(http.StatusOK, user)
}
