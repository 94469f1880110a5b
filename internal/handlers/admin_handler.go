package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/services"
)

type AdminHandler struct {
	admin *services.AdminService
	log   *log.Logger
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{
		admin: admin,
		log:   logger.Handler("admin_handler"),
	}
}

// ListUsers handles GET /api/admin/users?q=&page=&page_size=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := h.admin.ListUsers(c.Request.Context(), c.Query("q"), pagination(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", page)
}

// DeleteUser handles DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteUser(c.Request.Context(), auth.UserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListActivity handles GET /api/admin/activity
func (h *AdminHandler) ListActivity(c *gin.Context) {
	page, err := h.admin.Activity(c.Request.Context(), pagination(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", page)
}

// DatabaseStats handles GET /api/admin/database
func (h *AdminHandler) DatabaseStats(c *gin.Context) {
	stats, err := h.admin.DatabaseStats(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to collect database stats", "error", err)
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", stats)
}
