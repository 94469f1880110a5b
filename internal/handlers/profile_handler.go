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

type ProfileHandler struct {
	profiles *services.ProfileService
	log      *log.Logger
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		log:      logger.Handler("profile_handler"),
	}
}

// GetMe handles GET /api/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	p := auth.Profile(c)
	if p == nil {
		response.UnauthorizedError(c, "authentication required")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", p)
}

// UpdatePreferences handles PATCH /api/me/preferences
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	var req services.UpdatePreferencesRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.profiles.UpdatePreferences(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Preferences updated", p)
}

// GetStats handles GET /api/me/stats
func (h *ProfileHandler) GetStats(c *gin.Context) {
	s, err := h.profiles.Stats(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", s)
}
