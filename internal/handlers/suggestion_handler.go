package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/services"
)

type SuggestionHandler struct {
	suggestions *services.SuggestionService
}

func NewSuggestionHandler(suggestions *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// GetSuggestion handles GET /api/suggestions?lat=&lon=
func (h *SuggestionHandler) GetSuggestion(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		response.BadRequestError(c, "lat and lon query parameters must be numbers")
		return
	}

	s, err := h.suggestions.Suggest(c.Request.Context(), auth.UserID(c), lat, lon)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", s)
}
