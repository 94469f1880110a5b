package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/services"
)

type FavoriteHandler struct {
	favorites *services.FavoriteService
}

func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// ListFavorites handles GET /api/favorites?type=
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	list, err := h.favorites.List(c.Request.Context(), auth.UserID(c), c.Query("type"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", list)
}

// AddFavorite handles POST /api/favorites
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req services.FavoriteRequest
	if !bindJSON(c, &req) {
		return
	}
	f, err := h.favorites.Add(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Favorite added", f)
}

// RemoveFavorite handles DELETE /api/favorites/:id
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.favorites.Remove(c.Request.Context(), auth.UserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
