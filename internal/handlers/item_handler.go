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

type ItemHandler struct {
	wardrobe    *services.WardrobeService
	maxFileSize int64
	log         *log.Logger
}

func NewItemHandler(wardrobe *services.WardrobeService, maxFileSize int64) *ItemHandler {
	return &ItemHandler{
		wardrobe:    wardrobe,
		maxFileSize: maxFileSize,
		log:         logger.Handler("item_handler"),
	}
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.wardrobe.ListOwn(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", items)
}

// ListUserItems handles GET /api/users/:id/items
func (h *ItemHandler) ListUserItems(c *gin.Context) {
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.wardrobe.ListFor(c.Request.Context(), auth.UserID(c), ownerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", items)
}

// CreateItem handles POST /api/items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req services.ItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.wardrobe.Create(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Item created successfully", item)
}

// GetItem handles GET /api/items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.wardrobe.Get(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", item)
}

// UpdateItem handles PUT /api/items/:id
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.ItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.wardrobe.Update(c.Request.Context(), auth.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Item updated successfully", item)
}

// DeleteItem handles DELETE /api/items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.wardrobe.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto handles POST /api/items/:id/photo (multipart field "photo")
func (h *ItemHandler) UploadPhoto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, contentType, ok := readUpload(c, "photo", h.maxFileSize)
	if !ok {
		return
	}
	item, err := h.wardrobe.UploadPhoto(c.Request.Context(), auth.UserID(c), id, data, contentType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.log.Info("Photo uploaded", "item_id", id, "size", len(data), "content_type", contentType)
	response.SuccessResponse(c, http.StatusOK, "Photo uploaded successfully", item)
}

// GetPhotoURL handles GET /api/items/:id/photo
func (h *ItemHandler) GetPhotoURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.wardrobe.PhotoURL(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{"url": url})
}

// Detect handles POST /api/items/detect (multipart field "photo")
func (h *ItemHandler) Detect(c *gin.Context) {
	data, contentType, ok := readUpload(c, "photo", h.maxFileSize)
	if !ok {
		return
	}
	result, err := h.wardrobe.Detect(c.Request.Context(), data, contentType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", result)
}
