package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/services"
)

type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// GetConversation handles GET /api/messages/:userId?page=&page_size=
func (h *MessageHandler) GetConversation(c *gin.Context) {
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	page, err := h.messages.Conversation(c.Request.Context(), auth.UserID(c), otherID, pagination(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", page)
}

// SendMessage handles POST /api/messages/:userId
func (h *MessageHandler) SendMessage(c *gin.Context) {
	recipientID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req services.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.messages.Send(c.Request.Context(), auth.UserID(c), recipientID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Message sent", m)
}

// MarkRead handles POST /api/messages/:userId/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	n, err := h.messages.MarkRead(c.Request.Context(), auth.UserID(c), otherID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{"marked": n})
}

// UnreadCount handles GET /api/messages/unread
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	n, err := h.messages.UnreadCount(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{"unread": n})
}
