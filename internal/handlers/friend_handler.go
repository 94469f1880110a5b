package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/services"
)

type FriendHandler struct {
	friends *services.FriendService
}

func NewFriendHandler(friends *services.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// ListFriends handles GET /api/friends
func (h *FriendHandler) ListFriends(c *gin.Context) {
	friends, err := h.friends.Friends(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", friends)
}

// ListRequests handles GET /api/friends/requests
func (h *FriendHandler) ListRequests(c *gin.Context) {
	requests, err := h.friends.Requests(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", requests)
}

// SendRequest handles POST /api/friends/requests
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req services.FriendRequest
	if !bindJSON(c, &req) {
		return
	}
	f, err := h.friends.SendRequest(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Friend request sent", f)
}

// AcceptRequest handles POST /api/friends/requests/:id/accept
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	h.respond(c, true)
}

// RejectRequest handles POST /api/friends/requests/:id/reject
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	h.respond(c, false)
}

func (h *FriendHandler) respond(c *gin.Context, accept bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := h.friends.Respond(c.Request.Context(), auth.UserID(c), id, accept)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Friend request "+string(f.Status), f)
}

// CancelRequest handles DELETE /api/friends/requests/:id
func (h *FriendHandler) CancelRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.friends.Cancel(c.Request.Context(), auth.UserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveFriend handles DELETE /api/friends/:userId
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	friendID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.friends.Remove(c.Request.Context(), auth.UserID(c), friendID); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStatus handles GET /api/friends/:userId/status
func (h *FriendHandler) GetStatus(c *gin.Context) {
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	status, err := h.friends.Status(c.Request.Context(), auth.UserID(c), otherID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{"status": status})
}
