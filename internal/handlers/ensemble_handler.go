package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/services"
)

type EnsembleHandler struct {
	ensembles *services.EnsembleService
	votes     *services.VoteService
}

func NewEnsembleHandler(ensembles *services.EnsembleService, votes *services.VoteService) *EnsembleHandler {
	return &EnsembleHandler{
		ensembles: ensembles,
		votes:     votes,
	}
}

// ListEnsembles handles GET /api/ensembles
func (h *EnsembleHandler) ListEnsembles(c *gin.Context) {
	list, err := h.ensembles.ListOwn(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", list)
}

// ListUserEnsembles handles GET /api/users/:id/ensembles
func (h *EnsembleHandler) ListUserEnsembles(c *gin.Context) {
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.ensembles.ListFor(c.Request.Context(), auth.UserID(c), ownerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", list)
}

// CreateEnsemble handles POST /api/ensembles
func (h *EnsembleHandler) CreateEnsemble(c *gin.Context) {
	var req services.CreateEnsembleRequest
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.ensembles.Create(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Ensemble created successfully", e)
}

// GetEnsemble handles GET /api/ensembles/:id
func (h *EnsembleHandler) GetEnsemble(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.ensembles.Detail(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", detail)
}

// DeleteEnsemble handles DELETE /api/ensembles/:id
func (h *EnsembleHandler) DeleteEnsemble(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ensembles.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetVotes handles GET /api/ensembles/:id/votes
func (h *EnsembleHandler) GetVotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.votes.EnsembleSummary(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", summary)
}

// SubmitVote handles POST /api/ensembles/:id/votes
func (h *EnsembleHandler) SubmitVote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.VoteRequest
	if !bindJSON(c, &req) {
		return
	}
	summary, err := h.votes.VoteEnsemble(c.Request.Context(), auth.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Vote recorded", summary)
}
