package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/fring-api/internal/domain/vote"
	"github.com/gravadigital/fring-api/internal/middleware/auth"
	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/services"
)

type ChallengeHandler struct {
	challenges *services.ChallengeService
	votes      *services.VoteService
}

func NewChallengeHandler(challenges *services.ChallengeService, votes *services.VoteService) *ChallengeHandler {
	return &ChallengeHandler{
		challenges: challenges,
		votes:      votes,
	}
}

// ListChallenges handles GET /api/defis
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	views, err := h.challenges.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", views)
}

// CreateChallenge handles POST /api/defis (admin only)
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	var req services.CreateChallengeRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.challenges.Create(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Défi created successfully", view)
}

// GetChallenge handles GET /api/defis/:id
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.challenges.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", view)
}

// ListParticipations handles GET /api/defis/:id/participations
func (h *ChallengeHandler) ListParticipations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	participations, err := h.challenges.Participations(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", participations)
}

// Submit handles POST /api/defis/:id/participations
func (h *ChallengeHandler) Submit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.SubmitRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.challenges.Submit(c.Request.Context(), auth.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Participation submitted", p)
}

// GetRanking handles GET /api/defis/:id/ranking
func (h *ChallengeHandler) GetRanking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ranking, err := h.challenges.Ranking(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", ranking)
}

// GetParticipationVotes handles GET /api/participations/:id/votes
func (h *ChallengeHandler) GetParticipationVotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", h.votes.Summary(c.Request.Context(), vote.EntityDefi, id, auth.UserID(c)))
}

// VoteParticipation handles POST /api/participations/:id/votes
func (h *ChallengeHandler) VoteParticipation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.VoteRequest
	if !bindJSON(c, &req) {
		return
	}
	summary, err := h.votes.VoteParticipation(c.Request.Context(), auth.UserID(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Vote recorded", summary)
}
