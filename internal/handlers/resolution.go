package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/resolution"
)

type ResolutionHandler struct {
	log    *logger.Logger
	queues *resolution.Queues
}

func NewResolutionHandler(log *logger.Logger, queues *resolution.Queues) *ResolutionHandler {
	return &ResolutionHandler{
		log:    log.With("handler", "ResolutionHandler"),
		queues: queues,
	}
}

type resolveRequest struct {
	PlanID       string `json:"plan_id"`
	StopID       string `json:"stop_id"`
	Query        string `json:"query"`
	LocalityHint string `json:"locality_hint,omitempty"`
}

// POST /api/resolution/resolve
//
// Fire and forget: the result lands through the write-back path and an SSE
// event on the plan channel.
func (h *ResolutionHandler) EnqueueResolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.queues.EnqueueResolve(planID, req.StopID, req.Query, req.LocalityHint)
	c.Status(http.StatusAccepted)
}

type detailsRequest struct {
	PlanID  string `json:"plan_id"`
	PlaceID string `json:"place_id"`
}

// POST /api/resolution/details
func (h *ResolutionHandler) EnqueueDetails(c *gin.Context) {
	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.queues.EnqueueDetails(planID, req.PlaceID)
	c.Status(http.StatusAccepted)
}
