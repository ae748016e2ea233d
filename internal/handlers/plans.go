package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/services"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

type PlanHandler struct {
	log   *logger.Logger
	plans services.PlanService
}

func NewPlanHandler(log *logger.Logger, plans services.PlanService) *PlanHandler {
	return &PlanHandler{
		log:   log.With("handler", "PlanHandler"),
		plans: plans,
	}
}

// POST /api/plans/draft
func (h *PlanHandler) SaveDraft(c *gin.Context) {
	var draft types.DraftV1
	if err := c.ShouldBindJSON(&draft); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	saved, err := h.plans.SaveDraft(c.Request.Context(), draft)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "save_failed", err)
		return
	}
	RespondOK(c, saved)
}

// GET /api/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	draft, err := h.plans.GetDraft(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", errUnknownPlan)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, draft)
}

// GET /api/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"plans": plans})
}
