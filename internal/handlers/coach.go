package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/services"
)

type CoachHandler struct {
	log      *logger.Logger
	insights services.InsightsService
}

func NewCoachHandler(log *logger.Logger, insights services.InsightsService) *CoachHandler {
	return &CoachHandler{
		log:      log.With("handler", "CoachHandler"),
		insights: insights,
	}
}

// POST /api/coach/suggestions
//
// Runs the editor bundle but returns only the ranked suggestions.
func (h *CoachHandler) GetSuggestions(c *gin.Context) {
	var params services.EditorInsightsParams
	if err := c.ShouldBindJSON(&params); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	bundle, err := h.insights.GetEditorInsights(c.Request.Context(), params)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "coach_failed", err)
		return
	}
	RespondOK(c, gin.H{"suggestions": bundle.Suggestions})
}
