package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/requestdata"
	"github.com/Cesarb72/waypoint-sub001/internal/services"
	"github.com/Cesarb72/waypoint-sub001/internal/toolkit"
)

type InsightsHandler struct {
	log         *logger.Logger
	heatmap     services.HeatmapService
	pack        services.ExperiencePackService
	seasonal    services.SeasonalService
	comparisons services.ComparisonsService
	reflection  services.ReflectionService
	insights    services.InsightsService
	toolkits    *toolkit.Registry
}

func NewInsightsHandler(
	log *logger.Logger,
	heatmap services.HeatmapService,
	pack services.ExperiencePackService,
	seasonal services.SeasonalService,
	comparisons services.ComparisonsService,
	reflection services.ReflectionService,
	insights services.InsightsService,
	toolkits *toolkit.Registry,
) *InsightsHandler {
	return &InsightsHandler{
		log:         log.With("handler", "InsightsHandler"),
		heatmap:     heatmap,
		pack:        pack,
		seasonal:    seasonal,
		comparisons: comparisons,
		reflection:  reflection,
		insights:    insights,
		toolkits:    toolkits,
	}
}

// GET /api/insights/heatmap
//
// Collaborator failure degrades to an empty summary; there is no user-facing
// error state for thin evidence.
func (h *InsightsHandler) GetHeatmap(c *gin.Context) {
	buckets, err := h.heatmap.GetHeatmapSummary(c.Request.Context())
	if err != nil {
		h.log.Warn("heatmap query failed", "error", err)
		RespondOK(c, gin.H{"buckets": []services.HeatmapBucket{}})
		return
	}
	RespondOK(c, gin.H{"buckets": buckets})
}

// GET /api/insights/experience-pack
func (h *InsightsHandler) GetExperiencePack(c *gin.Context) {
	params := services.ExperiencePackParams{
		ToolkitID:        c.Query("toolkit_id"),
		Location:         c.Query("location"),
		HourBin:          c.Query("hour_bin"),
		LimitPlans:       queryInt(c, "limit_plans"),
		MinDistinctPlans: queryInt(c, "min_distinct_plans"),
	}
	if raw := c.Query("day_of_week"); raw != "" {
		if dow, err := strconv.Atoi(raw); err == nil && dow >= 0 && dow <= 6 {
			params.DayOfWeek = &dow
		}
	}

	summary, err := h.pack.GetExperiencePackSummary(c.Request.Context(), params)
	if err != nil {
		h.log.Warn("experience pack query failed", "error", err)
		summary = nil
	}
	if summary == nil {
		if tk, ok := h.toolkits.Get(params.ToolkitID); ok {
			summary = services.PreviewExperiencePack(tk, params)
		}
	}
	if summary == nil {
		RespondError(c, http.StatusNotFound, "unknown_toolkit", errUnknownToolkit)
		return
	}
	RespondOK(c, summary)
}

// GET /api/insights/seasonal
func (h *InsightsHandler) GetSeasonal(c *gin.Context) {
	summary, err := h.seasonal.GetSeasonalContextSummary(c.Request.Context(), services.SeasonalParams{
		ToolkitID:        c.Query("toolkit_id"),
		Location:         c.Query("location"),
		MinDistinctPlans: queryInt(c, "min_distinct_plans"),
	})
	if err != nil {
		h.log.Warn("seasonal query failed", "error", err)
		summary = nil
	}
	// nil means not enough evidence yet; the editor hides the section.
	RespondOK(c, gin.H{"seasonal": summary})
}

type comparisonsRequest struct {
	ToolkitID        string `json:"toolkit_id"`
	City             string `json:"city,omitempty"`
	CurrentPlanID    string `json:"current_plan_id,omitempty"`
	ThisPlanStops    int    `json:"this_plan_stops"`
	MinDistinctPlans int    `json:"min_distinct_plans,omitempty"`
}

// POST /api/insights/comparisons
func (h *InsightsHandler) GetComparisons(c *gin.Context) {
	var req comparisonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	params := services.ComparisonsParams{
		ToolkitID:        req.ToolkitID,
		City:             req.City,
		ActorID:          requestdata.ActorID(c.Request.Context()),
		ThisPlanStops:    req.ThisPlanStops,
		MinDistinctPlans: req.MinDistinctPlans,
	}
	if req.CurrentPlanID != "" {
		if id, err := uuid.Parse(req.CurrentPlanID); err == nil {
			params.CurrentPlanID = id
		}
	}

	comparison, err := h.comparisons.GetPlanComparisons(c.Request.Context(), params)
	if err != nil {
		h.log.Warn("comparisons query failed", "error", err)
	}
	RespondOK(c, gin.H{"comparison": comparison})
}

// GET /api/insights/reflection/chosen-not-completed
func (h *InsightsHandler) GetChosenNotCompleted(c *gin.Context) {
	plans, err := h.reflection.GetChosenNotCompletedPlans(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		h.log.Warn("reflection query failed", "error", err)
		plans = []services.ChosenPlan{}
	}
	RespondOK(c, gin.H{"plans": plans})
}

// GET /api/insights/reflection/most-revisited
func (h *InsightsHandler) GetMostRevisited(c *gin.Context) {
	plans, err := h.reflection.GetMostRevisitedPlans(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		h.log.Warn("reflection query failed", "error", err)
		plans = []services.RevisitedPlan{}
	}
	RespondOK(c, gin.H{"plans": plans})
}

// POST /api/insights/editor
func (h *InsightsHandler) GetEditorInsights(c *gin.Context) {
	var params services.EditorInsightsParams
	if err := c.ShouldBindJSON(&params); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	bundle, err := h.insights.GetEditorInsights(c.Request.Context(), params)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "insights_failed", err)
		return
	}
	RespondOK(c, bundle)
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
