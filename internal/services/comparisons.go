package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/toolkit"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

type ComparisonsParams struct {
	ToolkitID        string    `json:"toolkit_id"`
	City             string    `json:"city,omitempty"`
	ActorID          uuid.UUID `json:"-"`
	CurrentPlanID    uuid.UUID `json:"-"`
	ThisPlanStops    int       `json:"this_plan_stops"`
	MinDistinctPlans int       `json:"min_distinct_plans,omitempty"`
}

// MedianStat is one independently gated sub-result; partial earning is
// expected, so the mode rides on the field, not the whole comparison.
type MedianStat struct {
	Mode     Mode    `json:"mode"`
	Evidence int     `json:"evidence"`
	Median   float64 `json:"median"`
}

type LastTime struct {
	PlanID      uuid.UUID `json:"plan_id"`
	Title       string    `json:"title"`
	StopCount   int       `json:"stop_count"`
	CompletedAt time.Time `json:"completed_at"`
}

type PlanComparison struct {
	ThisPlanStops int         `json:"this_plan_stops"`
	CityMedian    *MedianStat `json:"city_median,omitempty"`
	GlobalMedian  *MedianStat `json:"global_median,omitempty"`
	LastTime      *LastTime   `json:"last_time,omitempty"`
}

type ComparisonsService interface {
	GetPlanComparisons(ctx context.Context, params ComparisonsParams) (*PlanComparison, error)
}

type comparisonsService struct {
	log      *logger.Logger
	store    SignalStore
	toolkits *toolkit.Registry
}

func NewComparisonsService(baseLog *logger.Logger, store SignalStore, toolkits *toolkit.Registry) ComparisonsService {
	return &comparisonsService{
		log:      baseLog.With("service", "ComparisonsService"),
		store:    store,
		toolkits: toolkits,
	}
}

func (s *comparisonsService) GetPlanComparisons(ctx context.Context, params ComparisonsParams) (*PlanComparison, error) {
	if params.ToolkitID == "" {
		return nil, nil
	}
	minDistinct := params.MinDistinctPlans
	if minDistinct <= 0 {
		minDistinct = DefaultMinDistinctPlans
	}

	out := &PlanComparison{ThisPlanStops: params.ThisPlanStops}

	events, err := s.store.LatestEventsByType(ctx, types.SignalPlanCompleted, DefaultEventWindow)
	if err != nil {
		// Store failure degrades to an all-preview comparison.
		s.log.Warn("comparisons event query failed", "error", err)
		s.fillPreviews(out, params)
		return out, nil
	}
	plans, err := s.store.PlansByIDsAndToolkit(ctx, planIDs(events), params.ToolkitID)
	if err != nil {
		s.log.Warn("comparisons plan query failed", "error", err)
		s.fillPreviews(out, params)
		return out, nil
	}

	var (
		globalCounts []int
		cityCounts   []int
	)
	for _, ev := range events {
		if ev.PlanID == params.CurrentPlanID {
			continue
		}
		facts := factsFor(plans[ev.PlanID])
		if facts == nil {
			continue
		}
		globalCounts = append(globalCounts, facts.stopCount)
		if params.City != "" && facts.matchesLocality(params.City) {
			cityCounts = append(cityCounts, facts.stopCount)
		}

		// "Last time": the actor's own most recent other completed plan of
		// this toolkit, preferring the target city when one is given. Events
		// arrive most recent first, so first hit wins.
		if out.LastTime == nil && params.ActorID != uuid.Nil &&
			ev.ActorID != nil && *ev.ActorID == params.ActorID &&
			(params.City == "" || facts.matchesLocality(params.City)) {
			out.LastTime = &LastTime{
				PlanID:      ev.PlanID,
				Title:       planTitle(facts.plan),
				StopCount:   facts.stopCount,
				CompletedAt: ev.CreatedAt,
			}
		}
	}

	out.GlobalMedian = s.medianStat(globalCounts, minDistinct, params)
	if params.City != "" {
		out.CityMedian = s.medianStat(cityCounts, minDistinct, params)
	}
	return out, nil
}

func (s *comparisonsService) medianStat(counts []int, minDistinct int, params ComparisonsParams) *MedianStat {
	if len(counts) >= minDistinct {
		if m := medianInts(counts); m != nil {
			return &MedianStat{Mode: ModeEarned, Evidence: len(counts), Median: *m}
		}
	}
	return s.previewStat(params)
}

func (s *comparisonsService) previewStat(params ComparisonsParams) *MedianStat {
	tk, ok := s.toolkits.Get(params.ToolkitID)
	if !ok {
		return nil
	}
	return &MedianStat{Mode: ModePreview, Evidence: 0, Median: float64(tk.DefaultStops)}
}

func (s *comparisonsService) fillPreviews(out *PlanComparison, params ComparisonsParams) {
	out.GlobalMedian = s.previewStat(params)
	if params.City != "" {
		out.CityMedian = s.previewStat(params)
	}
}
