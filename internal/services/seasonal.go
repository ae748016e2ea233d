package services

import (
	"context"
	"time"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/normalization"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

type SeasonalParams struct {
	ToolkitID        string `json:"toolkit_id"`
	Location         string `json:"location"`
	MinDistinctPlans int    `json:"min_distinct_plans,omitempty"`
}

type SeasonalSummary struct {
	Mode                   Mode   `json:"mode"`
	Evidence               int    `json:"evidence"`
	ToolkitID              string `json:"toolkit_id"`
	Location               string `json:"location"`
	CurrentMonth           string `json:"current_month"`
	CurrentMonthCount      int    `json:"current_month_count"`
	PreviousMonthCount     int    `json:"previous_month_count"`
	RollingThreeMonthTotal int    `json:"rolling_three_month_total"`
	MonthOverMonthDelta    int    `json:"month_over_month_delta"`
	BusiestDayOfWeek       int    `json:"busiest_day_of_week"`
}

type SeasonalService interface {
	GetSeasonalContextSummary(ctx context.Context, params SeasonalParams) (*SeasonalSummary, error)
}

type seasonalService struct {
	log   *logger.Logger
	store SignalStore
	now   func() time.Time
}

func NewSeasonalService(baseLog *logger.Logger, store SignalStore) SeasonalService {
	return &seasonalService{
		log:   baseLog.With("service", "SeasonalService"),
		store: store,
		now:   time.Now,
	}
}

func (s *seasonalService) GetSeasonalContextSummary(ctx context.Context, params SeasonalParams) (*SeasonalSummary, error) {
	if params.ToolkitID == "" || params.Location == "" {
		return nil, nil
	}
	minDistinct := params.MinDistinctPlans
	if minDistinct <= 0 {
		minDistinct = DefaultMinDistinctPlans
	}

	events, err := s.store.LatestEventsByType(ctx, types.SignalPlanCompleted, DefaultEventWindow)
	if err != nil {
		return nil, err
	}
	plans, err := s.store.PlansByIDsAndToolkit(ctx, planIDs(events), params.ToolkitID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	currentKey := normalization.MonthKey(now)
	previousKey := normalization.MonthKeyOffset(now, -1)
	twoBackKey := normalization.MonthKeyOffset(now, -2)

	var (
		evidence     int
		currentCount int
		prevCount    int
		twoBackCount int
	)
	dowCounts := [7]int{}
	for _, ev := range events {
		facts := factsFor(plans[ev.PlanID])
		if facts == nil || !facts.matchesLocality(params.Location) {
			continue
		}
		evidence++

		switch normalization.MonthKey(ev.CreatedAt) {
		case currentKey:
			currentCount++
		case previousKey:
			prevCount++
		case twoBackKey:
			twoBackCount++
		}
		if dow := normalization.DayOfWeek(ev.CreatedAt); dow >= 0 {
			dowCounts[dow]++
		}
	}
	if evidence < minDistinct {
		return nil, nil
	}

	busiest := 0
	for d := 1; d < 7; d++ {
		// Strict greater keeps the lowest day index on ties.
		if dowCounts[d] > dowCounts[busiest] {
			busiest = d
		}
	}

	return &SeasonalSummary{
		Mode:                   ModeEarned,
		Evidence:               evidence,
		ToolkitID:              params.ToolkitID,
		Location:               params.Location,
		CurrentMonth:           currentKey,
		CurrentMonthCount:      currentCount,
		PreviousMonthCount:     prevCount,
		RollingThreeMonthTotal: currentCount + prevCount + twoBackCount,
		MonthOverMonthDelta:    currentCount - prevCount,
		BusiestDayOfWeek:       busiest,
	}, nil
}
