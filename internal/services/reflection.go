package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

// ChosenPlan is a plan the actor committed to that never saw a completion or
// an explicit skip afterwards.
type ChosenPlan struct {
	PlanID   uuid.UUID `json:"plan_id"`
	Title    string    `json:"title"`
	ChosenAt time.Time `json:"chosen_at"`
}

type RevisitedPlan struct {
	PlanID       uuid.UUID `json:"plan_id"`
	Title        string    `json:"title"`
	ViewCount    int       `json:"view_count"`
	LastViewedAt time.Time `json:"last_viewed_at"`
}

type ReflectionService interface {
	GetChosenNotCompletedPlans(ctx context.Context, limit int) ([]ChosenPlan, error)
	GetMostRevisitedPlans(ctx context.Context, limit int) ([]RevisitedPlan, error)
}

type reflectionService struct {
	log   *logger.Logger
	store SignalStore
}

func NewReflectionService(baseLog *logger.Logger, store SignalStore) ReflectionService {
	return &reflectionService{
		log:   baseLog.With("service", "ReflectionService"),
		store: store,
	}
}

func (s *reflectionService) GetChosenNotCompletedPlans(ctx context.Context, limit int) ([]ChosenPlan, error) {
	if limit <= 0 {
		limit = 10
	}

	chosen, err := s.store.LatestEventsByType(ctx, types.SignalPlanChosen, DefaultEventWindow)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.LatestEventsByType(ctx, types.SignalPlanCompleted, DefaultEventWindow)
	if err != nil {
		return nil, err
	}
	skipped, err := s.store.LatestEventsByType(ctx, types.SignalPlanSkipped, DefaultEventWindow)
	if err != nil {
		return nil, err
	}

	settledAfter := map[uuid.UUID]time.Time{}
	for _, ev := range append(completed, skipped...) {
		if prev, ok := settledAfter[ev.PlanID]; !ok || ev.CreatedAt.After(prev) {
			settledAfter[ev.PlanID] = ev.CreatedAt
		}
	}

	open := make([]*types.SignalEvent, 0, len(chosen))
	for _, ev := range chosen {
		if settled, ok := settledAfter[ev.PlanID]; ok && settled.After(ev.CreatedAt) {
			continue
		}
		open = append(open, ev)
		if len(open) >= limit {
			break
		}
	}
	if len(open) == 0 {
		return []ChosenPlan{}, nil
	}

	plans, err := s.store.PlansByIDs(ctx, planIDs(open))
	if err != nil {
		return nil, err
	}
	out := make([]ChosenPlan, 0, len(open))
	for _, ev := range open {
		out = append(out, ChosenPlan{
			PlanID:   ev.PlanID,
			Title:    planTitle(plans[ev.PlanID]),
			ChosenAt: ev.CreatedAt,
		})
	}
	return out, nil
}

func (s *reflectionService) GetMostRevisitedPlans(ctx context.Context, limit int) ([]RevisitedPlan, error) {
	if limit <= 0 {
		limit = 10
	}

	// Raw window: every view counts, dedup would defeat the ranking.
	views, err := s.store.EventsByType(ctx, types.SignalPlanViewed, DefaultEventWindow)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return []RevisitedPlan{}, nil
	}

	type tally struct {
		count    int
		lastView time.Time
	}
	tallies := map[uuid.UUID]*tally{}
	for _, ev := range views {
		t, ok := tallies[ev.PlanID]
		if !ok {
			t = &tally{}
			tallies[ev.PlanID] = t
		}
		t.count++
		if ev.CreatedAt.After(t.lastView) {
			t.lastView = ev.CreatedAt
		}
	}

	ids := make([]uuid.UUID, 0, len(tallies))
	for id := range tallies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := tallies[ids[i]], tallies[ids[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.lastView.After(b.lastView)
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	plans, err := s.store.PlansByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]RevisitedPlan, 0, len(ids))
	for _, id := range ids {
		t := tallies[id]
		out = append(out, RevisitedPlan{
			PlanID:       id,
			Title:        planTitle(plans[id]),
			ViewCount:    t.count,
			LastViewedAt: t.lastView,
		})
	}
	return out, nil
}
