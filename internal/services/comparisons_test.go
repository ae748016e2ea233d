package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/toolkit"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

func TestComparisons_PerFieldGating(t *testing.T) {
	at := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC)
	// Three completed plans globally, only two in Seattle: the global median
	// earns while the city median falls back to preview.
	plans := []*types.Plan{
		testPlan(t, "date-night", "Sea1", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Sea2", seattleAddrs(4), stopTypesN(4)),
		testPlan(t, "date-night", "Pdx",
			[]string{"Bar, Portland, OR 97204, USA"}, []string{"drinks"}),
	}
	store := packStore(t, plans, []time.Time{at, at.Add(-time.Hour), at.Add(-2 * time.Hour)})
	svc := NewComparisonsService(logger.NewNop(), store, toolkit.Builtin())

	got, err := svc.GetPlanComparisons(context.Background(), ComparisonsParams{
		ToolkitID:     "date-night",
		City:          "Seattle",
		ThisPlanStops: 3,
	})
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if got.GlobalMedian == nil || got.GlobalMedian.Mode != ModeEarned {
		t.Fatalf("expected earned global median, got %+v", got.GlobalMedian)
	}
	if got.GlobalMedian.Median != 2 || got.GlobalMedian.Evidence != 3 {
		t.Fatalf("expected global median 2 over 3 plans, got %+v", got.GlobalMedian)
	}
	if got.CityMedian == nil || got.CityMedian.Mode != ModePreview {
		t.Fatalf("expected preview city median, got %+v", got.CityMedian)
	}
}

func TestComparisons_ExcludesCurrentPlan(t *testing.T) {
	at := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC)
	plans := []*types.Plan{
		testPlan(t, "date-night", "Current", seattleAddrs(9), stopTypesN(9)),
		testPlan(t, "date-night", "A", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "B", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "C", seattleAddrs(2), stopTypesN(2)),
	}
	store := packStore(t, plans, []time.Time{at, at.Add(-time.Hour), at.Add(-2 * time.Hour), at.Add(-3 * time.Hour)})
	svc := NewComparisonsService(logger.NewNop(), store, toolkit.Builtin())

	got, err := svc.GetPlanComparisons(context.Background(), ComparisonsParams{
		ToolkitID:     "date-night",
		CurrentPlanID: plans[0].ID,
		ThisPlanStops: 9,
	})
	if err != nil || got == nil || got.GlobalMedian == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if got.GlobalMedian.Evidence != 3 || got.GlobalMedian.Median != 2 {
		t.Fatalf("current plan leaked into the median: %+v", got.GlobalMedian)
	}
}

func TestComparisons_LastTimePicksActorsMostRecentOtherPlan(t *testing.T) {
	me := uuid.New()
	at := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC)
	recent := testPlan(t, "date-night", "Recent", seattleAddrs(3), stopTypesN(3))
	older := testPlan(t, "date-night", "Older", seattleAddrs(2), stopTypesN(2))
	someoneElse := testPlan(t, "date-night", "NotMine", seattleAddrs(5), stopTypesN(5))
	other := uuid.New()

	store := &fakeStore{
		raw: map[string][]*types.SignalEvent{
			types.SignalPlanCompleted: {
				completedEvent(someoneElse, at, &other),
				completedEvent(recent, at.Add(-time.Hour), &me),
				completedEvent(older, at.Add(-2*time.Hour), &me),
			},
		},
		plans: map[uuid.UUID]*types.Plan{
			recent.ID: recent, older.ID: older, someoneElse.ID: someoneElse,
		},
	}
	svc := NewComparisonsService(logger.NewNop(), store, toolkit.Builtin())

	got, err := svc.GetPlanComparisons(context.Background(), ComparisonsParams{
		ToolkitID:     "date-night",
		City:          "Seattle",
		ActorID:       me,
		ThisPlanStops: 3,
	})
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if got.LastTime == nil {
		t.Fatalf("expected a last-time entry")
	}
	if got.LastTime.PlanID != recent.ID || got.LastTime.StopCount != 3 || got.LastTime.Title != "Recent" {
		t.Fatalf("unexpected last time: %+v", got.LastTime)
	}
}

func TestComparisons_StoreFailureDegradesToPreviews(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := NewComparisonsService(logger.NewNop(), store, toolkit.Builtin())

	got, err := svc.GetPlanComparisons(context.Background(), ComparisonsParams{
		ToolkitID:     "date-night",
		City:          "Seattle",
		ThisPlanStops: 3,
	})
	if err != nil {
		t.Fatalf("store failure must degrade, not error: %v", err)
	}
	if got == nil || got.GlobalMedian == nil || got.CityMedian == nil {
		t.Fatalf("expected preview medians, got %+v", got)
	}
	if got.GlobalMedian.Mode != ModePreview || got.CityMedian.Mode != ModePreview {
		t.Fatalf("expected preview mode on both medians, got %+v", got)
	}
}
