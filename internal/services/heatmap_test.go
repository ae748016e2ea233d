package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/requestdata"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

func TestHeatmap_DuplicateCompletionCountsPlanOnce(t *testing.T) {
	plan := testPlan(t, "date-night", "Duped", seattleAddrs(2), stopTypesN(2))
	at := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC)

	store := &fakeStore{
		raw: map[string][]*types.SignalEvent{
			types.SignalPlanCompleted: {
				completedEvent(plan, at, nil),
				completedEvent(plan, at.Add(-time.Minute), nil),
			},
		},
		plans: map[uuid.UUID]*types.Plan{plan.ID: plan},
	}
	svc := NewHeatmapService(logger.NewNop(), store)

	buckets, err := svc.GetHeatmapSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d: %+v", len(buckets), buckets)
	}
	b := buckets[0]
	if b.Count != 1 {
		t.Fatalf("expected count 1 after dedup, got %d", b.Count)
	}
	if b.Locality != "Seattle" || b.HourBin != "18-21" || b.Month != "2026-04" {
		t.Fatalf("unexpected bucket: %+v", b)
	}
}

func TestHeatmap_PlanSpanningDistrictsContributesToEach(t *testing.T) {
	plan := testPlan(t, "date-night", "Crawl",
		[]string{"Bar, Ballard, Seattle, USA", "Cafe, Fremont, Seattle, USA"},
		[]string{"drinks", "dessert"})
	at := time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)

	store := &fakeStore{
		raw: map[string][]*types.SignalEvent{
			types.SignalPlanCompleted: {completedEvent(plan, at, nil)},
		},
		plans: map[uuid.UUID]*types.Plan{plan.ID: plan},
	}
	svc := NewHeatmapService(logger.NewNop(), store)

	buckets, err := svc.GetHeatmapSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(buckets), buckets)
	}
	// Equal month and count, so locality breaks the tie alphabetically.
	if buckets[0].Locality != "Ballard" || buckets[1].Locality != "Fremont" {
		t.Fatalf("unexpected bucket order: %+v", buckets)
	}
}

func TestHeatmap_RerunsAreByteIdentical(t *testing.T) {
	planA := testPlan(t, "date-night", "A", seattleAddrs(2), stopTypesN(2))
	planB := testPlan(t, "day-out", "B",
		[]string{"Shop, Ballard, Seattle, USA"}, []string{"shopping"})
	at := time.Date(2026, 4, 11, 10, 0, 0, 0, time.UTC)

	store := &fakeStore{
		raw: map[string][]*types.SignalEvent{
			types.SignalPlanCompleted: {
				completedEvent(planA, at, nil),
				completedEvent(planB, at.Add(-time.Hour), nil),
			},
		},
		plans: map[uuid.UUID]*types.Plan{planA.ID: planA, planB.ID: planB},
	}
	svc := NewHeatmapService(logger.NewNop(), store)

	first, err := svc.GetHeatmapSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetHeatmapSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reruns differ:\n%+v\n%+v", first, second)
	}
}

func TestHeatmap_ScopesToSignedInActor(t *testing.T) {
	me := uuid.New()
	other := uuid.New()
	mine := testPlan(t, "date-night", "Mine", seattleAddrs(1), stopTypesN(1))
	theirs := testPlan(t, "date-night", "Theirs", seattleAddrs(1), stopTypesN(1))
	at := time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC)

	store := &fakeStore{
		raw: map[string][]*types.SignalEvent{
			types.SignalPlanCompleted: {
				completedEvent(mine, at, &me),
				completedEvent(theirs, at, &other),
			},
		},
		plans: map[uuid.UUID]*types.Plan{mine.ID: mine, theirs.ID: theirs},
	}
	svc := NewHeatmapService(logger.NewNop(), store)

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{ActorID: me})
	buckets, err := svc.GetHeatmapSummary(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Count != 1 {
		t.Fatalf("expected only my completion, got %+v", buckets)
	}

	// Anonymous callers see the whole corpus.
	buckets, err = svc.GetHeatmapSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Count != 2 {
		t.Fatalf("expected global count 2, got %+v", buckets)
	}
}
