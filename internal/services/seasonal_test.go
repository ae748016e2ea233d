package services

import (
	"context"
	"testing"
	"time"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

func fixedSeasonalService(store SignalStore, now time.Time) *seasonalService {
	return &seasonalService{
		log:   logger.NewNop(),
		store: store,
		now:   func() time.Time { return now },
	}
}

func TestSeasonal_MonthCountsAndDelta(t *testing.T) {
	now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
	plans := []*types.Plan{
		testPlan(t, "date-night", "Apr1", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Apr2", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Mar", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Feb", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Jan", seattleAddrs(2), stopTypesN(2)),
	}
	times := []time.Time{
		time.Date(2026, 4, 18, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 3, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 2, 19, 0, 0, 0, time.UTC), // outside the rolling window
	}
	store := packStore(t, plans, times)
	svc := fixedSeasonalService(store, now)

	got, err := svc.GetSeasonalContextSummary(context.Background(), SeasonalParams{
		ToolkitID: "date-night",
		Location:  "Seattle",
	})
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if got.CurrentMonth != "2026-04" {
		t.Fatalf("expected current month 2026-04, got %q", got.CurrentMonth)
	}
	if got.CurrentMonthCount != 2 || got.PreviousMonthCount != 1 {
		t.Fatalf("expected counts 2/1, got %d/%d", got.CurrentMonthCount, got.PreviousMonthCount)
	}
	if got.RollingThreeMonthTotal != 4 {
		t.Fatalf("expected rolling total 4, got %d", got.RollingThreeMonthTotal)
	}
	if got.MonthOverMonthDelta != 1 {
		t.Fatalf("expected delta +1, got %d", got.MonthOverMonthDelta)
	}
	if got.Evidence != 5 {
		t.Fatalf("expected evidence 5, got %d", got.Evidence)
	}
}

func TestSeasonal_BusiestDayTieKeepsLowestIndex(t *testing.T) {
	now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
	plans := []*types.Plan{
		testPlan(t, "date-night", "Sun", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Mon", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Tue", seattleAddrs(2), stopTypesN(2)),
	}
	times := []time.Time{
		time.Date(2026, 4, 5, 19, 0, 0, 0, time.UTC), // Sunday
		time.Date(2026, 4, 6, 19, 0, 0, 0, time.UTC), // Monday
		time.Date(2026, 4, 7, 19, 0, 0, 0, time.UTC), // Tuesday
	}
	store := packStore(t, plans, times)
	svc := fixedSeasonalService(store, now)

	got, err := svc.GetSeasonalContextSummary(context.Background(), SeasonalParams{
		ToolkitID: "date-night",
		Location:  "Seattle",
	})
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	// One completion each; the three-way tie resolves to Sunday.
	if got.BusiestDayOfWeek != 0 {
		t.Fatalf("expected busiest day 0, got %d", got.BusiestDayOfWeek)
	}
}

func TestSeasonal_BelowThresholdIsNilNil(t *testing.T) {
	now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)
	plans := []*types.Plan{
		testPlan(t, "date-night", "Only", seattleAddrs(2), stopTypesN(2)),
	}
	store := packStore(t, plans, []time.Time{time.Date(2026, 4, 18, 19, 0, 0, 0, time.UTC)})
	svc := fixedSeasonalService(store, now)

	got, err := svc.GetSeasonalContextSummary(context.Background(), SeasonalParams{
		ToolkitID: "date-night",
		Location:  "Seattle",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil below threshold, got %+v", got)
	}
}
