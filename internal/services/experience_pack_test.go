package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/toolkit"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

func packStore(t *testing.T, plans []*types.Plan, times []time.Time) *fakeStore {
	t.Helper()
	store := &fakeStore{
		raw:   map[string][]*types.SignalEvent{},
		plans: map[uuid.UUID]*types.Plan{},
	}
	for i, p := range plans {
		store.plans[p.ID] = p
		store.raw[types.SignalPlanCompleted] = append(store.raw[types.SignalPlanCompleted], completedEvent(p, times[i], nil))
	}
	return store
}

func TestExperiencePack_SeattleMedianFromThreePlans(t *testing.T) {
	at := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC)
	plans := []*types.Plan{
		testPlan(t, "date-night", "Two", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Three", seattleAddrs(3), stopTypesN(3)),
		testPlan(t, "date-night", "Four", seattleAddrs(4), stopTypesN(4)),
		// Same toolkit, wrong city: must not count.
		testPlan(t, "date-night", "Portland",
			[]string{"Bar, Portland, OR 97204, USA"}, []string{"drinks"}),
	}
	store := packStore(t, plans, []time.Time{at, at.Add(-time.Hour), at.Add(-2 * time.Hour), at.Add(-3 * time.Hour)})
	svc := NewExperiencePackService(logger.NewNop(), store)

	got, err := svc.GetExperiencePackSummary(context.Background(), ExperiencePackParams{
		ToolkitID: "date-night",
		Location:  "Seattle",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected earned summary, got nil")
	}
	if got.Mode != ModeEarned || got.Evidence != 3 {
		t.Fatalf("expected earned/3, got %s/%d", got.Mode, got.Evidence)
	}
	if got.MedianStopCount != 3 || got.RecommendedStopCount != 3 {
		t.Fatalf("expected median 3, got %v (recommended %d)", got.MedianStopCount, got.RecommendedStopCount)
	}
	if got.HourBin != "18-21" {
		t.Fatalf("expected favourite bin 18-21, got %q", got.HourBin)
	}
}

func TestExperiencePack_BelowThresholdIsNilNil(t *testing.T) {
	at := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC)
	plans := []*types.Plan{
		testPlan(t, "date-night", "One", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Two", seattleAddrs(3), stopTypesN(3)),
	}
	store := packStore(t, plans, []time.Time{at, at.Add(-time.Hour)})
	svc := NewExperiencePackService(logger.NewNop(), store)

	got, err := svc.GetExperiencePackSummary(context.Background(), ExperiencePackParams{
		ToolkitID: "date-night",
		Location:  "Seattle",
	})
	if err != nil {
		t.Fatalf("expected no error for thin evidence, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil summary below threshold, got %+v", got)
	}
}

func TestExperiencePack_PinnedHourBinSkipsVote(t *testing.T) {
	at := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC)
	plans := []*types.Plan{
		testPlan(t, "date-night", "A", seattleAddrs(3), stopTypesN(3)),
		testPlan(t, "date-night", "B", seattleAddrs(3), stopTypesN(3)),
		testPlan(t, "date-night", "C", seattleAddrs(3), stopTypesN(3)),
	}
	store := packStore(t, plans, []time.Time{at, at.Add(-time.Hour), at.Add(-2 * time.Hour)})
	svc := NewExperiencePackService(logger.NewNop(), store)

	got, err := svc.GetExperiencePackSummary(context.Background(), ExperiencePackParams{
		ToolkitID: "date-night",
		Location:  "Seattle",
		HourBin:   "21-24",
	})
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if got.HourBin != "21-24" {
		t.Fatalf("expected pinned bin 21-24, got %q", got.HourBin)
	}
}

func TestExperiencePack_DayOfWeekFilter(t *testing.T) {
	friday := time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC) // a Friday
	saturday := friday.Add(24 * time.Hour)
	plans := []*types.Plan{
		testPlan(t, "date-night", "Fri1", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Fri2", seattleAddrs(2), stopTypesN(2)),
		testPlan(t, "date-night", "Sat", seattleAddrs(5), stopTypesN(5)),
	}
	store := packStore(t, plans, []time.Time{friday, friday.Add(-time.Hour), saturday})
	svc := NewExperiencePackService(logger.NewNop(), store)

	fridayIdx := 5
	got, err := svc.GetExperiencePackSummary(context.Background(), ExperiencePackParams{
		ToolkitID:        "date-night",
		Location:         "Seattle",
		DayOfWeek:        &fridayIdx,
		MinDistinctPlans: 2,
	})
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if got.Evidence != 2 || got.MedianStopCount != 2 {
		t.Fatalf("expected the two Friday plans only, got %+v", got)
	}
}

func TestFavouriteSequence_TieBreaksShortestThenLexicographic(t *testing.T) {
	got := favouriteSequence(map[string]int{
		"dinner>drinks>dessert": 2,
		"dinner>drinks":         2,
		"coffee>walk":           2,
	})
	if len(got) != 2 || got[0] != "coffee" || got[1] != "walk" {
		t.Fatalf("expected coffee>walk, got %v", got)
	}
	if favouriteSequence(nil) != nil {
		t.Fatalf("expected nil for no votes")
	}
}

func TestFavouriteHourBin_TieBreaksEarliestBin(t *testing.T) {
	got := favouriteHourBin(map[string]int{"18-21": 2, "9-12": 2, "21-24": 1})
	if got != "9-12" {
		t.Fatalf("expected 9-12, got %q", got)
	}
}

func TestPreviewExperiencePack_UsesToolkitDefaults(t *testing.T) {
	tk, ok := toolkit.Builtin().Get("date-night")
	if !ok {
		t.Fatalf("date-night missing from builtin registry")
	}
	got := PreviewExperiencePack(tk, ExperiencePackParams{ToolkitID: tk.ID, Location: "Seattle"})
	if got.Mode != ModePreview || got.Evidence != 0 {
		t.Fatalf("expected preview/0, got %s/%d", got.Mode, got.Evidence)
	}
	if got.RecommendedStopCount != tk.DefaultStops || got.HourBin != tk.DefaultHourBin {
		t.Fatalf("expected toolkit defaults, got %+v", got)
	}
}
