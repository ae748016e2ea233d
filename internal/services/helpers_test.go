package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

// fakeStore serves canned events and plans. It applies the same
// latest-per-plan dedup the real adapter does, so duplicate events in raw
// exercise the dedup path end to end.
type fakeStore struct {
	raw   map[string][]*types.SignalEvent // signal type -> events, most recent first
	plans map[uuid.UUID]*types.Plan
	err   error
}

func (f *fakeStore) LatestEventsByType(_ context.Context, signalType string, _ int) ([]*types.SignalEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return latestPerPlan(f.raw[signalType]), nil
}

func (f *fakeStore) EventsByType(_ context.Context, signalType string, _ int) ([]*types.SignalEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.raw[signalType], nil
}

func (f *fakeStore) PlansByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*types.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[uuid.UUID]*types.Plan{}
	for _, id := range ids {
		if p, ok := f.plans[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStore) PlansByIDsAndToolkit(_ context.Context, ids []uuid.UUID, toolkitID string) (map[uuid.UUID]*types.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[uuid.UUID]*types.Plan{}
	for _, id := range ids {
		if p, ok := f.plans[id]; ok && p.ToolkitID == toolkitID {
			out[id] = p
		}
	}
	return out, nil
}

func testPlan(t *testing.T, toolkitID, title string, addresses []string, stopTypes []string) *types.Plan {
	t.Helper()
	if len(addresses) != len(stopTypes) {
		t.Fatalf("testPlan: %d addresses vs %d stop types", len(addresses), len(stopTypes))
	}
	doc := types.PlanDocV1{Version: 1}
	for i := range addresses {
		stop := types.StopDoc{ID: uuid.New().String(), StopTypeID: stopTypes[i]}
		if addresses[i] != "" {
			stop.PlaceRef = &types.PlaceRef{PlaceID: "place-" + stop.ID}
			stop.PlaceLite = &types.PlaceLite{FormattedAddress: addresses[i]}
		}
		doc.Stops = append(doc.Stops, stop)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("encode plan doc: %v", err)
	}
	return &types.Plan{
		ID:        uuid.New(),
		ToolkitID: toolkitID,
		Title:     title,
		Doc:       datatypes.JSON(raw),
	}
}

// seattleAddrs repeats a Seattle street address n times, one per stop.
func seattleAddrs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "400 Pine St, Seattle, WA 98101, USA"
	}
	return out
}

func stopTypesN(n int) []string {
	vocab := []string{"dinner", "drinks", "dessert", "activity", "walk"}
	out := make([]string, n)
	for i := range out {
		out[i] = vocab[i%len(vocab)]
	}
	return out
}

func completedEvent(plan *types.Plan, at time.Time, actor *uuid.UUID) *types.SignalEvent {
	return &types.SignalEvent{
		ID:         uuid.New(),
		PlanID:     plan.ID,
		ActorID:    actor,
		SignalType: types.SignalPlanCompleted,
		CreatedAt:  at,
	}
}

func eventOf(planID uuid.UUID, signalType string, at time.Time) *types.SignalEvent {
	return &types.SignalEvent{
		ID:         uuid.New(),
		PlanID:     planID,
		SignalType: signalType,
		CreatedAt:  at,
	}
}
