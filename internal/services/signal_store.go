package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/repos"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

// SignalStore is the thin query surface aggregators read through. It owns the
// latest-event-per-plan dedup: only the most recent event per plan id, per
// type, means anything downstream. Failed queries surface as errors; callers
// degrade to "insufficient evidence", never crash.
type SignalStore interface {
	// LatestEventsByType returns at most one event per plan id, most recent
	// first, scanning a window of up to limit raw events.
	LatestEventsByType(ctx context.Context, signalType string, limit int) ([]*types.SignalEvent, error)
	// EventsByType returns the raw event window without dedup, most recent
	// first. Reflection's view ranking counts repeats on purpose.
	EventsByType(ctx context.Context, signalType string, limit int) ([]*types.SignalEvent, error)
	PlansByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*types.Plan, error)
	PlansByIDsAndToolkit(ctx context.Context, ids []uuid.UUID, toolkitID string) (map[uuid.UUID]*types.Plan, error)
}

type signalStore struct {
	db     *gorm.DB
	log    *logger.Logger
	events repos.SignalEventRepo
	plans  repos.PlanRepo
}

func NewSignalStore(db *gorm.DB, baseLog *logger.Logger, events repos.SignalEventRepo, plans repos.PlanRepo) SignalStore {
	return &signalStore{
		db:     db,
		log:    baseLog.With("service", "SignalStore"),
		events: events,
		plans:  plans,
	}
}

func (s *signalStore) LatestEventsByType(ctx context.Context, signalType string, limit int) ([]*types.SignalEvent, error) {
	raw, err := s.events.ListBySignalTypeDesc(ctx, s.db, signalType, limit)
	if err != nil {
		return nil, err
	}
	return latestPerPlan(raw), nil
}

func (s *signalStore) EventsByType(ctx context.Context, signalType string, limit int) ([]*types.SignalEvent, error) {
	return s.events.ListBySignalTypeDesc(ctx, s.db, signalType, limit)
}

func (s *signalStore) PlansByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*types.Plan, error) {
	rows, err := s.plans.GetByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	return plansByID(rows), nil
}

func (s *signalStore) PlansByIDsAndToolkit(ctx context.Context, ids []uuid.UUID, toolkitID string) (map[uuid.UUID]*types.Plan, error) {
	rows, err := s.plans.GetByIDsAndToolkit(ctx, s.db, ids, toolkitID)
	if err != nil {
		return nil, err
	}
	return plansByID(rows), nil
}

// latestPerPlan keeps the first-seen event per plan id from a list already
// ordered most recent first. A duplicated completion therefore counts its
// plan once, not twice.
func latestPerPlan(events []*types.SignalEvent) []*types.SignalEvent {
	seen := make(map[uuid.UUID]bool, len(events))
	out := make([]*types.SignalEvent, 0, len(events))
	for _, ev := range events {
		if ev == nil || seen[ev.PlanID] {
			continue
		}
		seen[ev.PlanID] = true
		out = append(out, ev)
	}
	return out
}

func plansByID(rows []*types.Plan) map[uuid.UUID]*types.Plan {
	out := make(map[uuid.UUID]*types.Plan, len(rows))
	for _, p := range rows {
		if p != nil {
			out[p.ID] = p
		}
	}
	return out
}

func planIDs(events []*types.SignalEvent) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(events))
	seen := make(map[uuid.UUID]bool, len(events))
	for _, ev := range events {
		if ev == nil || seen[ev.PlanID] {
			continue
		}
		seen[ev.PlanID] = true
		ids = append(ids, ev.PlanID)
	}
	return ids
}
