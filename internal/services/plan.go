package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/repos"
	"github.com/Cesarb72/waypoint-sub001/internal/requestdata"
	"github.com/Cesarb72/waypoint-sub001/internal/resolution"
	"github.com/Cesarb72/waypoint-sub001/internal/sse"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

type PlanService interface {
	SaveDraft(ctx context.Context, draft types.DraftV1) (types.DraftV1, error)
	GetDraft(ctx context.Context, planID uuid.UUID) (types.DraftV1, error)
	ListPlans(ctx context.Context, limit int) ([]*types.Plan, error)

	// Write-back path for the resolution queues. Called off-request from
	// queue goroutines; errors are logged, never propagated upstream.
	ApplyResolvedPlace(target resolution.Target, placeID string)
	ApplyPlaceDetails(planID uuid.UUID, placeID string, details resolution.PlaceDetails)
}

type planService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.PlanRepo
	hub  *sse.Hub
}

func NewPlanService(db *gorm.DB, baseLog *logger.Logger, repo repos.PlanRepo, hub *sse.Hub) PlanService {
	return &planService{
		db:   db,
		log:  baseLog.With("service", "PlanService"),
		repo: repo,
		hub:  hub,
	}
}

func (s *planService) SaveDraft(ctx context.Context, draft types.DraftV1) (types.DraftV1, error) {
	var existing *types.Plan
	if draft.PlanID != "" {
		id, err := uuid.Parse(draft.PlanID)
		if err != nil {
			return types.DraftV1{}, fmt.Errorf("invalid plan id: %w", err)
		}
		plan, err := s.repo.GetByID(ctx, s.db, id)
		if err != nil && err != gorm.ErrRecordNotFound {
			return types.DraftV1{}, err
		}
		existing = plan
	}

	plan, err := DraftToPlan(draft, existing, requestdata.ActorID(ctx))
	if err != nil {
		return types.DraftV1{}, err
	}
	if err := s.repo.Save(ctx, s.db, plan); err != nil {
		return types.DraftV1{}, err
	}
	return PlanToDraft(plan)
}

func (s *planService) GetDraft(ctx context.Context, planID uuid.UUID) (types.DraftV1, error) {
	plan, err := s.repo.GetByID(ctx, s.db, planID)
	if err != nil {
		return types.DraftV1{}, err
	}
	return PlanToDraft(plan)
}

func (s *planService) ListPlans(ctx context.Context, limit int) ([]*types.Plan, error) {
	actor := requestdata.ActorID(ctx)
	if actor == uuid.Nil {
		return []*types.Plan{}, nil
	}
	return s.repo.ListByActorID(ctx, s.db, actor, limit)
}

func (s *planService) ApplyResolvedPlace(target resolution.Target, placeID string) {
	err := s.mutateStop(target.PlanID, target.StopID, func(stop *types.StopDoc) bool {
		// A stop's place id, once set, is authoritative.
		if stop.PlaceRef != nil && stop.PlaceRef.PlaceID != "" {
			return false
		}
		stop.PlaceRef = &types.PlaceRef{PlaceID: placeID}
		return true
	})
	if err != nil {
		s.log.Warn("resolve write-back failed", "plan_id", target.PlanID, "stop_id", target.StopID, "error", err)
		return
	}
	s.publish(target.PlanID, sse.EventStopResolved, map[string]any{
		"plan_id":  target.PlanID.String(),
		"stop_id":  target.StopID,
		"place_id": placeID,
	})
}

func (s *planService) ApplyPlaceDetails(planID uuid.UUID, placeID string, details resolution.PlaceDetails) {
	err := s.mutateAllStops(planID, func(stop *types.StopDoc) bool {
		if stop.PlaceRef == nil || stop.PlaceRef.PlaceID != placeID {
			return false
		}
		lite := details.Lite
		stop.PlaceLite = &lite
		// Enrich the reference without touching the place id.
		if stop.PlaceRef.Lat == nil {
			stop.PlaceRef.Lat = details.Ref.Lat
			stop.PlaceRef.Lng = details.Ref.Lng
		}
		if stop.PlaceRef.Website == "" {
			stop.PlaceRef.Website = details.Ref.Website
		}
		if stop.PlaceRef.GoogleMapsURL == "" {
			stop.PlaceRef.GoogleMapsURL = details.Ref.GoogleMapsURL
		}
		return true
	})
	if err != nil {
		s.log.Warn("details write-back failed", "plan_id", planID, "place_id", placeID, "error", err)
		return
	}
	s.publish(planID, sse.EventPlaceDetailsReady, map[string]any{
		"plan_id":  planID.String(),
		"place_id": placeID,
	})
}

// mutateStop applies fn to one stop of one plan and saves when fn reports a
// change.
func (s *planService) mutateStop(planID uuid.UUID, stopID string, fn func(*types.StopDoc) bool) error {
	return s.mutateDoc(planID, func(doc *types.PlanDocV1) bool {
		for i := range doc.Stops {
			if doc.Stops[i].ID == stopID {
				return fn(&doc.Stops[i])
			}
		}
		return false
	})
}

func (s *planService) mutateAllStops(planID uuid.UUID, fn func(*types.StopDoc) bool) error {
	return s.mutateDoc(planID, func(doc *types.PlanDocV1) bool {
		changed := false
		for i := range doc.Stops {
			if fn(&doc.Stops[i]) {
				changed = true
			}
		}
		return changed
	})
}

func (s *planService) mutateDoc(planID uuid.UUID, fn func(*types.PlanDocV1) bool) error {
	ctx := context.Background()
	plan, err := s.repo.GetByID(ctx, s.db, planID)
	if err != nil {
		return err
	}
	doc, err := types.DecodePlanDoc(plan.Doc)
	if err != nil {
		return err
	}
	if !fn(doc) {
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	plan.Doc = datatypes.JSON(raw)
	return s.repo.Save(ctx, s.db, plan)
}

func (s *planService) publish(planID uuid.UUID, event sse.Event, data any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(sse.Message{
		Channel: "plan:" + planID.String(),
		Event:   event,
		Data:    data,
	})
}
