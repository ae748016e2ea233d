package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/repos"
	"github.com/Cesarb72/waypoint-sub001/internal/requestdata"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

const maxEventBatch = 200

type EventInput struct {
	PlanID      string     `json:"plan_id"`
	SignalType  string     `json:"signal_type"`
	SignalValue *float64   `json:"signal_value,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

type EventService interface {
	Ingest(ctx context.Context, tx *gorm.DB, inputs []EventInput) (int, error)
}

type eventService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.SignalEventRepo
}

func NewEventService(db *gorm.DB, baseLog *logger.Logger, repo repos.SignalEventRepo) EventService {
	return &eventService{
		db:   db,
		log:  baseLog.With("service", "EventService"),
		repo: repo,
	}
}

func (s *eventService) Ingest(ctx context.Context, tx *gorm.DB, inputs []EventInput) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}
	if len(inputs) > maxEventBatch {
		return 0, fmt.Errorf("too many events (max %d)", maxEventBatch)
	}

	var actorID *uuid.UUID
	if id := requestdata.ActorID(ctx); id != uuid.Nil {
		actorID = &id
	}

	now := time.Now().UTC()
	rows := make([]*types.SignalEvent, 0, len(inputs))
	for i := range inputs {
		in := inputs[i]

		typ := strings.TrimSpace(strings.ToLower(in.SignalType))
		if !types.ValidSignalType(typ) {
			return 0, fmt.Errorf("invalid signal type at index %d", i)
		}

		planID, err := uuid.Parse(strings.TrimSpace(in.PlanID))
		if err != nil || planID == uuid.Nil {
			return 0, fmt.Errorf("invalid plan id at index %d", i)
		}

		var value *float64
		if in.SignalValue != nil {
			v := *in.SignalValue
			if typ == types.SignalPlanSentiment {
				// Sentiment polarity is clamped to [-1, 1].
				if v > 1 {
					v = 1
				}
				if v < -1 {
					v = -1
				}
			}
			value = &v
		}

		occurred := now
		if in.OccurredAt != nil && !in.OccurredAt.IsZero() {
			occurred = in.OccurredAt.UTC()
		}

		rows = append(rows, &types.SignalEvent{
			ID:          uuid.New(),
			PlanID:      planID,
			ActorID:     actorID,
			SignalType:  typ,
			SignalValue: value,
			CreatedAt:   occurred,
		})
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}
	created, err := s.repo.Create(ctx, transaction, rows)
	if err != nil {
		s.log.Warn("signal ingest failed", "error", err)
		return 0, err
	}
	return len(created), nil
}
