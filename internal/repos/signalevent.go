package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

type SignalEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.SignalEvent) ([]*types.SignalEvent, error)
	// ListBySignalTypeDesc returns up to limit events of one signal type,
	// most recent first. No per-plan dedup happens here; that is the signal
	// store adapter's job.
	ListBySignalTypeDesc(ctx context.Context, tx *gorm.DB, signalType string, limit int) ([]*types.SignalEvent, error)
	ListByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.SignalEvent, error)
}

type signalEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSignalEventRepo(db *gorm.DB, baseLog *logger.Logger) SignalEventRepo {
	return &signalEventRepo{db: db, log: baseLog.With("repo", "SignalEventRepo")}
}

func (r *signalEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.SignalEvent) ([]*types.SignalEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(events) == 0 {
		return []*types.SignalEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *signalEventRepo) ListBySignalTypeDesc(ctx context.Context, tx *gorm.DB, signalType string, limit int) ([]*types.SignalEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SignalEvent
	if signalType == "" || limit <= 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("signal_type = ?", signalType).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *signalEventRepo) ListByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.SignalEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SignalEvent
	if planID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
