package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

type PlanRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Plan, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Plan, error)
	// GetByIDsAndToolkit is GetByIDs with the extra toolkit predicate pushed
	// into the query.
	GetByIDsAndToolkit(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, toolkitID string) ([]*types.Plan, error)
	ListByActorID(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, limit int) ([]*types.Plan, error)
	Save(ctx context.Context, tx *gorm.DB, plan *types.Plan) error
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{db: db, log: baseLog.With("repo", "PlanRepo")}
}

func (r *planRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	var plan types.Plan
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Plan
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) GetByIDsAndToolkit(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, toolkitID string) ([]*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Plan
	if len(ids) == 0 || toolkitID == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ? AND toolkit_id = ?", ids, toolkitID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) ListByActorID(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, limit int) ([]*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Plan
	if actorID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) Save(ctx context.Context, tx *gorm.DB, plan *types.Plan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if plan == nil || plan.ID == uuid.Nil {
		return gorm.ErrInvalidData
	}

	return transaction.WithContext(ctx).Save(plan).Error
}
