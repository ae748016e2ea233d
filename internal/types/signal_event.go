package types

import (
	"time"

	"github.com/google/uuid"
)

// Signal types observed on a plan's lifecycle. The "current state" of a plan
// is derived by taking the most recent event of a given type per plan, never
// by mutating a row.
const (
	SignalPlanChosen    = "plan_chosen"
	SignalPlanCompleted = "plan_completed"
	SignalPlanSkipped   = "plan_skipped"
	SignalPlanSentiment = "plan_sentiment"
	SignalPlanViewed    = "plan_viewed"
)

func ValidSignalType(t string) bool {
	switch t {
	case SignalPlanChosen, SignalPlanCompleted, SignalPlanSkipped, SignalPlanSentiment, SignalPlanViewed:
		return true
	}
	return false
}

// SignalEvent is an immutable, append-only fact about a plan.
type SignalEvent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"plan_id"`
	ActorID     *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	SignalType  string     `gorm:"column:signal_type;not null;index" json:"signal_type"`
	SignalValue *float64   `gorm:"column:signal_value" json:"signal_value,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
}

func (SignalEvent) TableName() string { return "signal_event" }
