package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plan is the canonical stored outing: an ordered sequence of stops carried
// as a JSON document on the row. Stop order is significant and stable unless
// explicitly reordered.
type Plan struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    *uuid.UUID     `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	ToolkitID  string         `gorm:"column:toolkit_id;not null;index" json:"toolkit_id"`
	Title      string         `gorm:"column:title" json:"title"`
	AnchorDate *time.Time     `gorm:"column:anchor_date" json:"anchor_date,omitempty"`
	AnchorTime string         `gorm:"column:anchor_time" json:"anchor_time,omitempty"`
	Doc        datatypes.JSON `gorm:"type:jsonb;column:doc" json:"doc"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Plan) TableName() string { return "plan" }
