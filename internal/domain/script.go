package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ScriptStatusProcessing  = "PROCESSING"
	ScriptStatusReviewing   = "REVIEWING"
	ScriptStatusReconciling = "RECONCILING"
	ScriptStatusReady       = "READY"
	ScriptStatusError       = "ERROR"
)

// Script is one uploaded draft in a revision lineage. LineageID is stable
// across revisions; the first revision's lineage id equals its own id.
type Script struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LineageID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"lineage_id"`
	ParentScriptID *uuid.UUID     `gorm:"type:uuid;index" json:"parent_script_id,omitempty"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Version        int            `gorm:"column:version;not null;default:1" json:"version"`
	Status         string         `gorm:"column:status;not null;default:'PROCESSING';index" json:"status"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Script) TableName() string { return "script" }
