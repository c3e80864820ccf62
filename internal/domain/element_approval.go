package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusRejected = "REJECTED"
)

// ElementApproval records a decision taken on one of an element's options.
type ElementApproval struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ElementID uuid.UUID      `gorm:"type:uuid;not null;index" json:"element_id"`
	Element   *Element       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ElementID;references:ID" json:"element,omitempty"`
	OptionID  *uuid.UUID     `gorm:"type:uuid;index" json:"option_id,omitempty"`
	Status    string         `gorm:"column:status;not null" json:"status"`
	Comment   string         `gorm:"column:comment" json:"comment"`
	DecidedBy *uuid.UUID     `gorm:"type:uuid" json:"decided_by,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ElementApproval) TableName() string { return "element_approval" }
