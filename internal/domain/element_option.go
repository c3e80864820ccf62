package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OptionStatusProposed = "PROPOSED"
	OptionStatusApproved = "APPROVED"
	OptionStatusRejected = "REJECTED"
)

// ElementOption is a media candidate attached to exactly one element.
// Mapping an element's identity carries its options along unchanged.
type ElementOption struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ElementID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"element_id"`
	Element    *Element       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ElementID;references:ID" json:"element,omitempty"`
	Label      string         `gorm:"column:label" json:"label"`
	StorageKey string         `gorm:"column:storage_key;not null" json:"storage_key"`
	Status     string         `gorm:"column:status;not null;default:'PROPOSED'" json:"status"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ElementOption) TableName() string { return "element_option" }
