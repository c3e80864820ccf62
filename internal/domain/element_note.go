package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ElementNote is a free-form production note attached to an element.
type ElementNote struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ElementID uuid.UUID      `gorm:"type:uuid;not null;index" json:"element_id"`
	Element   *Element       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ElementID;references:ID" json:"element,omitempty"`
	AuthorID  *uuid.UUID     `gorm:"type:uuid" json:"author_id,omitempty"`
	Body      string         `gorm:"column:body;not null" json:"body"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ElementNote) TableName() string { return "element_note" }
