package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ElementStatusActive   = "ACTIVE"
	ElementStatusArchived = "ARCHIVED"
)

const (
	ElementTypeCharacter = "CHARACTER"
	ElementTypeLocation  = "LOCATION"
	ElementTypeProp      = "PROP"
)

// Element is a creative unit (character, location, prop) tracked across
// script revisions. Its identity survives a revision only through an
// explicit mapping applied by the resolver.
type Element struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LineageID uuid.UUID      `gorm:"type:uuid;not null;index" json:"lineage_id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Type      string         `gorm:"column:type;not null;index" json:"type"`
	Status    string         `gorm:"column:status;not null;default:'ACTIVE';index" json:"status"`
	Pages     datatypes.JSON `gorm:"column:pages;type:jsonb" json:"pages"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Element) TableName() string { return "element" }
