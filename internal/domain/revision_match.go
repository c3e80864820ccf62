package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MatchStatusFuzzy   = "FUZZY"
	MatchStatusMissing = "MISSING"
)

const (
	DecisionMap       = "map"
	DecisionCreateNew = "create_new"
	DecisionKeep      = "keep"
	DecisionArchive   = "archive"
)

// RevisionMatch is one reconciliation record awaiting a human decision:
// either an ambiguous (FUZZY) correspondence between a detected element and
// a prior element, or a prior element with no counterpart in the new draft
// (MISSING). Exact matches and brand-new detections are applied
// automatically and never persisted here. The row is immutable except for
// UserDecision/Resolved, which are written once by the resolver.
type RevisionMatch struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScriptID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"script_id"`
	Script        *Script        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScriptID;references:ID" json:"script,omitempty"`
	DetectedName  string         `gorm:"column:detected_name" json:"detected_name"`
	DetectedType  string         `gorm:"column:detected_type" json:"detected_type"`
	DetectedPages datatypes.JSON `gorm:"column:detected_pages;type:jsonb" json:"detected_pages"`
	MatchStatus   string         `gorm:"column:match_status;not null;index" json:"match_status"`
	OldElementID  *uuid.UUID     `gorm:"type:uuid;index" json:"old_element_id,omitempty"`
	OldElement    *Element       `gorm:"foreignKey:OldElementID;references:ID" json:"old_element,omitempty"`
	Similarity    *float64       `gorm:"column:similarity" json:"similarity,omitempty"`
	UserDecision  *string        `gorm:"column:user_decision" json:"user_decision,omitempty"`
	Resolved      bool           `gorm:"column:resolved;not null;default:false;index" json:"resolved"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (RevisionMatch) TableName() string { return "revision_match" }

// LegalDecisions returns the decision values valid for a match status.
func LegalDecisions(matchStatus string) []string {
	switch matchStatus {
	case MatchStatusFuzzy:
		return []string{DecisionMap, DecisionCreateNew}
	case MatchStatusMissing:
		return []string{DecisionKeep, DecisionArchive}
	default:
		return nil
	}
}
