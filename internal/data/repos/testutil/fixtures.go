package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/domain"
)

func SeedScript(tb testing.TB, ctx context.Context, tx *gorm.DB, version int, parentID *uuid.UUID, lineageID uuid.UUID, status string) *domain.Script {
	tb.Helper()
	s := &domain.Script{
		ID:             uuid.New(),
		LineageID:      lineageID,
		ParentScriptID: parentID,
		Title:          "draft",
		Version:        version,
		Status:         status,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed script: %v", err)
	}
	return s
}

func SeedLineage(tb testing.TB, ctx context.Context, tx *gorm.DB) *domain.Script {
	tb.Helper()
	id := uuid.New()
	s := &domain.Script{
		ID:        id,
		LineageID: id,
		Title:     "draft",
		Version:   1,
		Status:    domain.ScriptStatusReady,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed lineage: %v", err)
	}
	return s
}

func SeedElement(tb testing.TB, ctx context.Context, tx *gorm.DB, lineageID uuid.UUID, name, elementType string) *domain.Element {
	tb.Helper()
	e := &domain.Element{
		ID:        uuid.New(),
		LineageID: lineageID,
		Name:      name,
		Type:      elementType,
		Status:    domain.ElementStatusActive,
		Pages:     domain.PagesJSON([]int{1}),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed element: %v", err)
	}
	return e
}

func SeedOption(tb testing.TB, ctx context.Context, tx *gorm.DB, elementID uuid.UUID, label string) *domain.ElementOption {
	tb.Helper()
	o := &domain.ElementOption{
		ID:         uuid.New(),
		ElementID:  elementID,
		Label:      label,
		StorageKey: "options/" + label,
		Status:     domain.OptionStatusProposed,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed option: %v", err)
	}
	return o
}

func SeedApproval(tb testing.TB, ctx context.Context, tx *gorm.DB, elementID uuid.UUID, optionID *uuid.UUID) *domain.ElementApproval {
	tb.Helper()
	a := &domain.ElementApproval{
		ID:        uuid.New(),
		ElementID: elementID,
		OptionID:  optionID,
		Status:    domain.ApprovalStatusApproved,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed approval: %v", err)
	}
	return a
}

func SeedFuzzyMatch(tb testing.TB, ctx context.Context, tx *gorm.DB, scriptID uuid.UUID, oldElementID uuid.UUID, detectedName, detectedType string, similarity float64) *domain.RevisionMatch {
	tb.Helper()
	m := &domain.RevisionMatch{
		ID:            uuid.New(),
		ScriptID:      scriptID,
		DetectedName:  detectedName,
		DetectedType:  detectedType,
		DetectedPages: domain.PagesJSON([]int{2}),
		MatchStatus:   domain.MatchStatusFuzzy,
		OldElementID:  &oldElementID,
		Similarity:    &similarity,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed fuzzy match: %v", err)
	}
	return m
}

func SeedMissingMatch(tb testing.TB, ctx context.Context, tx *gorm.DB, scriptID uuid.UUID, oldElementID uuid.UUID) *domain.RevisionMatch {
	tb.Helper()
	m := &domain.RevisionMatch{
		ID:           uuid.New(),
		ScriptID:     scriptID,
		MatchStatus:  domain.MatchStatusMissing,
		OldElementID: &oldElementID,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed missing match: %v", err)
	}
	return m
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
