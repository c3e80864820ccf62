package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

type ElementNoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notes []*domain.ElementNote) ([]*domain.ElementNote, error)
	GetByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) ([]*domain.ElementNote, error)
	CountByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type elementNoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewElementNoteRepo(db *gorm.DB, baseLog *logger.Logger) ElementNoteRepo {
	repoLog := baseLog.With("repo", "ElementNoteRepo")
	return &elementNoteRepo{db: db, log: repoLog}
}

func (r *elementNoteRepo) Create(ctx context.Context, tx *gorm.DB, notes []*domain.ElementNote) ([]*domain.ElementNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(notes) == 0 {
		return []*domain.ElementNote{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *elementNoteRepo) GetByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) ([]*domain.ElementNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.ElementNote
	if len(elementIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("element_id IN ?", elementIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *elementNoteRepo) CountByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return countByElementIDs(ctx, transaction, &domain.ElementNote{}, elementIDs)
}
