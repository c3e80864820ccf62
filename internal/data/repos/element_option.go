package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

type ElementOptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, options []*domain.ElementOption) ([]*domain.ElementOption, error)
	GetByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) ([]*domain.ElementOption, error)
	CountByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type elementOptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewElementOptionRepo(db *gorm.DB, baseLog *logger.Logger) ElementOptionRepo {
	repoLog := baseLog.With("repo", "ElementOptionRepo")
	return &elementOptionRepo{db: db, log: repoLog}
}

func (r *elementOptionRepo) Create(ctx context.Context, tx *gorm.DB, options []*domain.ElementOption) ([]*domain.ElementOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(options) == 0 {
		return []*domain.ElementOption{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *elementOptionRepo) GetByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) ([]*domain.ElementOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.ElementOption
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

func (r *elementOptionRepo) CountByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return countByElementIDs(ctx, transaction, &domain.ElementOption{}, elementIDs)
}
