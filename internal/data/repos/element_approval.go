package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

type ElementApprovalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, approvals []*domain.ElementApproval) ([]*domain.ElementApproval, error)
	GetByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) ([]*domain.ElementApproval, error)
	CountByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type elementApprovalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewElementApprovalRepo(db *gorm.DB, baseLog *logger.Logger) ElementApprovalRepo {
	repoLog := baseLog.With("repo", "ElementApprovalRepo")
	return &elementApprovalRepo{db: db, log: repoLog}
}

func (r *elementApprovalRepo) Create(ctx context.Context, tx *gorm.DB, approvals []*domain.ElementApproval) ([]*domain.ElementApproval, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(approvals) == 0 {
		return []*domain.ElementApproval{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&approvals).Error; err != nil {
		return nil, err
	}
	return approvals, nil
}

func (r *elementApprovalRepo) GetByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) ([]*domain.ElementApproval, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.ElementApproval
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

func (r *elementApprovalRepo) CountByElementIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return countByElementIDs(ctx, transaction, &domain.ElementApproval{}, elementIDs)
}
