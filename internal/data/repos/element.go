package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

type ElementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, elements []*domain.Element) ([]*domain.Element, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) ([]*domain.Element, error)
	GetByLineageID(ctx context.Context, tx *gorm.DB, lineageID uuid.UUID) ([]*domain.Element, error)
	GetActiveByLineageID(ctx context.Context, tx *gorm.DB, lineageID uuid.UUID) ([]*domain.Element, error)
	UpdateDetected(ctx context.Context, tx *gorm.DB, elementID uuid.UUID, name, elementType string, pages datatypes.JSON) error
	UpdatePages(ctx context.Context, tx *gorm.DB, elementID uuid.UUID, pages datatypes.JSON) error
	ArchiveByIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) error
}

type elementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewElementRepo(db *gorm.DB, baseLog *logger.Logger) ElementRepo {
	repoLog := baseLog.With("repo", "ElementRepo")
	return &elementRepo{db: db, log: repoLog}
}

func (r *elementRepo) Create(ctx context.Context, tx *gorm.DB, elements []*domain.Element) ([]*domain.Element, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(elements) == 0 {
		return []*domain.Element{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&elements).Error; err != nil {
		return nil, err
	}
	return elements, nil
}

func (r *elementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) ([]*domain.Element, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Element
	if len(elementIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", elementIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *elementRepo) GetByLineageID(ctx context.Context, tx *gorm.DB, lineageID uuid.UUID) ([]*domain.Element, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Element
	if err := transaction.WithContext(ctx).
		Where("lineage_id = ?", lineageID).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *elementRepo) GetActiveByLineageID(ctx context.Context, tx *gorm.DB, lineageID uuid.UUID) ([]*domain.Element, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Element
	if err := transaction.WithContext(ctx).
		Where("lineage_id = ? AND status = ?", lineageID, domain.ElementStatusActive).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *elementRepo) UpdateDetected(ctx context.Context, tx *gorm.DB, elementID uuid.UUID, name, elementType string, pages datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Element{}).
		Where("id = ?", elementID).
		Updates(map[string]interface{}{
			"name":  name,
			"type":  elementType,
			"pages": pages,
		}).Error; err != nil {
		return err
	}
	return nil
}

func (r *elementRepo) UpdatePages(ctx context.Context, tx *gorm.DB, elementID uuid.UUID, pages datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Element{}).
		Where("id = ?", elementID).
		Update("pages", pages).Error; err != nil {
		return err
	}
	return nil
}

func (r *elementRepo) ArchiveByIDs(ctx context.Context, tx *gorm.DB, elementIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(elementIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Element{}).
		Where("id IN ?", elementIDs).
		Update("status", domain.ElementStatusArchived).Error; err != nil {
		return err
	}
	return nil
}
