package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

type ScriptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, scripts []*domain.Script) ([]*domain.Script, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, scriptIDs []uuid.UUID) ([]*domain.Script, error)
	GetByLineageIDs(ctx context.Context, tx *gorm.DB, lineageIDs []uuid.UUID) ([]*domain.Script, error)
	MaxVersionByLineageID(ctx context.Context, tx *gorm.DB, lineageID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, scriptID uuid.UUID, status string) error
}

type scriptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScriptRepo(db *gorm.DB, baseLog *logger.Logger) ScriptRepo {
	repoLog := baseLog.With("repo", "ScriptRepo")
	return &scriptRepo{db: db, log: repoLog}
}

func (r *scriptRepo) Create(ctx context.Context, tx *gorm.DB, scripts []*domain.Script) ([]*domain.Script, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(scripts) == 0 {
		return []*domain.Script{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&scripts).Error; err != nil {
		return nil, err
	}
	return scripts, nil
}

func (r *scriptRepo) GetByIDs(ctx context.Context, tx *gorm.DB, scriptIDs []uuid.UUID) ([]*domain.Script, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Script
	if len(scriptIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", scriptIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scriptRepo) GetByLineageIDs(ctx context.Context, tx *gorm.DB, lineageIDs []uuid.UUID) ([]*domain.Script, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Script
	if len(lineageIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lineage_id IN ?", lineageIDs).
		Order("version ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scriptRepo) MaxVersionByLineageID(ctx context.Context, tx *gorm.DB, lineageID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var maxVersion int
	if err := transaction.WithContext(ctx).
		Model(&domain.Script{}).
		Select("COALESCE(MAX(version), 0)").
		Where("lineage_id = ?", lineageID).
		Scan(&maxVersion).Error; err != nil {
		return 0, err
	}
	return maxVersion, nil
}

func (r *scriptRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, scriptID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Script{}).
		Where("id = ?", scriptID).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}
