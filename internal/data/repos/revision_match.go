package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/domain"
	pkgerrors "github.com/slateroom/slateroom-backend/internal/pkg/errors"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

type RevisionMatchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, matches []*domain.RevisionMatch) ([]*domain.RevisionMatch, error)
	GetByScriptID(ctx context.Context, tx *gorm.DB, scriptID uuid.UUID) ([]*domain.RevisionMatch, error)
	GetUnresolvedByScriptID(ctx context.Context, tx *gorm.DB, scriptID uuid.UUID) ([]*domain.RevisionMatch, error)
	CountUnresolvedByScriptID(ctx context.Context, tx *gorm.DB, scriptID uuid.UUID) (int64, error)
	Resolve(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, decision string) error
}

type revisionMatchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRevisionMatchRepo(db *gorm.DB, baseLog *logger.Logger) RevisionMatchRepo {
	repoLog := baseLog.With("repo", "RevisionMatchRepo")
	return &revisionMatchRepo{db: db, log: repoLog}
}

func (r *revisionMatchRepo) Create(ctx context.Context, tx *gorm.DB, matches []*domain.RevisionMatch) ([]*domain.RevisionMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(matches) == 0 {
		return []*domain.RevisionMatch{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *revisionMatchRepo) GetByScriptID(ctx context.Context, tx *gorm.DB, scriptID uuid.UUID) ([]*domain.RevisionMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.RevisionMatch
	if err := transaction.WithContext(ctx).
		Where("script_id = ?", scriptID).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *revisionMatchRepo) GetUnresolvedByScriptID(ctx context.Context, tx *gorm.DB, scriptID uuid.UUID) ([]*domain.RevisionMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.RevisionMatch
	if err := transaction.WithContext(ctx).
		Where("script_id = ? AND resolved = ?", scriptID, false).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *revisionMatchRepo) CountUnresolvedByScriptID(ctx context.Context, tx *gorm.DB, scriptID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&domain.RevisionMatch{}).
		Where("script_id = ? AND resolved = ?", scriptID, false).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Resolve writes the decision and flips the resolved flag. The WHERE on
// resolved=false makes the write-once rule a database guarantee: a second
// resolution attempt updates zero rows and reports ErrAlreadyResolved.
func (r *revisionMatchRepo) Resolve(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, decision string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.RevisionMatch{}).
		Where("id = ? AND resolved = ?", matchID, false).
		Updates(map[string]interface{}{
			"user_decision": decision,
			"resolved":      true,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrAlreadyResolved
	}
	return nil
}
