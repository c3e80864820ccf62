package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type elementCountRow struct {
	ElementID uuid.UUID `gorm:"column:element_id"`
	N         int64     `gorm:"column:n"`
}

// countByElementIDs aggregates row counts per element for any model with an
// element_id column. Elements with no rows are absent from the result map.
func countByElementIDs(ctx context.Context, tx *gorm.DB, model interface{}, elementIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(elementIDs))
	if len(elementIDs) == 0 {
		return counts, nil
	}

	var rows []elementCountRow
	if err := tx.WithContext(ctx).
		Model(model).
		Select("element_id, COUNT(*) AS n").
		Where("element_id IN ?", elementIDs).
		Group("element_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ElementID] = row.N
	}
	return counts, nil
}
