// Package repo implements the persistence layer for the editorial content
// models, backed by GORM. This file provides small aggregate/statistics
// queries used primarily for conditional responses (e.g., ETag generation)
// in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// ArticlesStats returns aggregate metadata for the published article set:
// the total number of rows and the maximum UpdatedAt timestamp among those
// rows.
//
// When nothing is published, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total published articles
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func ArticlesStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Article{}).Where("published = ?", true)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
