// Package repo implements the persistence layer for the editorial content
// models, backed by GORM. This file provides repository functions for the
// LearningPath model and its steps.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// CreateLearningPath inserts a new LearningPath together with its steps in a
// single transaction. Step IDs are generated here; PathID and Position are
// normalized so steps are stored in the order given.
func CreateLearningPath(ctx context.Context, db *gorm.DB, slug, title, description, difficulty string, steps []domain.LearningPathStep) (*domain.LearningPath, error) {
	p := &domain.LearningPath{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       title,
		Description: description,
		Difficulty:  difficulty,
	}
	for i := range steps {
		steps[i].ID = uuid.NewString()
		steps[i].PathID = p.ID
		steps[i].Position = i + 1
	}
	p.Steps = steps

	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetLearningPathBySlug fetches a path by slug with its steps preloaded in
// position order. Returns ErrNotFound when the slug is unknown.
func GetLearningPathBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.LearningPath, error) {
	var p domain.LearningPath
	err := db.WithContext(ctx).
		Preload("Steps", func(q *gorm.DB) *gorm.DB { return q.Order("position asc") }).
		Where("slug = ?", slug).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListLearningPaths returns all paths (without steps), optionally filtered
// by difficulty, ordered by creation time descending.
func ListLearningPaths(ctx context.Context, db *gorm.DB, difficulty string) ([]domain.LearningPath, error) {
	q := db.WithContext(ctx)
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	var out []domain.LearningPath
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}
