// Package repo implements the persistence layer for the editorial content
// models, backed by GORM. This file provides repository functions for the
// Article model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an article is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.ContentService) which enforces business rules such as
// slug generation and search index refresh.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateArticle inserts a new Article row. The article ID is a randomly
// generated UUID (string); Published defaults to false until PublishArticle
// is called.
//
// On success, it returns the persisted Article. On failure, it returns a DB
// error (including unique-constraint violations on the slug).
func CreateArticle(ctx context.Context, db *gorm.DB, slug, title, summary, body, category string, authorID int) (*domain.Article, error) {
	a := &domain.Article{
		ID:       uuid.NewString(),
		Slug:     slug,
		Title:    title,
		Summary:  summary,
		Body:     body,
		Category: category,
		AuthorID: authorID,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetArticleBySlug fetches a single article by its slug. If the record does
// not exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetArticleBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Article, error) {
	var a domain.Article
	err := db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CountArticles returns the total number of published articles, optionally
// scoped to a category. On DB error, it returns the error.
func CountArticles(ctx context.Context, db *gorm.DB, category string) (int64, error) {
	q := db.WithContext(ctx).
		Model(&domain.Article{}).
		Where("published = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListArticlesPage returns a paginated slice of published articles, ordered
// by publication time descending. Use CountArticles to obtain the total for
// pagination metadata. On DB error, it returns the error.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListArticlesPage(ctx context.Context, db *gorm.DB, category string, offset, limit int) ([]domain.Article, error) {
	q := db.WithContext(ctx).
		Where("published = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []domain.Article
	err := q.Order("published_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// PublishArticle flips an article to published and stamps PublishedAt.
// If no rows are affected (article missing or already gone), it returns
// ErrNotFound. Publishing an already-published article is a no-op that
// keeps the original PublishedAt.
func PublishArticle(ctx context.Context, db *gorm.DB, slug string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Article{}).
		Where("slug = ? AND published = ?", slug, false).
		Updates(map[string]any{"published": true, "published_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish "missing" from "already published".
		var count int64
		if err := db.WithContext(ctx).
			Model(&domain.Article{}).
			Where("slug = ?", slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// ListPublishedBodies returns slug, title and body for every published
// article. It feeds the in-process search index and deliberately skips
// drafts.
func ListPublishedBodies(ctx context.Context, db *gorm.DB) ([]domain.Article, error) {
	var out []domain.Article
	err := db.WithContext(ctx).
		Select("slug", "title", "body").
		Where("published = ?", true).
		Find(&out).Error
	return out, err
}
