// Package services – ContentService
//
// This file implements the ContentService, which manages the editorial side
// of the site: articles, learning paths, and full-text search over published
// bodies. Slugs are derived from titles with Unicode-aware lowercasing; the
// search index is rebuilt from the database whenever an article is published,
// behind a read-write lock so queries never observe a half-built index.
//
// Service-level errors (e.g., ErrArticleNotFound, ErrSlugTaken) are returned
// for predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/repo"
	"github.com/hexforge/go-academy-backend/internal/search"
)

// ContentService provides article, learning-path, and search operations.
type ContentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// SearchTopK caps the number of search results returned per query.
	SearchTopK int

	mu  sync.RWMutex
	idx search.Index
}

// NewContentService constructs a ContentService and builds the initial
// search index from whatever is already published.
func NewContentService(db *gorm.DB) (*ContentService, error) {
	s := &ContentService{DB: db, SearchTopK: 5}
	if err := s.RefreshIndex(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateArticle inserts a new draft article. The slug is derived from the
// title; a clash with an existing slug yields ErrSlugTaken.
func (s *ContentService) CreateArticle(ctx context.Context, title, summary, body, category string, authorID int) (*domain.Article, error) {
	title = normalizeText(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, ErrEmptyTitle
	}

	a, err := repo.CreateArticle(ctx, s.DB, slug, title, summary, body, category, authorID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return a, nil
}

// GetArticle fetches a single article by slug, or ErrArticleNotFound.
func (s *ContentService) GetArticle(ctx context.Context, slug string) (*domain.Article, error) {
	a, err := repo.GetArticleBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListArticles returns a page of published articles together with the total
// count. It applies defaults for invalid page/pageSize.
func (s *ContentService) ListArticles(ctx context.Context, category string, page, pageSize int) ([]domain.Article, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountArticles(ctx, s.DB, category)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Article{}, 0, nil
	}

	items, err := repo.ListArticlesPage(ctx, s.DB, category, offset, pageSize)
	return items, total, err
}

// Publish makes an article visible and rebuilds the search index so the new
// body is queryable immediately. Returns ErrArticleNotFound for unknown slugs.
func (s *ContentService) Publish(ctx context.Context, slug string) error {
	tr := otel.Tracer("services/ContentService")
	ctx, span := tr.Start(ctx, "Publish",
		trace.WithAttributes(attribute.String("article.slug", slug)),
	)
	defer span.End()

	if err := repo.PublishArticle(ctx, s.DB, slug, time.Now().UTC()); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrArticleNotFound
		}
		return err
	}
	return s.RefreshIndex(ctx)
}

// Search runs a query against the published article index and returns up to
// SearchTopK ranked snippets, each linked back to its source article.
func (s *ContentService) Search(ctx context.Context, query string) []search.Result {
	tr := otel.Tracer("services/ContentService")
	_, span := tr.Start(ctx, "Search",
		trace.WithAttributes(attribute.Int("query.len", len(query))),
	)
	defer span.End()

	s.mu.RLock()
	idx := s.idx
	s.mu.RUnlock()
	if idx == nil {
		return nil
	}
	k := s.SearchTopK
	if k <= 0 {
		k = 5
	}
	return idx.TopK(query, k)
}

// RefreshIndex rebuilds the search index from all published article bodies.
func (s *ContentService) RefreshIndex(ctx context.Context) error {
	arts, err := repo.ListPublishedBodies(ctx, s.DB)
	if err != nil {
		return err
	}
	docs := make([]search.Document, 0, len(arts))
	for _, a := range arts {
		docs = append(docs, search.Document{Slug: a.Slug, Title: a.Title, Body: a.Body})
	}
	idx := search.NewIndex(docs)

	s.mu.Lock()
	s.idx = idx
	s.mu.Unlock()
	return nil
}

// CreatePath inserts a learning path with its ordered steps. The slug is
// derived from the title; a clash yields ErrSlugTaken.
func (s *ContentService) CreatePath(ctx context.Context, title, description, difficulty string, steps []domain.LearningPathStep) (*domain.LearningPath, error) {
	title = normalizeText(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	slug := Slugify(title)

	p, err := repo.CreateLearningPath(ctx, s.DB, slug, title, description, difficulty, steps)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return p, nil
}

// GetPath fetches a learning path with its steps, or ErrPathNotFound.
func (s *ContentService) GetPath(ctx context.Context, slug string) (*domain.LearningPath, error) {
	p, err := repo.GetLearningPathBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPathNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPaths returns learning paths, optionally filtered by difficulty.
func (s *ContentService) ListPaths(ctx context.Context, difficulty string) ([]domain.LearningPath, error) {
	return repo.ListLearningPaths(ctx, s.DB, difficulty)
}

// ArticlesStats exposes aggregate article metadata for conditional responses.
func (s *ContentService) ArticlesStats(ctx context.Context) (int64, *time.Time, error) {
	return repo.ArticlesStats(ctx, s.DB)
}

// lowerCaser folds titles without tying slugs to a specific locale.
var lowerCaser = cases.Lower(language.Und)

// Slugify turns a title into a URL-safe slug: Unicode lowercase, letters and
// digits kept, everything else collapsed to single hyphens.
func Slugify(title string) string {
	lowered := lowerCaser.String(strings.TrimSpace(title))
	var b strings.Builder
	b.Grow(len(lowered))
	prevHyphen := true // suppress a leading hyphen
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
