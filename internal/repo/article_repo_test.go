package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

func newContentRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("content_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateArticle_Error_NoTable(t *testing.T) {
	db := newContentRepoDB(t /* no migrations */)
	a, err := CreateArticle(context.Background(), db, "s", "t", "", "b", "firmware", 1)
	if err == nil || a != nil {
		t.Fatalf("expected error creating without table, got article=%v err=%v", a, err)
	}
}

func TestCreateArticle_Success_PersistsAndSetsFields(t *testing.T) {
	db := newContentRepoDB(t, &domain.Article{})

	a, err := CreateArticle(context.Background(), db, "flipper-teardown", "Flipper Teardown", "sum", "## Body", "firmware", 7)
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if a.ID == "" || a.Slug != "flipper-teardown" || a.AuthorID != 7 {
		t.Fatalf("unexpected Article fields: %+v", a)
	}
	if a.Published {
		t.Fatalf("new article must start as draft")
	}
	// round-trip
	var got domain.Article
	if err := db.First(&got, "id = ?", a.ID).Error; err != nil {
		t.Fatalf("load created article: %v", err)
	}
	if got.Slug != "flipper-teardown" || got.Body != "## Body" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCreateArticle_DuplicateSlug(t *testing.T) {
	db := newContentRepoDB(t, &domain.Article{})
	if _, err := CreateArticle(context.Background(), db, "dup", "A", "", "b", "", 1); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateArticle(context.Background(), db, "dup", "B", "", "b", "", 1); err == nil {
		t.Fatalf("expected unique-constraint error on duplicate slug")
	}
}

func TestGetArticleBySlug_FoundAndNotFound(t *testing.T) {
	db := newContentRepoDB(t, &domain.Article{})

	if _, err := GetArticleBySlug(context.Background(), db, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := CreateArticle(context.Background(), db, "sdr-intro", "SDR Intro", "", "b", "sdr", 1); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := GetArticleBySlug(context.Background(), db, "sdr-intro")
	if err != nil {
		t.Fatalf("GetArticleBySlug: %v", err)
	}
	if got.Title != "SDR Intro" {
		t.Fatalf("unexpected article: %+v", got)
	}
}

func seedPublished(t *testing.T, db *gorm.DB, slug, category string, at time.Time) {
	t.Helper()
	a := domain.Article{
		ID: slug, Slug: slug, Title: slug, Body: "b", Category: category,
		AuthorID: 1, Published: true, PublishedAt: &at,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed %s: %v", slug, err)
	}
}

func TestListArticlesPage_PublishedOnlyAndOrder(t *testing.T) {
	db := newContentRepoDB(t, &domain.Article{})

	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	seedPublished(t, db, "oldest", "firmware", base)
	seedPublished(t, db, "middle", "sdr", base.Add(time.Hour))
	seedPublished(t, db, "newest", "firmware", base.Add(2*time.Hour))
	// draft must not appear
	if _, err := CreateArticle(context.Background(), db, "draft", "Draft", "", "b", "firmware", 1); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	all, err := ListArticlesPage(context.Background(), db, "", 0, 10)
	if err != nil {
		t.Fatalf("ListArticlesPage: %v", err)
	}
	if len(all) != 3 || all[0].Slug != "newest" || all[2].Slug != "oldest" {
		t.Fatalf("unexpected listing: %+v", all)
	}

	fw, err := ListArticlesPage(context.Background(), db, "firmware", 0, 10)
	if err != nil {
		t.Fatalf("ListArticlesPage(firmware): %v", err)
	}
	if len(fw) != 2 {
		t.Fatalf("expected 2 firmware articles, got %d", len(fw))
	}

	page, err := ListArticlesPage(context.Background(), db, "", 1, 1)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page) != 1 || page[0].Slug != "middle" {
		t.Fatalf("unexpected page slice: %+v", page)
	}
}

func TestCountArticles(t *testing.T) {
	db := newContentRepoDB(t, &domain.Article{})

	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	seedPublished(t, db, "a", "firmware", base)
	seedPublished(t, db, "b", "sdr", base)

	total, err := CountArticles(context.Background(), db, "")
	if err != nil {
		t.Fatalf("CountArticles: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2, got %d", total)
	}
	fw, err := CountArticles(context.Background(), db, "firmware")
	if err != nil {
		t.Fatalf("CountArticles(firmware): %v", err)
	}
	if fw != 1 {
		t.Fatalf("expected 1, got %d", fw)
	}
}

func TestPublishArticle_StampsOnceAndNotFound(t *testing.T) {
	db := newContentRepoDB(t, &domain.Article{})

	if _, err := CreateArticle(context.Background(), db, "badge", "Badge", "", "b", "", 1); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	if err := PublishArticle(context.Background(), db, "badge", first); err != nil {
		t.Fatalf("PublishArticle: %v", err)
	}
	var got domain.Article
	if err := db.First(&got, "slug = ?", "badge").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Published || got.PublishedAt == nil || !got.PublishedAt.Equal(first) {
		t.Fatalf("not published as expected: %+v", got)
	}

	// Publishing again keeps the original timestamp.
	if err := PublishArticle(context.Background(), db, "badge", first.Add(time.Hour)); err != nil {
		t.Fatalf("republish: %v", err)
	}
	if err := db.First(&got, "slug = ?", "badge").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.PublishedAt.Equal(first) {
		t.Fatalf("PublishedAt overwritten: %v", got.PublishedAt)
	}

	if err := PublishArticle(context.Background(), db, "missing", first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPublishedBodies_SkipsDrafts(t *testing.T) {
	db := newContentRepoDB(t, &domain.Article{})

	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	seedPublished(t, db, "live", "firmware", base)
	if _, err := CreateArticle(context.Background(), db, "draft", "Draft", "", "hidden", "", 1); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	docs, err := ListPublishedBodies(context.Background(), db)
	if err != nil {
		t.Fatalf("ListPublishedBodies: %v", err)
	}
	if len(docs) != 1 || docs[0].Slug != "live" || docs[0].Body == "" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
}
