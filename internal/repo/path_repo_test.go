package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

func TestCreateLearningPath_PersistsStepsInOrder(t *testing.T) {
	db := newContentRepoDB(t, &domain.LearningPath{}, &domain.LearningPathStep{})

	courseID := 3
	steps := []domain.LearningPathStep{
		{Title: "Read the primer", ArticleSlug: "rf-primer"},
		{Title: "Take the course", CourseID: &courseID},
		{Title: "Build the antenna"},
	}
	p, err := CreateLearningPath(context.Background(), db, "sdr-zero-to-hero", "SDR Zero to Hero", "desc", "beginner", steps)
	if err != nil {
		t.Fatalf("CreateLearningPath: %v", err)
	}
	if p.ID == "" || len(p.Steps) != 3 {
		t.Fatalf("unexpected path: %+v", p)
	}
	for i, s := range p.Steps {
		if s.PathID != p.ID || s.Position != i+1 || s.ID == "" {
			t.Fatalf("step %d not normalized: %+v", i, s)
		}
	}
}

func TestGetLearningPathBySlug_PreloadsOrderedSteps(t *testing.T) {
	db := newContentRepoDB(t, &domain.LearningPath{}, &domain.LearningPathStep{})

	steps := []domain.LearningPathStep{
		{Title: "first"}, {Title: "second"}, {Title: "third"},
	}
	if _, err := CreateLearningPath(context.Background(), db, "lockpicking-101", "Lockpicking 101", "", "beginner", steps); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := GetLearningPathBySlug(context.Background(), db, "lockpicking-101")
	if err != nil {
		t.Fatalf("GetLearningPathBySlug: %v", err)
	}
	if len(got.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(got.Steps))
	}
	if got.Steps[0].Title != "first" || got.Steps[2].Title != "third" {
		t.Fatalf("steps out of order: %+v", got.Steps)
	}

	if _, err := GetLearningPathBySlug(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListLearningPaths_FilterByDifficulty(t *testing.T) {
	db := newContentRepoDB(t, &domain.LearningPath{}, &domain.LearningPathStep{})

	if _, err := CreateLearningPath(context.Background(), db, "p1", "P1", "", "beginner", nil); err != nil {
		t.Fatalf("seed p1: %v", err)
	}
	if _, err := CreateLearningPath(context.Background(), db, "p2", "P2", "", "advanced", nil); err != nil {
		t.Fatalf("seed p2: %v", err)
	}

	all, err := ListLearningPaths(context.Background(), db, "")
	if err != nil {
		t.Fatalf("ListLearningPaths: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(all))
	}

	adv, err := ListLearningPaths(context.Background(), db, "advanced")
	if err != nil {
		t.Fatalf("ListLearningPaths(advanced): %v", err)
	}
	if len(adv) != 1 || adv[0].Slug != "p2" {
		t.Fatalf("unexpected filtered list: %+v", adv)
	}
}
