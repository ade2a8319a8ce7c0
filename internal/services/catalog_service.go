// Package services – CatalogService
//
// This file implements the CatalogService, which manages the course catalog
// and enrollments. It validates and normalizes course input, resolves the
// category/difficulty filters, and coordinates store operations for creating
// courses, attaching modules, enrolling users, and tracking progress.
//
// Service-level errors (e.g., ErrCourseNotFound, ErrInvalidProgress) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/store"
)

// CatalogService provides course-level operations such as creating courses,
// listing with filters, and managing enrollments. It enforces input rules on
// top of the storage layer.
type CatalogService struct {
	// Store is the in-memory record store used for persistence.
	Store *store.Store
}

// NewCatalogService constructs a CatalogService around the given store.
func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{Store: st}
}

// CreateCourse inserts a new course. Titles are normalized and required;
// negative prices are floored at zero.
func (s *CatalogService) CreateCourse(ctx context.Context, in domain.Course) (domain.Course, error) {
	in.Title = normalizeText(in.Title)
	if in.Title == "" {
		return domain.Course{}, ErrEmptyTitle
	}
	if in.Price < 0 {
		in.Price = 0
	}
	return s.Store.CreateCourse(in), nil
}

// GetCourse fetches a single course by id, or ErrCourseNotFound.
func (s *CatalogService) GetCourse(ctx context.Context, id int) (domain.Course, error) {
	c, ok := s.Store.GetCourse(id)
	if !ok {
		return domain.Course{}, ErrCourseNotFound
	}
	return c, nil
}

// ListCourses returns courses, optionally filtered by category and/or
// difficulty. Both filters are case-insensitive; an empty filter matches all.
func (s *CatalogService) ListCourses(ctx context.Context, category, difficulty string) []domain.Course {
	switch {
	case category != "" && difficulty != "":
		out := make([]domain.Course, 0)
		for _, c := range s.Store.CoursesByCategory(category) {
			if strings.EqualFold(c.Difficulty, difficulty) {
				out = append(out, c)
			}
		}
		return out
	case category != "":
		return s.Store.CoursesByCategory(category)
	case difficulty != "":
		return s.Store.CoursesByDifficulty(difficulty)
	default:
		return s.Store.ListCourses()
	}
}

// AddModule attaches a module to an existing course. Returns
// ErrCourseNotFound when the course id is unknown.
func (s *CatalogService) AddModule(ctx context.Context, in domain.CourseModule) (domain.CourseModule, error) {
	in.Title = normalizeText(in.Title)
	if in.Title == "" {
		return domain.CourseModule{}, ErrEmptyTitle
	}
	if _, ok := s.Store.GetCourse(in.CourseID); !ok {
		return domain.CourseModule{}, ErrCourseNotFound
	}
	return s.Store.CreateCourseModule(in), nil
}

// ListModules returns the modules of a course in module-number order.
// Returns ErrCourseNotFound when the course id is unknown.
func (s *CatalogService) ListModules(ctx context.Context, courseID int) ([]domain.CourseModule, error) {
	if _, ok := s.Store.GetCourse(courseID); !ok {
		return nil, ErrCourseNotFound
	}
	return s.Store.ModulesByCourse(courseID), nil
}

// Enroll enrolls userID in courseID. Enrolling twice is idempotent and
// returns the existing enrollment unchanged, so the course's enrollment
// counter is bumped at most once per user.
func (s *CatalogService) Enroll(ctx context.Context, userID, courseID int) (domain.UserCourse, error) {
	tr := otel.Tracer("services/CatalogService")
	_, span := tr.Start(ctx, "Enroll",
		trace.WithAttributes(
			attribute.Int("user.id", userID),
			attribute.Int("course.id", courseID),
		),
	)
	defer span.End()

	if _, ok := s.Store.GetCourse(courseID); !ok {
		return domain.UserCourse{}, ErrCourseNotFound
	}
	if existing, ok := s.Store.UserCourseFor(userID, courseID); ok {
		return existing, nil
	}
	return s.Store.CreateUserCourse(domain.UserCourse{UserID: userID, CourseID: courseID}), nil
}

// UpdateProgress records a learner's progress in a course. Progress must be
// within 0..100; reaching 100 marks the enrollment completed. A missing
// enrollment is created on the fly.
func (s *CatalogService) UpdateProgress(ctx context.Context, userID, courseID, progress int) (domain.UserCourse, error) {
	if progress < 0 || progress > 100 {
		return domain.UserCourse{}, ErrInvalidProgress
	}
	if _, ok := s.Store.GetCourse(courseID); !ok {
		return domain.UserCourse{}, ErrCourseNotFound
	}
	return s.Store.UpdateUserCourseProgress(userID, courseID, progress), nil
}

// MyCourses returns all enrollments for a user.
func (s *CatalogService) MyCourses(ctx context.Context, userID int) []domain.UserCourse {
	return s.Store.UserCoursesByUser(userID)
}

// normalizeText trims whitespace and collapses multiple spaces to one.
func normalizeText(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
