// Course catalog: courses, course modules, and user enrollments.
package store

import (
	"sort"
	"strings"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// CreateCourse stores a new course and returns it with its assigned id and
// creation timestamp. EnrollmentCount always starts at zero: it is derived
// state, owned by enrollment creation.
func (s *Store) CreateCourse(in domain.Course) domain.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courseSeq++
	in.ID = s.courseSeq
	in.EnrollmentCount = 0
	in.Tags = cloneTags(in.Tags)
	in.CreatedAt = s.now()
	s.courses[in.ID] = in
	return copyCourse(in)
}

// GetCourse looks up a course by id.
func (s *Store) GetCourse(id int) (domain.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return domain.Course{}, false
	}
	return copyCourse(c), true
}

// ListCourses returns every stored course in id order.
func (s *Store) ListCourses() []domain.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, copyCourse(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CoursesByCategory returns the courses whose category matches,
// case-insensitively.
func (s *Store) CoursesByCategory(category string) []domain.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Course{}
	for _, c := range s.courses {
		if strings.EqualFold(c.Category, category) {
			out = append(out, copyCourse(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CoursesByDifficulty returns the courses at the given difficulty level.
func (s *Store) CoursesByDifficulty(difficulty string) []domain.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Course{}
	for _, c := range s.courses {
		if strings.EqualFold(c.Difficulty, difficulty) {
			out = append(out, copyCourse(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateCourseModule stores a new module. CourseID is a soft reference and
// is not checked against the catalog.
func (s *Store) CreateCourseModule(in domain.CourseModule) domain.CourseModule {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.moduleSeq++
	in.ID = s.moduleSeq
	s.modules[in.ID] = in
	return in
}

// GetCourseModule looks up a module by id.
func (s *Store) GetCourseModule(id int) (domain.CourseModule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.modules[id]
	return m, ok
}

// ModulesByCourse returns a course's modules sorted by module number.
func (s *Store) ModulesByCourse(courseID int) []domain.CourseModule {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.CourseModule{}
	for _, m := range s.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleNumber < out[j].ModuleNumber })
	return out
}

// CreateUserCourse stores a new enrollment and bumps the parent course's
// enrollment counter. When the course id does not resolve, the counter
// update is skipped and the enrollment is stored anyway.
func (s *Store) CreateUserCourse(in domain.UserCourse) domain.UserCourse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createUserCourseLocked(in)
}

// createUserCourseLocked is the lock-held body of CreateUserCourse, shared
// with the progress upsert path.
func (s *Store) createUserCourseLocked(in domain.UserCourse) domain.UserCourse {
	now := s.now()
	s.enrollSeq++
	in.ID = s.enrollSeq
	in.EnrolledAt = now
	in.LastAccessedAt = now
	in.CompletedAt = nil
	if in.Progress >= 100 {
		in.CompletedAt = &now
	}
	s.enrollments[in.ID] = in

	if c, ok := s.courses[in.CourseID]; ok {
		c.EnrollmentCount++
		s.courses[in.CourseID] = c
	}
	return copyUserCourse(in)
}

// GetUserCourse looks up an enrollment by id.
func (s *Store) GetUserCourse(id int) (domain.UserCourse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uc, ok := s.enrollments[id]
	if !ok {
		return domain.UserCourse{}, false
	}
	return copyUserCourse(uc), true
}

// UserCoursesByUser returns every enrollment belonging to a user.
func (s *Store) UserCoursesByUser(userID int) []domain.UserCourse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.UserCourse{}
	for _, uc := range s.enrollments {
		if uc.UserID == userID {
			out = append(out, copyUserCourse(uc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UserCourseFor returns the enrollment of a user in a course, if any.
// Uniqueness of (user, course) is a caller convention, not enforced here;
// when duplicates exist an arbitrary one is returned.
func (s *Store) UserCourseFor(userID, courseID int) (domain.UserCourse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uc, ok := s.userCourseForLocked(userID, courseID)
	if !ok {
		return domain.UserCourse{}, false
	}
	return copyUserCourse(uc), true
}

func (s *Store) userCourseForLocked(userID, courseID int) (domain.UserCourse, bool) {
	for _, uc := range s.enrollments {
		if uc.UserID == userID && uc.CourseID == courseID {
			return uc, true
		}
	}
	return domain.UserCourse{}, false
}

// UpdateUserCourseProgress upserts a user's progress in a course. When no
// enrollment exists it creates one (bumping the course counter) instead of
// failing. CompletedAt is stamped the first time progress reaches 100 and
// never overwritten; LastAccessedAt is refreshed on every call.
func (s *Store) UpdateUserCourseProgress(userID, courseID, progress int) domain.UserCourse {
	s.mu.Lock()
	defer s.mu.Unlock()

	uc, ok := s.userCourseForLocked(userID, courseID)
	if !ok {
		return s.createUserCourseLocked(domain.UserCourse{
			UserID:   userID,
			CourseID: courseID,
			Progress: progress,
		})
	}

	now := s.now()
	uc.Progress = progress
	uc.LastAccessedAt = now
	if progress >= 100 && uc.CompletedAt == nil {
		uc.CompletedAt = &now
	}
	s.enrollments[uc.ID] = uc
	return copyUserCourse(uc)
}

func copyCourse(c domain.Course) domain.Course {
	c.Tags = cloneTags(c.Tags)
	return c
}

func copyUserCourse(uc domain.UserCourse) domain.UserCourse {
	uc.CompletedAt = cloneTime(uc.CompletedAt)
	return uc
}
