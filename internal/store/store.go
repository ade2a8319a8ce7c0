// Package store implements the in-memory repository backing the catalog,
// storefront, billing, and notification services. Records live in plain
// maps keyed by auto-incrementing integer ids; ids are monotonic per entity
// type and never reused. There are no delete operations and no durability:
// the store lives exactly as long as the process.
//
// Semantics:
//   - "Not found" is a normal outcome, reported with a comma-ok bool,
//     never an error.
//   - Soft references (a CourseID on an enrollment, a MerchandiseID on an
//     order item) are never validated; when one does not resolve, the
//     coupled side effect is skipped and the primary write still succeeds.
//   - Every operation is a single read-modify-write critical section under
//     one mutex. There is no transactional isolation across operations.
//   - Callers receive copies; the store is the sole mutator of its records.
package store

import (
	"sync"
	"time"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// Store holds every collection of the repository. Construct it with New and
// inject it into services; do not share records across stores.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	courses       map[int]domain.Course
	modules       map[int]domain.CourseModule
	enrollments   map[int]domain.UserCourse
	merchandise   map[int]domain.Merchandise
	orders        map[int]domain.Order
	orderItems    map[int]domain.OrderItem
	payMethods    map[int]domain.PaymentMethod
	payments      map[int]domain.Payment
	subscriptions map[int]domain.Subscription
	notifications map[int]domain.EmailNotification

	courseSeq    int
	moduleSeq    int
	enrollSeq    int
	merchSeq     int
	orderSeq     int
	itemSeq      int
	payMethodSeq int
	paymentSeq   int
	subSeq       int
	notifSeq     int
}

// Option customizes a Store at construction time.
type Option func(*Store)

// WithClock replaces the wall clock used for creation and status
// timestamps. Tests use it to make timestamps deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty Store. Id counters start at zero; the first record
// of each entity type gets id 1.
func New(opts ...Option) *Store {
	s := &Store{
		now:           func() time.Time { return time.Now().UTC() },
		courses:       make(map[int]domain.Course),
		modules:       make(map[int]domain.CourseModule),
		enrollments:   make(map[int]domain.UserCourse),
		merchandise:   make(map[int]domain.Merchandise),
		orders:        make(map[int]domain.Order),
		orderItems:    make(map[int]domain.OrderItem),
		payMethods:    make(map[int]domain.PaymentMethod),
		payments:      make(map[int]domain.Payment),
		subscriptions: make(map[int]domain.Subscription),
		notifications: make(map[int]domain.EmailNotification),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// cloneTime copies a timestamp pointer so callers cannot alias stored state.
func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// cloneTags copies a tag slice, normalizing nil to an empty slice.
func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// cloneInt copies an optional integer reference.
func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
