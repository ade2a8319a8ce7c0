// Outbound email notifications.
package store

import (
	"sort"
	"time"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// NotificationStatusSent is the one notification status with special
// handling: the first transition to it stamps SentAt.
const NotificationStatusSent = "sent"

// CreateEmailNotification stores a new notification. An empty status
// defaults to "queued"; SentAt always starts unset.
func (s *Store) CreateEmailNotification(in domain.EmailNotification) domain.EmailNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifSeq++
	in.ID = s.notifSeq
	if in.Status == "" {
		in.Status = "queued"
	}
	in.SentAt = nil
	in.CreatedAt = s.now()
	s.notifications[in.ID] = in
	return copyNotification(in)
}

// GetEmailNotification looks up a notification by id.
func (s *Store) GetEmailNotification(id int) (domain.EmailNotification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return domain.EmailNotification{}, false
	}
	return copyNotification(n), true
}

// EmailNotificationsByUser returns every notification queued for a user.
func (s *Store) EmailNotificationsByUser(userID int) []domain.EmailNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.EmailNotification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, copyNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateEmailNotificationStatus writes a new status onto a notification.
// On the first transition to "sent", SentAt is stamped with the supplied
// timestamp, or the current time when sentAt is nil. An already-set SentAt
// is never overwritten, even by repeated "sent" writes.
func (s *Store) UpdateEmailNotificationStatus(id int, status string, sentAt *time.Time) (domain.EmailNotification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return domain.EmailNotification{}, false
	}

	n.Status = status
	if status == NotificationStatusSent && n.SentAt == nil {
		if sentAt != nil {
			n.SentAt = cloneTime(sentAt)
		} else {
			now := s.now()
			n.SentAt = &now
		}
	}
	s.notifications[id] = n
	return copyNotification(n), true
}

func copyNotification(n domain.EmailNotification) domain.EmailNotification {
	n.SentAt = cloneTime(n.SentAt)
	return n
}
