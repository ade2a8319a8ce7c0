// Package services – NotificationService
//
// This file implements the NotificationService, which manages the outbound
// email queue. Emails are created in a queued state and marked sent or
// failed by whichever delivery worker drains the queue; the first
// successful send stamps the delivery time permanently.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/store"
)

// NotificationService provides operations on the email notification queue.
type NotificationService struct {
	// Store is the in-memory record store used for persistence.
	Store *store.Store
}

// NewNotificationService constructs a NotificationService around the given store.
func NewNotificationService(st *store.Store) *NotificationService {
	return &NotificationService{Store: st}
}

// Queue records an email to be sent to userID. Subject and template are
// required.
func (s *NotificationService) Queue(ctx context.Context, userID int, subject, template, metadata string) (domain.EmailNotification, error) {
	subject = normalizeText(subject)
	if subject == "" || strings.TrimSpace(template) == "" {
		return domain.EmailNotification{}, ErrEmptyTitle
	}
	return s.Store.CreateEmailNotification(domain.EmailNotification{
		UserID:   userID,
		Subject:  subject,
		Template: template,
		Metadata: metadata,
	}), nil
}

// MarkSent records a successful delivery. The delivery time defaults to now
// and is only stamped on the first transition to sent.
func (s *NotificationService) MarkSent(ctx context.Context, id int, at *time.Time) (domain.EmailNotification, error) {
	n, ok := s.Store.UpdateEmailNotificationStatus(id, store.NotificationStatusSent, at)
	if !ok {
		return domain.EmailNotification{}, ErrNotificationNotFound
	}
	return n, nil
}

// MarkFailed records a delivery failure. The notification stays in the
// queue with a failed status; the delivery time is untouched.
func (s *NotificationService) MarkFailed(ctx context.Context, id int) (domain.EmailNotification, error) {
	n, ok := s.Store.UpdateEmailNotificationStatus(id, "failed", nil)
	if !ok {
		return domain.EmailNotification{}, ErrNotificationNotFound
	}
	return n, nil
}

// ListForUser returns all notifications addressed to a user.
func (s *NotificationService) ListForUser(ctx context.Context, userID int) []domain.EmailNotification {
	return s.Store.EmailNotificationsByUser(userID)
}
