package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hexforge/go-academy-backend/internal/store"
)

func TestNotificationQueue_Validates(t *testing.T) {
	svc := NewNotificationService(store.New())

	if _, err := svc.Queue(context.Background(), 1, " ", "tpl", ""); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle for blank subject, got %v", err)
	}
	if _, err := svc.Queue(context.Background(), 1, "Hi", "  ", ""); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle for blank template, got %v", err)
	}

	n, err := svc.Queue(context.Background(), 1, "  Welcome   aboard ", "welcome", "{}")
	if err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if n.Subject != "Welcome aboard" || n.Status != "queued" || n.SentAt != nil {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestNotificationMarkSentAndFailed(t *testing.T) {
	svc := NewNotificationService(store.New())

	if _, err := svc.MarkSent(context.Background(), 5, nil); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if _, err := svc.MarkFailed(context.Background(), 5); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}

	n, _ := svc.Queue(context.Background(), 1, "Order shipped", "order-shipped", "")

	failed, err := svc.MarkFailed(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if failed.Status != "failed" || failed.SentAt != nil {
		t.Fatalf("unexpected failed record: %+v", failed)
	}

	at := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
	sent, err := svc.MarkSent(context.Background(), n.ID, &at)
	if err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if sent.Status != "sent" || sent.SentAt == nil || !sent.SentAt.Equal(at) {
		t.Fatalf("unexpected sent record: %+v", sent)
	}

	if got := svc.ListForUser(context.Background(), 1); len(got) != 1 {
		t.Fatalf("ListForUser: %+v", got)
	}
}
