package store

import (
	"testing"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

func defaultCount(methods []domain.PaymentMethod) (n int, defaultID int) {
	for _, pm := range methods {
		if pm.IsDefault {
			n++
			defaultID = pm.ID
		}
	}
	return n, defaultID
}

func TestCreatePaymentMethod_FirstIsForcedDefault(t *testing.T) {
	s := New()

	// Explicitly requested non-default, but it is the user's first method.
	pm := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1, Type: "card", IsDefault: false})
	if !pm.IsDefault {
		t.Fatalf("first payment method not forced default")
	}
	n, _ := defaultCount(s.PaymentMethodsByUser(1))
	if n != 1 {
		t.Fatalf("defaults = %d, want 1", n)
	}
}

func TestCreatePaymentMethod_RequestedDefaultFlipsSiblings(t *testing.T) {
	s := New()
	s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1, Type: "card"})
	second := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1, Type: "paypal", IsDefault: true})

	n, id := defaultCount(s.PaymentMethodsByUser(1))
	if n != 1 || id != second.ID {
		t.Fatalf("defaults=%d defaultID=%d, want 1/%d", n, id, second.ID)
	}
}

func TestCreatePaymentMethod_SecondNonDefaultStaysNonDefault(t *testing.T) {
	s := New()
	first := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1, Type: "card"})
	second := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1, Type: "crypto", IsDefault: false})

	if second.IsDefault {
		t.Fatalf("second method became default without being requested")
	}
	n, id := defaultCount(s.PaymentMethodsByUser(1))
	if n != 1 || id != first.ID {
		t.Fatalf("defaults=%d defaultID=%d, want 1/%d", n, id, first.ID)
	}
}

func TestCreatePaymentMethod_UsersIsolated(t *testing.T) {
	s := New()
	s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1})
	s.CreatePaymentMethod(domain.PaymentMethod{UserID: 2})

	for _, uid := range []int{1, 2} {
		if n, _ := defaultCount(s.PaymentMethodsByUser(uid)); n != 1 {
			t.Fatalf("user %d defaults = %d, want 1", uid, n)
		}
	}
}

func TestSetDefaultPaymentMethod(t *testing.T) {
	s := New()
	first := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1, Type: "card"})
	second := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1, Type: "paypal"})

	got, ok := s.SetDefaultPaymentMethod(1, second.ID)
	if !ok || !got.IsDefault {
		t.Fatalf("SetDefault failed: ok=%v %+v", ok, got)
	}
	n, id := defaultCount(s.PaymentMethodsByUser(1))
	if n != 1 || id != second.ID {
		t.Fatalf("defaults=%d defaultID=%d, want 1/%d", n, id, second.ID)
	}
	_ = first
}

func TestSetDefaultPaymentMethod_NotOwned(t *testing.T) {
	s := New()
	mine := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1})
	theirs := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 2})

	if _, ok := s.SetDefaultPaymentMethod(1, theirs.ID); ok {
		t.Fatalf("set another user's method as default")
	}
	// Nothing changed for either user.
	n, id := defaultCount(s.PaymentMethodsByUser(1))
	if n != 1 || id != mine.ID {
		t.Fatalf("user 1 defaults disturbed: n=%d id=%d", n, id)
	}
	n, id = defaultCount(s.PaymentMethodsByUser(2))
	if n != 1 || id != theirs.ID {
		t.Fatalf("user 2 defaults disturbed: n=%d id=%d", n, id)
	}
}

func TestSetDefaultPaymentMethod_UnknownID(t *testing.T) {
	s := New()
	if _, ok := s.SetDefaultPaymentMethod(1, 99); ok {
		t.Fatalf("expected not-found")
	}
}

func TestUpdatePaymentStatus_BumpsUpdatedAt(t *testing.T) {
	s := New(WithClock(tickClock(testStart())))
	p := s.CreatePayment(domain.Payment{OrderID: 1, Amount: 50})
	if p.Status != "pending" {
		t.Fatalf("status = %q, want pending", p.Status)
	}

	got, ok := s.UpdatePaymentStatus(p.ID, "captured")
	if !ok || got.Status != "captured" {
		t.Fatalf("update failed: ok=%v %+v", ok, got)
	}
	if !got.UpdatedAt.After(p.UpdatedAt) {
		t.Fatalf("UpdatedAt not bumped")
	}

	again, _ := s.UpdatePaymentStatus(p.ID, "captured")
	if !again.UpdatedAt.After(got.UpdatedAt) {
		t.Fatalf("UpdatedAt not bumped on repeat write")
	}
}

func TestUpdatePaymentStatus_NotFound(t *testing.T) {
	s := New()
	if _, ok := s.UpdatePaymentStatus(5, "captured"); ok {
		t.Fatalf("expected not-found")
	}
}

func TestPaymentsByOrder(t *testing.T) {
	s := New()
	s.CreatePayment(domain.Payment{OrderID: 10, Amount: 1})
	s.CreatePayment(domain.Payment{OrderID: 10, Amount: 2})
	s.CreatePayment(domain.Payment{OrderID: 11, Amount: 3})

	if got := s.PaymentsByOrder(10); len(got) != 2 {
		t.Fatalf("got %d payments, want 2", len(got))
	}
}

func TestCancelSubscription_FlagOnlyStatusUntouched(t *testing.T) {
	s := New()
	sub := s.CreateSubscription(domain.Subscription{UserID: 1, Plan: "lab-pro"})
	if sub.Status != "active" || sub.CancelAtPeriodEnd {
		t.Fatalf("unexpected fresh subscription: %+v", sub)
	}

	got, ok := s.CancelSubscription(sub.ID)
	if !ok {
		t.Fatalf("subscription vanished")
	}
	if !got.CancelAtPeriodEnd {
		t.Fatalf("CancelAtPeriodEnd not set")
	}
	if got.Status != "active" {
		t.Fatalf("cancel changed status to %q; it must not", got.Status)
	}
}

func TestCancelSubscription_NotFound(t *testing.T) {
	s := New()
	if _, ok := s.CancelSubscription(8); ok {
		t.Fatalf("expected not-found")
	}
}

func TestCreateSubscription_ForcesCancelFlagOff(t *testing.T) {
	s := New()
	sub := s.CreateSubscription(domain.Subscription{UserID: 1, CancelAtPeriodEnd: true})
	if sub.CancelAtPeriodEnd {
		t.Fatalf("CancelAtPeriodEnd honored on create; it must start false")
	}
}

func TestPaymentMethodTimestamps(t *testing.T) {
	s := New(WithClock(tickClock(testStart())))
	pm := s.CreatePaymentMethod(domain.PaymentMethod{UserID: 1})
	if pm.CreatedAt.IsZero() || !pm.UpdatedAt.Equal(pm.CreatedAt) {
		t.Fatalf("timestamps wrong: %+v", pm)
	}

	got, _ := s.SetDefaultPaymentMethod(1, pm.ID)
	if !got.UpdatedAt.After(pm.UpdatedAt) {
		t.Fatalf("UpdatedAt not bumped by SetDefault")
	}
}
