package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/store"
)

func TestAddPaymentMethod_RequiresType(t *testing.T) {
	svc := NewBillingService(store.New())

	if _, err := svc.AddPaymentMethod(context.Background(), 1, domain.PaymentMethod{Type: "  "}); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}

	pm, err := svc.AddPaymentMethod(context.Background(), 1, domain.PaymentMethod{Type: "card", UserID: 99})
	if err != nil {
		t.Fatalf("AddPaymentMethod: %v", err)
	}
	if pm.UserID != 1 {
		t.Fatalf("UserID not forced to caller: %+v", pm)
	}
	if !pm.IsDefault {
		t.Fatalf("first method should become default: %+v", pm)
	}
}

func TestSetDefaultPaymentMethod_Ownership(t *testing.T) {
	svc := NewBillingService(store.New())

	a, _ := svc.AddPaymentMethod(context.Background(), 1, domain.PaymentMethod{Type: "card"})
	b, _ := svc.AddPaymentMethod(context.Background(), 1, domain.PaymentMethod{Type: "paypal"})

	if _, err := svc.SetDefaultPaymentMethod(context.Background(), 2, b.ID); !errors.Is(err, ErrPaymentMethodNotFound) {
		t.Fatalf("expected ErrPaymentMethodNotFound for other user, got %v", err)
	}

	got, err := svc.SetDefaultPaymentMethod(context.Background(), 1, b.ID)
	if err != nil {
		t.Fatalf("SetDefaultPaymentMethod: %v", err)
	}
	if !got.IsDefault {
		t.Fatalf("method not default: %+v", got)
	}

	methods := svc.ListPaymentMethods(context.Background(), 1)
	defaults := 0
	for _, pm := range methods {
		if pm.IsDefault {
			defaults++
			if pm.ID == a.ID {
				t.Fatalf("old default not cleared")
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

func TestPaymentsForOrder_Ownership(t *testing.T) {
	st := store.New()
	svc := NewBillingService(st)

	order := st.CreateOrder(domain.Order{UserID: 1, Total: 50})
	st.CreatePayment(domain.Payment{OrderID: order.ID, Amount: 50})

	if _, err := svc.PaymentsForOrder(context.Background(), 2, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for other user, got %v", err)
	}
	pays, err := svc.PaymentsForOrder(context.Background(), 1, order.ID)
	if err != nil || len(pays) != 1 {
		t.Fatalf("PaymentsForOrder: %v %+v", err, pays)
	}
}

func TestUpdatePaymentStatus_SucceededMarksOrderPaid(t *testing.T) {
	st := store.New()
	svc := NewBillingService(st)

	if _, err := svc.UpdatePaymentStatus(context.Background(), 99, "succeeded"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}

	order := st.CreateOrder(domain.Order{UserID: 1, Total: 30})
	pay := st.CreatePayment(domain.Payment{OrderID: order.ID, Amount: 30})

	got, err := svc.UpdatePaymentStatus(context.Background(), pay.ID, "succeeded")
	if err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if got.Status != "succeeded" {
		t.Fatalf("payment status: %+v", got)
	}

	o, _ := st.GetOrder(order.ID)
	if o.Status != "paid" {
		t.Fatalf("order not marked paid: %+v", o)
	}

	// A failure leaves the order alone.
	o2 := st.CreateOrder(domain.Order{UserID: 1, Total: 10})
	p2 := st.CreatePayment(domain.Payment{OrderID: o2.ID, Amount: 10})
	if _, err := svc.UpdatePaymentStatus(context.Background(), p2.ID, "failed"); err != nil {
		t.Fatalf("fail path: %v", err)
	}
	if after, _ := st.GetOrder(o2.ID); after.Status != "pending" {
		t.Fatalf("failed payment should not touch order: %+v", after)
	}
}

func TestSubscribeAndCancel(t *testing.T) {
	svc := NewBillingService(store.New())

	if _, err := svc.Subscribe(context.Background(), 1, "  ", ""); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle for blank plan, got %v", err)
	}

	sub, err := svc.Subscribe(context.Background(), 1, "pro-lab", "{}")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if sub.Status != "active" || sub.CancelAtPeriodEnd {
		t.Fatalf("unexpected subscription: %+v", sub)
	}

	if _, err := svc.CancelSubscription(context.Background(), 2, sub.ID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound for other user, got %v", err)
	}

	got, err := svc.CancelSubscription(context.Background(), 1, sub.ID)
	if err != nil {
		t.Fatalf("CancelSubscription: %v", err)
	}
	if !got.CancelAtPeriodEnd || got.Status != "active" {
		t.Fatalf("cancel should only flag the period end: %+v", got)
	}

	if subs := svc.ListSubscriptions(context.Background(), 1); len(subs) != 1 {
		t.Fatalf("ListSubscriptions: %+v", subs)
	}
}
