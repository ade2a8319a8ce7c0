// Package services – BillingService
//
// This file implements the BillingService, which manages stored payment
// methods, payments against orders, and subscriptions. Ownership is enforced
// on every mutating call so one user cannot touch another user's billing
// records.
package services

import (
	"context"
	"strings"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/store"
)

// BillingService provides payment-method, payment, and subscription
// operations on top of the storage layer.
type BillingService struct {
	// Store is the in-memory record store used for persistence.
	Store *store.Store
}

// NewBillingService constructs a BillingService around the given store.
func NewBillingService(st *store.Store) *BillingService {
	return &BillingService{Store: st}
}

// AddPaymentMethod stores a payment method for userID. The first stored
// method becomes the default automatically; a later method marked default
// displaces the previous one.
func (s *BillingService) AddPaymentMethod(ctx context.Context, userID int, in domain.PaymentMethod) (domain.PaymentMethod, error) {
	if strings.TrimSpace(in.Type) == "" {
		return domain.PaymentMethod{}, ErrInvalidPaymentMethod
	}
	in.UserID = userID
	return s.Store.CreatePaymentMethod(in), nil
}

// ListPaymentMethods returns all payment methods stored by a user.
func (s *BillingService) ListPaymentMethods(ctx context.Context, userID int) []domain.PaymentMethod {
	return s.Store.PaymentMethodsByUser(userID)
}

// SetDefaultPaymentMethod makes the given method the user's default.
// Returns ErrPaymentMethodNotFound when the id is unknown or owned by
// someone else.
func (s *BillingService) SetDefaultPaymentMethod(ctx context.Context, userID, id int) (domain.PaymentMethod, error) {
	pm, ok := s.Store.SetDefaultPaymentMethod(userID, id)
	if !ok {
		return domain.PaymentMethod{}, ErrPaymentMethodNotFound
	}
	return pm, nil
}

// GetPayment fetches a payment by id, or ErrPaymentNotFound.
func (s *BillingService) GetPayment(ctx context.Context, id int) (domain.Payment, error) {
	p, ok := s.Store.GetPayment(id)
	if !ok {
		return domain.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

// PaymentsForOrder returns all payments recorded against an order the user
// owns. Returns ErrOrderNotFound when the order is missing or not theirs.
func (s *BillingService) PaymentsForOrder(ctx context.Context, userID, orderID int) ([]domain.Payment, error) {
	o, ok := s.Store.GetOrder(orderID)
	if !ok || o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return s.Store.PaymentsByOrder(orderID), nil
}

// UpdatePaymentStatus records a status transition reported by the payment
// provider. A payment that succeeds moves its order to "paid".
func (s *BillingService) UpdatePaymentStatus(ctx context.Context, id int, status string) (domain.Payment, error) {
	p, ok := s.Store.UpdatePaymentStatus(id, status)
	if !ok {
		return domain.Payment{}, ErrPaymentNotFound
	}
	if status == "succeeded" {
		s.Store.UpdateOrderStatus(p.OrderID, "paid")
	}
	return p, nil
}

// Subscribe opens a subscription for userID on the given plan.
func (s *BillingService) Subscribe(ctx context.Context, userID int, plan string, metadata string) (domain.Subscription, error) {
	plan = normalizeText(plan)
	if plan == "" {
		return domain.Subscription{}, ErrEmptyTitle
	}
	return s.Store.CreateSubscription(domain.Subscription{
		UserID:   userID,
		Plan:     plan,
		Metadata: metadata,
	}), nil
}

// ListSubscriptions returns all subscriptions held by a user.
func (s *BillingService) ListSubscriptions(ctx context.Context, userID int) []domain.Subscription {
	return s.Store.SubscriptionsByUser(userID)
}

// CancelSubscription flags the subscription to lapse at the end of the
// current period. The subscription stays active until then. Returns
// ErrSubscriptionNotFound when the id is unknown or owned by someone else.
func (s *BillingService) CancelSubscription(ctx context.Context, userID, id int) (domain.Subscription, error) {
	existing, ok := s.Store.GetSubscription(id)
	if !ok || existing.UserID != userID {
		return domain.Subscription{}, ErrSubscriptionNotFound
	}
	sub, ok := s.Store.CancelSubscription(id)
	if !ok {
		return domain.Subscription{}, ErrSubscriptionNotFound
	}
	return sub, nil
}
