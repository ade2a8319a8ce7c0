// Billing records: payment methods, payments, and subscriptions.
package store

import (
	"sort"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// CreatePaymentMethod stores a new payment method. The method becomes the
// user's default when the caller asked for it or when it is the user's
// first method; in either case every sibling method is flipped to
// non-default first, so at most one default exists per user.
func (s *Store) CreatePaymentMethod(in domain.PaymentMethod) domain.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := true
	for _, pm := range s.payMethods {
		if pm.UserID == in.UserID {
			first = false
			break
		}
	}

	if in.IsDefault || first {
		in.IsDefault = true
		s.clearDefaultLocked(in.UserID)
	}

	now := s.now()
	s.payMethodSeq++
	in.ID = s.payMethodSeq
	in.CreatedAt = now
	in.UpdatedAt = now
	s.payMethods[in.ID] = in
	return in
}

// GetPaymentMethod looks up a payment method by id.
func (s *Store) GetPaymentMethod(id int) (domain.PaymentMethod, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pm, ok := s.payMethods[id]
	return pm, ok
}

// PaymentMethodsByUser returns every payment method stored for a user.
func (s *Store) PaymentMethodsByUser(userID int) []domain.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.PaymentMethod{}
	for _, pm := range s.payMethods {
		if pm.UserID == userID {
			out = append(out, pm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetDefaultPaymentMethod marks the named method as the user's default and
// every sibling as non-default. It reports false, changing nothing, when
// the id does not exist or does not belong to the user.
func (s *Store) SetDefaultPaymentMethod(userID, id int) (domain.PaymentMethod, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pm, ok := s.payMethods[id]
	if !ok || pm.UserID != userID {
		return domain.PaymentMethod{}, false
	}

	s.clearDefaultLocked(userID)
	pm.IsDefault = true
	pm.UpdatedAt = s.now()
	s.payMethods[id] = pm
	return pm, true
}

// clearDefaultLocked flips every method of the user to non-default.
func (s *Store) clearDefaultLocked(userID int) {
	for id, pm := range s.payMethods {
		if pm.UserID == userID && pm.IsDefault {
			pm.IsDefault = false
			s.payMethods[id] = pm
		}
	}
}

// CreatePayment stores a new payment. An empty status defaults to
// "pending".
func (s *Store) CreatePayment(in domain.Payment) domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.paymentSeq++
	in.ID = s.paymentSeq
	if in.Status == "" {
		in.Status = "pending"
	}
	in.CreatedAt = now
	in.UpdatedAt = now
	s.payments[in.ID] = in
	return in
}

// GetPayment looks up a payment by id.
func (s *Store) GetPayment(id int) (domain.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	return p, ok
}

// PaymentsByOrder returns every payment recorded against an order.
func (s *Store) PaymentsByOrder(orderID int) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Payment{}
	for _, p := range s.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdatePaymentStatus writes a new status onto a payment, bumping
// UpdatedAt on every call.
func (s *Store) UpdatePaymentStatus(id int, status string) (domain.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return domain.Payment{}, false
	}
	p.Status = status
	p.UpdatedAt = s.now()
	s.payments[id] = p
	return p, true
}

// CreateSubscription stores a new subscription. An empty status defaults
// to "active"; CancelAtPeriodEnd always starts false.
func (s *Store) CreateSubscription(in domain.Subscription) domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subSeq++
	in.ID = s.subSeq
	if in.Status == "" {
		in.Status = "active"
	}
	in.CancelAtPeriodEnd = false
	in.CreatedAt = s.now()
	s.subscriptions[in.ID] = in
	return in
}

// GetSubscription looks up a subscription by id.
func (s *Store) GetSubscription(id int) (domain.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	return sub, ok
}

// SubscriptionsByUser returns every subscription belonging to a user.
func (s *Store) SubscriptionsByUser(userID int) []domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Subscription{}
	for _, sub := range s.subscriptions {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CancelSubscription marks a subscription to end at the close of the
// current period. Status is deliberately left untouched: the subscription
// remains active until the billing provider closes the period.
func (s *Store) CancelSubscription(id int) (domain.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return domain.Subscription{}, false
	}
	sub.CancelAtPeriodEnd = true
	s.subscriptions[id] = sub
	return sub, true
}
