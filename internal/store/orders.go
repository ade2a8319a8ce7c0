// Orders and order items, including the inventory side effect that couples
// an item write to its referenced merchandise.
package store

import (
	"sort"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// Order statuses with special handling. Status itself is free-form; the
// store validates nothing and only watches for these two transitions.
const (
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

// CreateOrder stores a new order. An empty status defaults to "pending".
func (s *Store) CreateOrder(in domain.Order) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.orderSeq++
	in.ID = s.orderSeq
	if in.Status == "" {
		in.Status = "pending"
	}
	in.CreatedAt = now
	in.UpdatedAt = now
	in.ShippedAt = nil
	in.DeliveredAt = nil
	s.orders[in.ID] = in
	return copyOrder(in)
}

// GetOrder looks up an order by id.
func (s *Store) GetOrder(id int) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	return copyOrder(o), true
}

// OrdersByUser returns every order placed by a user.
func (s *Store) OrdersByUser(userID int) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateOrderStatus writes a new status onto an order. UpdatedAt is bumped
// on every call; ShippedAt and DeliveredAt are stamped only on the first
// transition to "shipped" and "delivered" respectively and never changed
// afterwards. Any other status value passes through untouched.
func (s *Store) UpdateOrderStatus(id int, status string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, false
	}

	now := s.now()
	o.Status = status
	o.UpdatedAt = now
	switch status {
	case OrderStatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
	s.orders[id] = o
	return copyOrder(o), true
}

// CreateOrderItem stores a new order line. When MerchandiseID resolves, the
// referenced merchandise loses Quantity units of inventory, floored at
// zero, and its availability is recomputed as inventory > 0 AND the
// previous availability: a record that was already unavailable stays
// unavailable even if inventory remains positive. A dangling MerchandiseID
// skips the side effect entirely; the item is stored either way.
func (s *Store) CreateOrderItem(in domain.OrderItem) domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.itemSeq++
	in.ID = s.itemSeq
	in.MerchandiseID = cloneInt(in.MerchandiseID)
	s.orderItems[in.ID] = in

	if in.MerchandiseID != nil {
		if m, ok := s.merchandise[*in.MerchandiseID]; ok {
			m.Inventory -= in.Quantity
			if m.Inventory < 0 {
				m.Inventory = 0
			}
			m.IsAvailable = m.Inventory > 0 && m.IsAvailable
			s.merchandise[m.ID] = m
		}
	}
	return copyOrderItem(in)
}

// GetOrderItem looks up an order item by id.
func (s *Store) GetOrderItem(id int) (domain.OrderItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.orderItems[id]
	if !ok {
		return domain.OrderItem{}, false
	}
	return copyOrderItem(it), true
}

// OrderItemsByOrder returns the lines of an order in id order.
func (s *Store) OrderItemsByOrder(orderID int) []domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.OrderItem{}
	for _, it := range s.orderItems {
		if it.OrderID == orderID {
			out = append(out, copyOrderItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func copyOrder(o domain.Order) domain.Order {
	o.ShippedAt = cloneTime(o.ShippedAt)
	o.DeliveredAt = cloneTime(o.DeliveredAt)
	return o
}

func copyOrderItem(it domain.OrderItem) domain.OrderItem {
	it.MerchandiseID = cloneInt(it.MerchandiseID)
	return it
}
