// Package services – StorefrontService
//
// This file implements the StorefrontService, which runs the merchandise
// shop: listing the catalog, taking checkouts, and moving orders through
// their fulfillment states. Checkout resolves every cart line against the
// live catalog, prices it (honoring discount prices), and persists the
// order, its line items, and a pending payment. Inventory bookkeeping
// happens in the storage layer as line items are written.
//
// Service-level errors (e.g., ErrEmptyCart, ErrMerchandiseNotFound,
// ErrUnavailable) are returned for predictable cases so handlers can map
// them to HTTP results consistently.
package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/store"
)

// CheckoutLine is one cart entry in a checkout request.
type CheckoutLine struct {
	MerchandiseID int `json:"merchandise_id"`
	Quantity      int `json:"quantity"`
}

// CheckoutResult bundles everything created by a successful checkout.
type CheckoutResult struct {
	Order   domain.Order       `json:"order"`
	Items   []domain.OrderItem `json:"items"`
	Payment domain.Payment     `json:"payment"`
}

// StorefrontService provides merchandise and order operations.
type StorefrontService struct {
	// Store is the in-memory record store used for persistence.
	Store *store.Store
}

// NewStorefrontService constructs a StorefrontService around the given store.
func NewStorefrontService(st *store.Store) *StorefrontService {
	return &StorefrontService{Store: st}
}

// CreateMerchandise inserts a new shop item. Names are normalized and
// required; negative prices and inventory are floored at zero.
func (s *StorefrontService) CreateMerchandise(ctx context.Context, in domain.Merchandise) (domain.Merchandise, error) {
	in.Name = normalizeText(in.Name)
	if in.Name == "" {
		return domain.Merchandise{}, ErrEmptyTitle
	}
	if in.Price < 0 {
		in.Price = 0
	}
	if in.Inventory < 0 {
		in.Inventory = 0
	}
	return s.Store.CreateMerchandise(in), nil
}

// GetMerchandise fetches a single item by id, or ErrMerchandiseNotFound.
func (s *StorefrontService) GetMerchandise(ctx context.Context, id int) (domain.Merchandise, error) {
	m, ok := s.Store.GetMerchandise(id)
	if !ok {
		return domain.Merchandise{}, ErrMerchandiseNotFound
	}
	return m, nil
}

// ListMerchandise returns shop items, optionally filtered by category
// (case-insensitive).
func (s *StorefrontService) ListMerchandise(ctx context.Context, category string) []domain.Merchandise {
	if category != "" {
		return s.Store.MerchandiseByCategory(category)
	}
	return s.Store.ListMerchandise()
}

// Checkout turns a cart into an order. Every line is validated against the
// catalog first: unknown ids yield ErrMerchandiseNotFound, unavailable items
// ErrUnavailable, and non-positive quantities ErrInvalidQuantity. Lines are
// priced at the discount price when one is set. On success the order, its
// line items, and a pending payment for the total are persisted.
//
// Inventory is decremented per line by the storage layer; a line that
// oversells simply drains the item to zero and marks it unavailable.
func (s *StorefrontService) Checkout(ctx context.Context, userID int, lines []CheckoutLine) (*CheckoutResult, error) {
	tr := otel.Tracer("services/StorefrontService")
	_, span := tr.Start(ctx, "Checkout",
		trace.WithAttributes(
			attribute.Int("user.id", userID),
			attribute.Int("cart.lines", len(lines)),
		),
	)
	defer span.End()

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Resolve and price every line before writing anything.
	type priced struct {
		merchID int
		qty     int
		unit    float64
	}
	resolved := make([]priced, 0, len(lines))
	var total float64
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		m, ok := s.Store.GetMerchandise(ln.MerchandiseID)
		if !ok {
			return nil, fmt.Errorf("line %d: %w", ln.MerchandiseID, ErrMerchandiseNotFound)
		}
		if !m.IsAvailable {
			return nil, fmt.Errorf("line %d: %w", ln.MerchandiseID, ErrUnavailable)
		}
		unit := m.Price
		if m.DiscountPrice != nil {
			unit = *m.DiscountPrice
		}
		resolved = append(resolved, priced{merchID: m.ID, qty: ln.Quantity, unit: unit})
		total += unit * float64(ln.Quantity)
	}

	order := s.Store.CreateOrder(domain.Order{UserID: userID, Total: total})

	items := make([]domain.OrderItem, 0, len(resolved))
	for _, p := range resolved {
		id := p.merchID
		items = append(items, s.Store.CreateOrderItem(domain.OrderItem{
			OrderID:       order.ID,
			MerchandiseID: &id,
			Quantity:      p.qty,
			UnitPrice:     p.unit,
		}))
	}

	payment := s.Store.CreatePayment(domain.Payment{OrderID: order.ID, Amount: total})

	return &CheckoutResult{Order: order, Items: items, Payment: payment}, nil
}

// GetOrder fetches an order by id, enforcing ownership. Returns the order
// together with its line items.
func (s *StorefrontService) GetOrder(ctx context.Context, userID, orderID int) (domain.Order, []domain.OrderItem, error) {
	o, ok := s.Store.GetOrder(orderID)
	if !ok || o.UserID != userID {
		return domain.Order{}, nil, ErrOrderNotFound
	}
	return o, s.Store.OrderItemsByOrder(orderID), nil
}

// ListOrders returns all orders placed by a user.
func (s *StorefrontService) ListOrders(ctx context.Context, userID int) []domain.Order {
	return s.Store.OrdersByUser(userID)
}

// UpdateOrderStatus moves an order to a new status. Shipment and delivery
// timestamps are stamped once by the storage layer; a transition to either
// state also queues an email notification for the buyer.
func (s *StorefrontService) UpdateOrderStatus(ctx context.Context, orderID int, status string) (domain.Order, error) {
	o, ok := s.Store.UpdateOrderStatus(orderID, status)
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}

	switch status {
	case store.OrderStatusShipped:
		s.Store.CreateEmailNotification(domain.EmailNotification{
			UserID:   o.UserID,
			Subject:  fmt.Sprintf("Your order #%d has shipped", o.ID),
			Template: "order-shipped",
		})
	case store.OrderStatusDelivered:
		s.Store.CreateEmailNotification(domain.EmailNotification{
			UserID:   o.UserID,
			Subject:  fmt.Sprintf("Your order #%d was delivered", o.ID),
			Template: "order-delivered",
		})
	}
	return o, nil
}
