// Storefront inventory: merchandise records and their availability rules.
package store

import (
	"sort"
	"strings"

	"github.com/hexforge/go-academy-backend/internal/domain"
)

// CreateMerchandise stores a new merchandise record. Inventory and
// availability are taken as given; the one-way availability rule only
// applies to later order-item writes.
func (s *Store) CreateMerchandise(in domain.Merchandise) domain.Merchandise {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.merchSeq++
	in.ID = s.merchSeq
	in.CreatedAt = s.now()
	in.DiscountPrice = cloneFloat(in.DiscountPrice)
	s.merchandise[in.ID] = in
	return copyMerchandise(in)
}

// GetMerchandise looks up a merchandise record by id.
func (s *Store) GetMerchandise(id int) (domain.Merchandise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.merchandise[id]
	if !ok {
		return domain.Merchandise{}, false
	}
	return copyMerchandise(m), true
}

// ListMerchandise returns every stored merchandise record in id order.
func (s *Store) ListMerchandise() []domain.Merchandise {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Merchandise, 0, len(s.merchandise))
	for _, m := range s.merchandise {
		out = append(out, copyMerchandise(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MerchandiseByCategory filters merchandise by category, case-insensitively.
func (s *Store) MerchandiseByCategory(category string) []domain.Merchandise {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Merchandise{}
	for _, m := range s.merchandise {
		if strings.EqualFold(m.Category, category) {
			out = append(out, copyMerchandise(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func copyMerchandise(m domain.Merchandise) domain.Merchandise {
	m.DiscountPrice = cloneFloat(m.DiscountPrice)
	return m
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
