package lineitems

import (
	"fmt"

	"github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

// Fields accepted by Store.Update.
const (
	FieldProductOrService = "productOrService"
	FieldDescription      = "description"
	FieldQuantity         = "quantity"
	FieldUnitPrice        = "unitPrice"
)

// Store holds the ordered line items of a single quote. Every successful
// mutation recomputes the affected line total and synchronously notifies the
// owning quote before returning.
type Store struct {
	items    []LineItem
	notify   func(items []LineItem)
	assignID int
}

// NewStore builds a store over the quote's current items. onTotalsChanged may
// be nil; when set it runs synchronously after every successful mutation.
func NewStore(items []LineItem, onTotalsChanged func(items []LineItem)) *Store {
	s := &Store{notify: onTotalsChanged}
	s.items = make([]LineItem, len(items))
	copy(s.items, items)
	for _, item := range items {
		if item.ID > s.assignID {
			s.assignID = item.ID
		}
	}
	return s
}

// Items returns the ordered line items.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Totals derives the quote's totals snapshot from the current items.
func (s *Store) Totals(taxPercent, discounts float64) shared.Totals {
	return shared.CalculateTotals(LineTotals(s.items), taxPercent, discounts)
}

// Add validates and appends a line item, computing its line total. A rejected
// item reports every violated constraint in one InvalidLineItem error.
func (s *Store) Add(item LineItem) (LineItem, error) {
	var violations []string
	if item.ProductOrService == "" {
		violations = append(violations, "productOrService is required")
	}
	if item.Quantity <= 0 {
		violations = append(violations, "quantity must be greater than 0")
	}
	if item.UnitPrice < 0 {
		violations = append(violations, "unitPrice must not be negative")
	}
	if len(violations) > 0 {
		return LineItem{}, httpx.Invalid("InvalidLineItem", violations...)
	}

	item.Recalculate()
	if item.ID == 0 {
		s.assignID++
		item.ID = s.assignID
	}
	s.items = append(s.items, item)
	s.changed()
	return item, nil
}

// Update applies one field edit. Numeric fields are coerced
// parse-float-or-zero; the line total is recomputed when quantity or unit
// price change. An unknown id is a no-op reported as not found.
func (s *Store) Update(id int, field, value string) (LineItem, error) {
	idx := s.index(id)
	if idx < 0 {
		return LineItem{}, fmt.Errorf("line item %d: %w", id, httpx.ErrNotFound)
	}

	item := &s.items[idx]
	switch field {
	case FieldProductOrService:
		item.ProductOrService = value
	case FieldDescription:
		item.Description = value
	case FieldQuantity:
		item.Quantity = shared.ParseAmount(value)
		item.Recalculate()
	case FieldUnitPrice:
		item.UnitPrice = shared.ParseAmount(value)
		item.Recalculate()
	default:
		return LineItem{}, httpx.Invalid("InvalidLineItem", fmt.Sprintf("unknown field %q", field))
	}
	s.changed()
	return *item, nil
}

// Remove deletes a line item. Any confirmation happens at the UI boundary;
// the store deletes unconditionally.
func (s *Store) Remove(id int) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("line item %d: %w", id, httpx.ErrNotFound)
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.changed()
	return nil
}

func (s *Store) index(id int) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) changed() {
	if s.notify != nil {
		s.notify(s.Items())
	}
}
