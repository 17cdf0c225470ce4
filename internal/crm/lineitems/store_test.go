package lineitems

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

func TestStoreAddComputesLineTotal(t *testing.T) {
	s := NewStore(nil, nil)
	item, err := s.Add(LineItem{ProductOrService: "Consulting", Quantity: 40, UnitPrice: 150})
	require.NoError(t, err)
	assert.InDelta(t, 6000.0, item.LineTotal, 1e-9)
	assert.Equal(t, 1, item.ID)
	assert.Len(t, s.Items(), 1)
}

func TestStoreAddReportsEveryViolation(t *testing.T) {
	s := NewStore(nil, nil)
	_, err := s.Add(LineItem{Quantity: 0, UnitPrice: -5})
	require.Error(t, err)

	var verr *httpx.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "InvalidLineItem", verr.Kind)
	assert.Len(t, verr.Violations, 3)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Empty(t, s.Items(), "rejected item must not be stored")
}

func TestStoreUpdateCoercesNumericInput(t *testing.T) {
	s := NewStore([]LineItem{{ID: 7, ProductOrService: "Widget", Quantity: 2, UnitPrice: 10, LineTotal: 20}}, nil)

	item, err := s.Update(7, FieldQuantity, "3")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, item.LineTotal, 1e-9)

	// Garbage parses to zero rather than failing.
	item, err = s.Update(7, FieldUnitPrice, "not-a-number")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, item.UnitPrice, 1e-9)
	assert.InDelta(t, 0.0, item.LineTotal, 1e-9)
}

func TestStoreUpdateUnknownIDIsNotFound(t *testing.T) {
	before := []LineItem{{ID: 1, ProductOrService: "Widget", Quantity: 1, UnitPrice: 5, LineTotal: 5}}
	s := NewStore(before, nil)

	_, err := s.Update(99, FieldQuantity, "2")
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
	assert.Equal(t, before, s.Items(), "failed update must not change the collection")
}

func TestStoreUpdateUnknownField(t *testing.T) {
	s := NewStore([]LineItem{{ID: 1, ProductOrService: "Widget", Quantity: 1, UnitPrice: 5}}, nil)
	_, err := s.Update(1, "color", "red")
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestStoreNotifiesSynchronously(t *testing.T) {
	var seen [][]LineItem
	s := NewStore(nil, func(items []LineItem) {
		seen = append(seen, items)
	})

	added, err := s.Add(LineItem{ProductOrService: "Widget", Quantity: 1, UnitPrice: 5})
	require.NoError(t, err)
	require.Len(t, seen, 1, "callback must fire before Add returns")

	_, err = s.Update(added.ID, FieldQuantity, "4")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.InDelta(t, 20.0, seen[1][0].LineTotal, 1e-9)

	require.NoError(t, s.Remove(added.ID))
	require.Len(t, seen, 3)
	assert.Empty(t, seen[2])
}

func TestStoreNoNotifyOnFailedMutation(t *testing.T) {
	calls := 0
	s := NewStore(nil, func([]LineItem) { calls++ })

	_, _ = s.Add(LineItem{})
	_, _ = s.Update(42, FieldQuantity, "1")
	_ = s.Remove(42)
	assert.Zero(t, calls)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore([]LineItem{
		{ID: 1, ProductOrService: "A", Quantity: 1, UnitPrice: 1},
		{ID: 2, ProductOrService: "B", Quantity: 1, UnitPrice: 1},
	}, nil)

	require.NoError(t, s.Remove(1))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)

	err := s.Remove(1)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestStoreTotals(t *testing.T) {
	s := NewStore(nil, nil)
	_, err := s.Add(LineItem{ProductOrService: "Design", Quantity: 40, UnitPrice: 150})
	require.NoError(t, err)
	_, err = s.Add(LineItem{ProductOrService: "Build", Quantity: 5, UnitPrice: 1950})
	require.NoError(t, err)

	totals := s.Totals(0, 0)
	assert.InDelta(t, 15750.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 15750.0, totals.GrandTotal, 1e-9)

	taxed := s.Totals(8.5, 200)
	assert.InDelta(t, 1338.75, taxed.TaxAmount, 1e-9)
	assert.InDelta(t, 16888.75, taxed.GrandTotal, 1e-9)
}
