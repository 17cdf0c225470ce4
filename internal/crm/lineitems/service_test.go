package lineitems

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

type recordingUpdater struct {
	quoteIDs []int
	err      error
}

func (u *recordingUpdater) RecomputeTotals(_ context.Context, quoteID int) error {
	u.quoteIDs = append(u.quoteIDs, quoteID)
	return u.err
}

func newLineService(t *testing.T) (*Service, *recordingUpdater) {
	t.Helper()
	repo := NewRepository(gateway.NewMemory())
	svc := NewService(repo, nil)
	updater := &recordingUpdater{}
	svc.SetTotalsUpdater(updater)
	return svc, updater
}

func TestServiceAddPersistsAndNotifies(t *testing.T) {
	svc, updater := newLineService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, 5, LineItem{ProductOrService: "Consulting", Quantity: 40, UnitPrice: 150})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, 5, item.QuoteID)
	assert.InDelta(t, 6000.0, item.LineTotal, 1e-9)
	assert.Equal(t, []int{5}, updater.quoteIDs, "totals recompute runs before Add returns")
}

func TestServiceAddInvalidNeverPersists(t *testing.T) {
	svc, updater := newLineService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 5, LineItem{Quantity: -1})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Empty(t, updater.quoteIDs)

	items, err := svc.ByQuote(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestServiceUpdateSingleField(t *testing.T) {
	svc, updater := newLineService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, 5, LineItem{ProductOrService: "Widget", Quantity: 2, UnitPrice: 10})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, FieldQuantity, "3")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, updated.LineTotal, 1e-9)
	assert.Equal(t, []int{5, 5}, updater.quoteIDs)
}

func TestServiceUpdateUnknownID(t *testing.T) {
	svc, updater := newLineService(t)

	_, err := svc.Update(context.Background(), 999, FieldQuantity, "3")
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
	assert.Empty(t, updater.quoteIDs)
}

func TestServiceRemove(t *testing.T) {
	svc, updater := newLineService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, 5, LineItem{ProductOrService: "Widget", Quantity: 1, UnitPrice: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, item.ID))
	items, err := svc.ByQuote(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, []int{5, 5}, updater.quoteIDs)
}

func TestServiceSurfacesRecomputeFailure(t *testing.T) {
	svc, updater := newLineService(t)
	updater.err = errors.New("totals write failed")

	_, err := svc.Add(context.Background(), 5, LineItem{ProductOrService: "Widget", Quantity: 1, UnitPrice: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recompute quote totals")
}
