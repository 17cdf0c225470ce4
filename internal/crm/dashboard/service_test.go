package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertex-crm/vertex-crm/internal/crm/activities"
	"github.com/vertex-crm/vertex-crm/internal/crm/contacts"
	"github.com/vertex-crm/vertex-crm/internal/crm/deals"
	"github.com/vertex-crm/vertex-crm/internal/crm/lineitems"
	"github.com/vertex-crm/vertex-crm/internal/crm/quotes"
	"github.com/vertex-crm/vertex-crm/internal/crm/tasks"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

func TestOverview(t *testing.T) {
	gw := gateway.NewMemory()
	ctx := context.Background()

	contactSvc := contacts.NewService(gw, nil)
	dealSvc := deals.NewService(gw, nil)
	taskSvc := tasks.NewService(gw, nil)
	activitySvc := activities.NewService(gw, nil)
	quoteSvc := quotes.NewService(quotes.NewRepository(gw), lineitems.NewRepository(gw), nil)

	_, err := contactSvc.Create(ctx, contacts.Contact{FirstName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = contactSvc.Create(ctx, contacts.Contact{FirstName: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	_, err = dealSvc.Create(ctx, deals.Deal{Title: "open", Value: 1200, Stage: deals.StageLead})
	require.NoError(t, err)
	_, err = dealSvc.Create(ctx, deals.Deal{Title: "won", Value: 9000, Stage: deals.StageWon})
	require.NoError(t, err)

	_, err = taskSvc.Create(ctx, tasks.Task{Title: "call back"})
	require.NoError(t, err)

	_, err = activitySvc.Log(ctx, activities.Activity{
		Type: activities.TypeCall, Subject: "intro",
		Timestamp: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = quoteSvc.Create(ctx, quotes.CreateQuoteRequest{
		CustomerName:   "Acme",
		QuoteDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	svc := NewService(gw, dealSvc, taskSvc, quoteSvc, activitySvc, nil)
	ov, err := svc.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, ov.ContactCount)
	assert.Equal(t, 1, ov.OpenTaskCount)
	assert.InDelta(t, 1200.0, ov.PipelineValue, 1e-9)
	assert.Equal(t, 1, ov.Quotes.Total)
	assert.Equal(t, 1, ov.Quotes.Draft)
	require.Len(t, ov.Recent, 1)
	assert.Equal(t, "intro", ov.Recent[0].Subject)
}

func TestOverviewPropagatesFailure(t *testing.T) {
	gw := gateway.NewMemory()
	failing := &failingDeals{}
	svc := NewService(gw, failing, tasks.NewService(gw, nil),
		quotes.NewService(quotes.NewRepository(gw), lineitems.NewRepository(gw), nil),
		activities.NewService(gw, nil), nil)

	_, err := svc.Overview(context.Background())
	assert.Error(t, err)
}

type failingDeals struct{}

func (failingDeals) PipelineValue(context.Context) (float64, error) {
	return 0, assert.AnError
}
