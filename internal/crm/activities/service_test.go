package activities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

func newActivityService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(gateway.NewMemory(), nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestLogStampsMissingTimestamp(t *testing.T) {
	svc := newActivityService(t)

	created, err := svc.Log(context.Background(), Activity{Type: TypeCall, Subject: "Intro call"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), created.Timestamp)
}

func TestLogValidation(t *testing.T) {
	svc := newActivityService(t)

	_, err := svc.Log(context.Background(), Activity{Type: "carrier-pigeon"})
	var verr *httpx.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "InvalidActivity", verr.Kind)
	assert.Len(t, verr.Violations, 2)
}

func TestListNewestFirst(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	older := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	_, err := svc.Log(ctx, Activity{Type: TypeEmail, Subject: "old", Timestamp: older})
	require.NoError(t, err)
	_, err = svc.Log(ctx, Activity{Type: TypeEmail, Subject: "new", Timestamp: newer})
	require.NoError(t, err)

	page, err := svc.List(ctx, ListRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "new", page.Items[0].Subject)
}

func TestListFiltersByType(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	_, err := svc.Log(ctx, Activity{Type: TypeCall, Subject: "a call"})
	require.NoError(t, err)
	_, err = svc.Log(ctx, Activity{Type: TypeNote, Subject: "a note"})
	require.NoError(t, err)

	page, err := svc.List(ctx, ListRequest{Types: []string{TypeNote}, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "a note", page.Items[0].Subject)
}

func TestByContact(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	_, err := svc.Log(ctx, Activity{Type: TypeCall, Subject: "for 7", Contact: gateway.Relation{ID: 7}})
	require.NoError(t, err)
	_, err = svc.Log(ctx, Activity{Type: TypeCall, Subject: "for 8", Contact: gateway.Relation{ID: 8}})
	require.NoError(t, err)

	history, err := svc.ByContact(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "for 7", history[0].Subject)
	assert.Equal(t, 7, history[0].Contact.ID)
}

func TestDeleteActivity(t *testing.T) {
	svc := newActivityService(t)
	ctx := context.Background()

	created, err := svc.Log(ctx, Activity{Type: TypeMeeting, Subject: "kickoff"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}
