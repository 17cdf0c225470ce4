package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

func TestMemoryCreateAssignsIDsAndTimestamps(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	result, err := m.CreateRecords(ctx, Contacts, []Record{
		{"Name": "Ada"},
		{"Name": "Linus"},
	})
	require.NoError(t, err)
	require.NoError(t, result.Err())
	require.Len(t, result.Succeeded, 2)
	assert.Equal(t, 1, result.Succeeded[0].ID())
	assert.Equal(t, 2, result.Succeeded[1].ID())
	assert.NotEmpty(t, result.Succeeded[0].String("CreatedOn"))
	assert.NotEmpty(t, result.Succeeded[0].String("ModifiedOn"))
}

func TestMemoryGetRecordByID(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	created, err := m.CreateRecords(ctx, Contacts, []Record{{"Name": "Ada"}})
	require.NoError(t, err)

	rec, err := m.GetRecordByID(ctx, Contacts, created.First().ID(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.String("Name"))

	_, err = m.GetRecordByID(ctx, Contacts, 999, Query{})
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestMemoryFetchPreservesInsertionOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, name := range []string{"c", "a", "b"} {
		_, err := m.CreateRecords(ctx, Contacts, []Record{{"Name": name}})
		require.NoError(t, err)
	}

	records, err := m.FetchRecords(ctx, Contacts, Query{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].String("Name"))
	assert.Equal(t, "b", records[2].String("Name"))
}

func TestMemoryFetchWhereEqualTo(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.CreateRecords(ctx, Quotes, []Record{
		{"status": "Draft"},
		{"status": "Sent"},
		{"status": "Draft"},
	})
	require.NoError(t, err)

	records, err := m.FetchRecords(ctx, Quotes, Query{
		Where: []Condition{Equals("status", "Draft")},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryFetchWhereEqualToNumericField(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.CreateRecords(ctx, LineItems, []Record{
		{"quote_id": 7, "product_service": "A"},
		{"quote_id": 8, "product_service": "B"},
		{"quote_id": float64(7), "product_service": "C"},
	})
	require.NoError(t, err)

	records, err := m.FetchRecords(ctx, LineItems, Query{
		Where: []Condition{Equals("quote_id", "7")},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryFetchWhereContains(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.CreateRecords(ctx, Contacts, []Record{
		{"Name": "Acme Corp"},
		{"Name": "Globex"},
	})
	require.NoError(t, err)

	records, err := m.FetchRecords(ctx, Contacts, Query{
		Where: []Condition{ContainsText("Name", "acme")},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme Corp", records[0].String("Name"))
}

func TestMemoryFetchOrderByAndPaging(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.CreateRecords(ctx, Quotes, []Record{
		{"quote_number": "Q-2024-002", "grand_total": 50.0},
		{"quote_number": "Q-2024-001", "grand_total": 300.0},
		{"quote_number": "Q-2024-003", "grand_total": 100.0},
	})
	require.NoError(t, err)

	records, err := m.FetchRecords(ctx, Quotes, Query{
		OrderBy: []Order{{Field: "grand_total", Desc: true}},
		Paging:  &Paging{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Q-2024-001", records[0].String("quote_number"))
	assert.Equal(t, "Q-2024-003", records[1].String("quote_number"))
}

func TestMemoryUpdateMergesFields(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	created, err := m.CreateRecords(ctx, Quotes, []Record{{"status": "Draft", "notes": "keep me"}})
	require.NoError(t, err)
	id := created.First().ID()

	patch := Record{"status": "Sent"}
	patch.SetID(id)
	result, err := m.UpdateRecords(ctx, Quotes, []Record{patch})
	require.NoError(t, err)
	require.NoError(t, result.Err())

	rec, err := m.GetRecordByID(ctx, Quotes, id, Query{})
	require.NoError(t, err)
	assert.Equal(t, "Sent", rec.String("status"))
	assert.Equal(t, "keep me", rec.String("notes"), "unmentioned fields survive a partial update")
}

func TestMemoryUpdateUnknownIDFailsPerRecord(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	created, err := m.CreateRecords(ctx, Quotes, []Record{{"status": "Draft"}})
	require.NoError(t, err)

	good := Record{"status": "Sent"}
	good.SetID(created.First().ID())
	bad := Record{"status": "Sent"}
	bad.SetID(999)

	result, err := m.UpdateRecords(ctx, Quotes, []Record{good, bad})
	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 1, result.Failed[0].Index)

	var batchErr *BatchError
	require.True(t, errors.As(result.Err(), &batchErr))
	assert.Equal(t, 1, batchErr.SucceededCount)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	created, err := m.CreateRecords(ctx, Tasks, []Record{{"title": "a"}, {"title": "b"}})
	require.NoError(t, err)
	id := created.Succeeded[0].ID()

	result, err := m.DeleteRecords(ctx, Tasks, []int{id, 999})
	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 1)
	assert.Len(t, result.Failed, 1)

	records, err := m.FetchRecords(ctx, Tasks, Query{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].String("title"))
}

func TestMemoryReturnsClones(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	created, err := m.CreateRecords(ctx, Contacts, []Record{{"Name": "Ada"}})
	require.NoError(t, err)
	id := created.First().ID()

	rec, err := m.GetRecordByID(ctx, Contacts, id, Query{})
	require.NoError(t, err)
	rec["Name"] = "mutated"

	again, err := m.GetRecordByID(ctx, Contacts, id, Query{})
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.String("Name"))
}
