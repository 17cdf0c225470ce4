package contacts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

func newContactService(t *testing.T) *Service {
	t.Helper()
	return NewService(gateway.NewMemory(), nil)
}

func seed(t *testing.T, svc *Service, contacts ...Contact) []Contact {
	t.Helper()
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		created, err := svc.Create(context.Background(), c)
		require.NoError(t, err)
		out = append(out, *created)
	}
	return out
}

func TestContactCRUD(t *testing.T) {
	svc := newContactService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName())

	got.Company = "Analytical Engines"
	updated, err := svc.Update(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, "Analytical Engines", updated.Company)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestContactListSearchAndSort(t *testing.T) {
	svc := newContactService(t)
	seed(t, svc,
		Contact{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.example", Company: "Navy"},
		Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Company: "Analytical Engines"},
		Contact{FirstName: "Alan", LastName: "Turing", Email: "alan@bletchley.example", Company: "GCHQ"},
	)

	page, err := svc.List(context.Background(), ListRequest{PageSize: 10, Page: 1})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	// Default sort is by name.
	assert.Equal(t, "Ada Lovelace", page.Items[0].FullName())

	found, err := svc.List(context.Background(), ListRequest{Query: "bletchley", PageSize: 10, Page: 1})
	require.NoError(t, err)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "Alan Turing", found.Items[0].FullName())
}

func TestExportCSV(t *testing.T) {
	svc := newContactService(t)
	seed(t, svc,
		Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Tags: []string{"vip", "early"}},
	)

	data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "First Name")
	assert.Contains(t, lines[1], "ada@example.com")
	assert.Contains(t, lines[1], `"vip,early"`)
}

func TestContactNameFallsBackToEmail(t *testing.T) {
	svc := newContactService(t)
	created := seed(t, svc, Contact{Email: "anon@example.com"})

	got, err := svc.Get(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.Empty(t, got.FullName())
	assert.Equal(t, "anon@example.com", got.Email)
}
