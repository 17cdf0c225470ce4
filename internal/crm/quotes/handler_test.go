package quotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertex-crm/vertex-crm/internal/crm/lineitems"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

func newTestRouter(t *testing.T) (chi.Router, *Service, *lineitems.Repository) {
	t.Helper()
	gw := gateway.NewMemory()
	lines := lineitems.NewRepository(gw)
	svc := NewService(NewRepository(gw), lines, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	NewHandler(nil, svc).MountRoutes(r)
	return r, svc, lines
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"customerName": "Acme Corp",
	"customerEmail": "buyer@acme.example",
	"quoteDate": "2024-06-01T00:00:00Z",
	"expirationDate": "2024-07-01T00:00:00Z",
	"taxPercent": 8.5
}`

func TestHandlerCreateAndShow(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/quotes", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Q-2024-001", created.Number)
	assert.Equal(t, StatusDraft, created.Status)

	show := doJSON(t, router, http.MethodGet, "/quotes/1", "")
	require.Equal(t, http.StatusOK, show.Code)
	var detail struct {
		Quote     Quote                `json:"quote"`
		LineItems []lineitems.LineItem `json:"lineItems"`
	}
	require.NoError(t, json.Unmarshal(show.Body.Bytes(), &detail))
	assert.Equal(t, "Acme Corp", detail.Quote.CustomerName)
	assert.Empty(t, detail.LineItems)
}

func TestHandlerCreateRejectsMissingFields(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/quotes", `{"customerName": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListWithPagination(t *testing.T) {
	router, _, _ := newTestRouter(t)
	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/quotes", createBody)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/quotes?page=2&pageSize=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Quotes, 1)
	assert.Equal(t, 3, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestHandlerUpdateStatus(t *testing.T) {
	router, _, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/quotes", createBody).Code)

	ok := doJSON(t, router, http.MethodPost, "/quotes/1/status", `{"status":"accepted"}`)
	require.Equal(t, http.StatusOK, ok.Code)
	var q Quote
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &q))
	assert.Equal(t, StatusAccepted, q.Status)

	bad := doJSON(t, router, http.MethodPost, "/quotes/1/status", `{"status":"Shipped"}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Contains(t, bad.Body.String(), "InvalidStatus")
}

func TestHandlerSendEmptyQuote(t *testing.T) {
	router, _, lines := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/quotes", createBody).Code)

	rec := doJSON(t, router, http.MethodPost, "/quotes/1/send", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EmptyQuote")

	item := lineitems.LineItem{QuoteID: 1, ProductOrService: "Widget", Quantity: 1, UnitPrice: 10}
	item.Recalculate()
	_, err := lines.Create(context.Background(), item)
	require.NoError(t, err)

	sent := doJSON(t, router, http.MethodPost, "/quotes/1/send", "")
	assert.Equal(t, http.StatusOK, sent.Code)
}

func TestHandlerConvert(t *testing.T) {
	router, svc, _ := newTestRouter(t)
	svc.SetInvoiceConverter(&stubConverter{nextID: 12})
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/quotes", createBody).Code)

	rec := doJSON(t, router, http.MethodPost, "/quotes/1/convert", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"invoiceId":12}`, rec.Body.String())

	again := doJSON(t, router, http.MethodPost, "/quotes/1/convert", "")
	assert.Equal(t, http.StatusBadRequest, again.Code)
	assert.Contains(t, again.Body.String(), "AlreadyConverted")
}

func TestHandlerDelete(t *testing.T) {
	router, _, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/quotes", createBody).Code)

	rec := doJSON(t, router, http.MethodDelete, "/quotes/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	gone := doJSON(t, router, http.MethodGet, "/quotes/1", "")
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestHandlerInvalidID(t *testing.T) {
	router, _, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/quotes/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
