package quotes

import (
	"context"
	"fmt"

	"github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

var fetchFields = []string{
	"Id", "quote_number", "customer_name", "customer_email",
	"quote_date", "expiration_date", "status", "tax_percent", "discounts",
	"subtotal", "tax_amount", "grand_total", "notes", "Tags",
	"CreatedOn", "ModifiedOn",
}

// Repository persists quotes through the external data gateway.
type Repository struct {
	gw gateway.Client
}

func NewRepository(gw gateway.Client) *Repository {
	return &Repository{gw: gw}
}

// List fetches the full quote collection, newest first. Filtering, sorting
// and pagination of the listing happen client-side in the list view engine.
func (r *Repository) List(ctx context.Context) ([]Quote, error) {
	records, err := r.gw.FetchRecords(ctx, gateway.Quotes, gateway.Query{
		Fields:  fetchFields,
		OrderBy: []gateway.Order{{Field: "quote_date", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	quotes := make([]Quote, 0, len(records))
	for _, rec := range records {
		quotes = append(quotes, fromRecord(rec))
	}
	return quotes, nil
}

// Get returns one quote.
func (r *Repository) Get(ctx context.Context, id int) (*Quote, error) {
	rec, err := r.gw.GetRecordByID(ctx, gateway.Quotes, id, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, err
	}
	q := fromRecord(rec)
	return &q, nil
}

// Create inserts a quote and returns the stored copy.
func (r *Repository) Create(ctx context.Context, q Quote) (*Quote, error) {
	result, err := r.gw.CreateRecords(ctx, gateway.Quotes, []gateway.Record{toRecord(q)})
	if err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	created := fromRecord(result.First())
	return &created, nil
}

// Update replaces the quote's stored fields.
func (r *Repository) Update(ctx context.Context, q Quote) (*Quote, error) {
	result, err := r.gw.UpdateRecords(ctx, gateway.Quotes, []gateway.Record{toRecord(q)})
	if err != nil {
		return nil, fmt.Errorf("update quote: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	updated := fromRecord(result.First())
	return &updated, nil
}

// UpdateStatus writes only the status field. The stored literal keeps its
// exact capitalization.
func (r *Repository) UpdateStatus(ctx context.Context, id int, status Status) error {
	rec := gateway.Record{"status": string(status)}
	rec.SetID(id)
	result, err := r.gw.UpdateRecords(ctx, gateway.Quotes, []gateway.Record{rec})
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	return result.Err()
}

// UpdateTotals writes only the derived totals snapshot.
func (r *Repository) UpdateTotals(ctx context.Context, id int, totals shared.Totals) error {
	rec := gateway.Record{
		"subtotal":    totals.Subtotal,
		"tax_amount":  totals.TaxAmount,
		"grand_total": totals.GrandTotal,
	}
	rec.SetID(id)
	result, err := r.gw.UpdateRecords(ctx, gateway.Quotes, []gateway.Record{rec})
	if err != nil {
		return fmt.Errorf("update quote totals: %w", err)
	}
	return result.Err()
}

// Delete removes one quote record.
func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.gw.DeleteRecords(ctx, gateway.Quotes, []int{id})
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return result.Err()
}

// Numbers returns every stored quote number, for number generation.
func (r *Repository) Numbers(ctx context.Context) ([]string, error) {
	records, err := r.gw.FetchRecords(ctx, gateway.Quotes, gateway.Query{
		Fields: []string{"Id", "quote_number"},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch quote numbers: %w", err)
	}
	numbers := make([]string, 0, len(records))
	for _, rec := range records {
		numbers = append(numbers, rec.String("quote_number"))
	}
	return numbers, nil
}
