package lineitems

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

var fetchFields = []string{
	"Id", "product_service", "description", "quantity",
	"unit_price", "line_total", "quote_id", "CreatedOn", "ModifiedOn",
}

// Repository persists line items through the external data gateway.
type Repository struct {
	gw gateway.Client
}

func NewRepository(gw gateway.Client) *Repository {
	return &Repository{gw: gw}
}

// ByQuote returns the quote's line items in creation order.
func (r *Repository) ByQuote(ctx context.Context, quoteID int) ([]LineItem, error) {
	records, err := r.gw.FetchRecords(ctx, gateway.LineItems, gateway.Query{
		Fields:  fetchFields,
		Where:   []gateway.Condition{gateway.Equals("quote_id", strconv.Itoa(quoteID))},
		OrderBy: []gateway.Order{{Field: "CreatedOn"}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch line items: %w", err)
	}
	items := make([]LineItem, 0, len(records))
	for _, rec := range records {
		items = append(items, fromRecord(rec))
	}
	return items, nil
}

// Get returns one line item.
func (r *Repository) Get(ctx context.Context, id int) (*LineItem, error) {
	rec, err := r.gw.GetRecordByID(ctx, gateway.LineItems, id, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, err
	}
	item := fromRecord(rec)
	return &item, nil
}

// Create inserts one line item and returns the stored copy.
func (r *Repository) Create(ctx context.Context, item LineItem) (*LineItem, error) {
	result, err := r.gw.CreateRecords(ctx, gateway.LineItems, []gateway.Record{toRecord(item)})
	if err != nil {
		return nil, fmt.Errorf("create line item: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	created := fromRecord(result.First())
	return &created, nil
}

// Update replaces the item's stored fields.
func (r *Repository) Update(ctx context.Context, item LineItem) (*LineItem, error) {
	result, err := r.gw.UpdateRecords(ctx, gateway.LineItems, []gateway.Record{toRecord(item)})
	if err != nil {
		return nil, fmt.Errorf("update line item: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	updated := fromRecord(result.First())
	return &updated, nil
}

// Delete removes one line item.
func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.gw.DeleteRecords(ctx, gateway.LineItems, []int{id})
	if err != nil {
		return fmt.Errorf("delete line item: %w", err)
	}
	return result.Err()
}

// DeleteByQuote removes every line item owned by the quote. Deleting a quote
// deletes its line items.
func (r *Repository) DeleteByQuote(ctx context.Context, quoteID int) error {
	items, err := r.ByQuote(ctx, quoteID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	result, err := r.gw.DeleteRecords(ctx, gateway.LineItems, ids)
	if err != nil {
		return fmt.Errorf("delete quote line items: %w", err)
	}
	return result.Err()
}
