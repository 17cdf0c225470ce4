package lineitems

import (
	"time"

	"github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

// LineItem is one priced row of a quote. LineTotal is derived from quantity
// and unit price and never hand-edited.
type LineItem struct {
	ID               int       `json:"id"`
	QuoteID          int       `json:"quoteId"`
	ProductOrService string    `json:"productOrService"`
	Description      string    `json:"description"`
	Quantity         float64   `json:"quantity"`
	UnitPrice        float64   `json:"unitPrice"`
	LineTotal        float64   `json:"lineTotal"`
	CreatedAt        time.Time `json:"createdAt,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt,omitempty"`
}

// Recalculate rederives LineTotal from the current quantity and unit price.
func (li *LineItem) Recalculate() {
	li.LineTotal = shared.LineTotal(li.Quantity, li.UnitPrice)
}

// LineTotals projects the items onto their totals, as consumed by the
// totals calculator.
func LineTotals(items []LineItem) []float64 {
	totals := make([]float64, len(items))
	for i, item := range items {
		totals[i] = item.LineTotal
	}
	return totals
}

func fromRecord(rec gateway.Record) LineItem {
	return LineItem{
		ID:               rec.ID(),
		QuoteID:          rec.RelationID("quote_id"),
		ProductOrService: rec.String("product_service"),
		Description:      rec.String("description"),
		Quantity:         rec.Float("quantity"),
		UnitPrice:        rec.Float("unit_price"),
		LineTotal:        rec.Float("line_total"),
		CreatedAt:        rec.Time("CreatedOn"),
		UpdatedAt:        rec.Time("ModifiedOn"),
	}
}

func toRecord(item LineItem) gateway.Record {
	rec := gateway.Record{
		"product_service": item.ProductOrService,
		"description":     item.Description,
		"quantity":        item.Quantity,
		"unit_price":      item.UnitPrice,
		"line_total":      item.LineTotal,
		"quote_id":        item.QuoteID,
	}
	if item.ID != 0 {
		rec.SetID(item.ID)
	}
	return rec
}
