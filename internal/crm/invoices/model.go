package invoices

import (
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

// Invoice is the one-way product of quote conversion. It keeps a reference to
// its source quote; the quote holds no back-reference.
type Invoice struct {
	ID           int       `json:"id"`
	Number       string    `json:"number"`
	QuoteID      int       `json:"quoteId"`
	CustomerName string    `json:"customerName"`
	InvoiceDate  time.Time `json:"invoiceDate"`
	DueDate      time.Time `json:"dueDate"`
	Subtotal     float64   `json:"subtotal"`
	TaxAmount    float64   `json:"taxAmount"`
	Discounts    float64   `json:"discounts"`
	GrandTotal   float64   `json:"grandTotal"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

func fromRecord(rec gateway.Record) Invoice {
	return Invoice{
		ID:           rec.ID(),
		Number:       rec.String("invoice_number"),
		QuoteID:      rec.RelationID("quote_id"),
		CustomerName: rec.String("customer_name"),
		InvoiceDate:  rec.Time("invoice_date"),
		DueDate:      rec.Time("due_date"),
		Subtotal:     rec.Float("subtotal"),
		TaxAmount:    rec.Float("tax_amount"),
		Discounts:    rec.Float("discounts"),
		GrandTotal:   rec.Float("grand_total"),
		Notes:        rec.String("notes"),
		CreatedAt:    rec.Time("CreatedOn"),
	}
}

func toRecord(inv Invoice) gateway.Record {
	rec := gateway.Record{
		"invoice_number": inv.Number,
		"quote_id":       inv.QuoteID,
		"customer_name":  inv.CustomerName,
		"invoice_date":   inv.InvoiceDate.Format("2006-01-02"),
		"due_date":       inv.DueDate.Format("2006-01-02"),
		"subtotal":       inv.Subtotal,
		"tax_amount":     inv.TaxAmount,
		"discounts":      inv.Discounts,
		"grand_total":    inv.GrandTotal,
		"notes":          inv.Notes,
	}
	if inv.ID != 0 {
		rec.SetID(inv.ID)
	}
	return rec
}
