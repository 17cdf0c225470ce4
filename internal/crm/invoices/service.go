package invoices

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/crm/lineitems"
	"github.com/vertex-crm/vertex-crm/internal/crm/quotes"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

const paymentTermDays = 30

// Service creates and reads invoices. Creation happens only through quote
// conversion.
type Service struct {
	gw     gateway.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewService(gw gateway.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gw: gw, logger: logger, now: time.Now}
}

var fetchFields = []string{
	"Id", "invoice_number", "quote_id", "customer_name", "invoice_date",
	"due_date", "subtotal", "tax_amount", "discounts", "grand_total",
	"notes", "CreatedOn",
}

// CreateFromQuote derives an invoice record from a quote and its line items.
// Implements quotes.InvoiceConverter.
func (s *Service) CreateFromQuote(ctx context.Context, q quotes.Quote, items []lineitems.LineItem) (int, error) {
	now := s.now()
	inv := Invoice{
		// The invoice inherits the quote's running number: Q-2025-001
		// converts to INV-2025-001.
		Number:       "INV-" + strings.TrimPrefix(q.Number, "Q-"),
		QuoteID:      q.ID,
		CustomerName: q.CustomerName,
		InvoiceDate:  now,
		DueDate:      now.AddDate(0, 0, paymentTermDays),
		Subtotal:     q.Subtotal,
		TaxAmount:    q.TaxAmount,
		Discounts:    q.Discounts,
		GrandTotal:   q.GrandTotal,
		Notes:        fmt.Sprintf("Converted from quote %s", q.Number),
	}

	result, err := s.gw.CreateRecords(ctx, gateway.Invoices, []gateway.Record{toRecord(inv)})
	if err != nil {
		return 0, err
	}
	if err := result.Err(); err != nil {
		return 0, err
	}

	created := fromRecord(result.First())
	s.logger.Info("invoice created from quote",
		slog.Int("quote_id", q.ID), slog.Int("invoice_id", created.ID), slog.Int("line_items", len(items)))
	return created.ID, nil
}

// List returns every invoice, newest first.
func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	records, err := s.gw.FetchRecords(ctx, gateway.Invoices, gateway.Query{
		Fields:  fetchFields,
		OrderBy: []gateway.Order{{Field: "invoice_date", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch invoices: %w", err)
	}
	invoices := make([]Invoice, 0, len(records))
	for _, rec := range records {
		invoices = append(invoices, fromRecord(rec))
	}
	return invoices, nil
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, id int) (*Invoice, error) {
	rec, err := s.gw.GetRecordByID(ctx, gateway.Invoices, id, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, err
	}
	inv := fromRecord(rec)
	return &inv, nil
}
