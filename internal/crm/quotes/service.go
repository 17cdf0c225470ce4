package quotes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/crm/lineitems"
	"github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/listview"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

// InvoiceConverter creates the invoice record derived from a quote.
type InvoiceConverter interface {
	CreateFromQuote(ctx context.Context, q Quote, items []lineitems.LineItem) (invoiceID int, err error)
}

// PartialConversionError reports a conversion whose invoice was created but
// whose quote status update failed, leaving the invoice orphaned. The orphan
// is named rather than silently lost.
type PartialConversionError struct {
	QuoteID   int
	InvoiceID int
	Err       error
}

func (e *PartialConversionError) Error() string {
	return fmt.Sprintf("quote %d partially converted: invoice %d created but status update failed: %v",
		e.QuoteID, e.InvoiceID, e.Err)
}

func (e *PartialConversionError) Unwrap() error { return e.Err }

// quoteView wires the quote listing into the list view engine: search over
// customer name and quote number; status membership filter; typed sort keys.
var quoteView = listview.View[Quote]{
	SearchText: []func(Quote) string{
		func(q Quote) string { return q.CustomerName },
		func(q Quote) string { return q.Number },
	},
	Status: func(q Quote) string { return string(q.Status) },
	SortKeys: map[string]listview.SortKey[Quote]{
		"date":       {Kind: listview.Date, Date: func(q Quote) time.Time { return q.QuoteDate }},
		"expiration": {Kind: listview.Date, Date: func(q Quote) time.Time { return q.ExpirationDate }},
		"amount":     {Kind: listview.Number, Number: func(q Quote) float64 { return q.GrandTotal }},
		"customer":   {Kind: listview.Text, Text: func(q Quote) string { return q.CustomerName }},
		"number":     {Kind: listview.Text, Text: func(q Quote) string { return q.Number }},
		"status":     {Kind: listview.Text, Text: func(q Quote) string { return string(q.Status) }},
	},
}

// Service implements the quote operations: CRUD, listing, the status
// workflow, totals recompute, and quote-to-invoice conversion.
type Service struct {
	repo      *Repository
	lines     *lineitems.Repository
	converter InvoiceConverter
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo *Repository, lines *lineitems.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, lines: lines, logger: logger, now: time.Now}
}

// SetInvoiceConverter wires the invoice side of conversion in.
func (s *Service) SetInvoiceConverter(c InvoiceConverter) { s.converter = c }

// Create validates the header and stores a new Draft quote with zero totals.
func (s *Service) Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error) {
	if err := validateHeader(req.QuoteDate, req.ExpirationDate, req.TaxPercent, req.Discounts); err != nil {
		return nil, err
	}

	numbers, err := s.repo.Numbers(ctx)
	if err != nil {
		return nil, err
	}

	quote := Quote{
		Number:         NextNumber(numbers, s.now().Year()),
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		QuoteDate:      req.QuoteDate,
		ExpirationDate: req.ExpirationDate,
		Status:         StatusDraft,
		TaxPercent:     req.TaxPercent,
		Discounts:      req.Discounts,
		Notes:          req.Notes,
		Tags:           req.Tags,
	}
	return s.repo.Create(ctx, quote)
}

// Get returns one quote.
func (s *Service) Get(ctx context.Context, id int) (*Quote, error) {
	return s.repo.Get(ctx, id)
}

// GetWithItems returns one quote together with its line items.
func (s *Service) GetWithItems(ctx context.Context, id int) (*Quote, []lineitems.LineItem, error) {
	quote, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.lines.ByQuote(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return quote, items, nil
}

// Update applies header edits. A tax or discount change forces a totals
// recompute from the current line items.
func (s *Service) Update(ctx context.Context, id int, req UpdateQuoteRequest) (*Quote, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		existing.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		existing.CustomerEmail = *req.CustomerEmail
	}
	if req.QuoteDate != nil {
		existing.QuoteDate = *req.QuoteDate
	}
	if req.ExpirationDate != nil {
		existing.ExpirationDate = *req.ExpirationDate
	}
	recompute := false
	if req.TaxPercent != nil {
		existing.TaxPercent = *req.TaxPercent
		recompute = true
	}
	if req.Discounts != nil {
		existing.Discounts = *req.Discounts
		recompute = true
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}
	if req.Tags != nil {
		existing.Tags = *req.Tags
	}

	if err := validateHeader(existing.QuoteDate, existing.ExpirationDate, existing.TaxPercent, existing.Discounts); err != nil {
		return nil, err
	}

	if recompute {
		items, err := s.lines.ByQuote(ctx, id)
		if err != nil {
			return nil, err
		}
		totals := shared.CalculateTotals(lineitems.LineTotals(items), existing.TaxPercent, existing.Discounts)
		existing.Subtotal = totals.Subtotal
		existing.TaxAmount = totals.TaxAmount
		existing.GrandTotal = totals.GrandTotal
	}

	return s.repo.Update(ctx, *existing)
}

// Delete removes the quote and the line items it owns. Confirmation happens
// at the UI boundary; the service deletes unconditionally.
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.lines.DeleteByQuote(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List derives the visible page from the full collection.
func (s *Service) List(ctx context.Context, req ListQuotesRequest) (listview.Page[Quote], error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return listview.Page[Quote]{}, err
	}

	sortField := req.SortField
	if sortField == "" {
		sortField = "date"
		if req.SortDir == "" {
			req.SortDir = "desc"
		}
	}

	params := listview.Params{
		Query:     req.Query,
		Statuses:  req.Statuses,
		SortField: sortField,
		Direction: listview.ParseDirection(req.SortDir),
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	// The engine does not clamp out-of-range pages; clamp here.
	if params.PageSize > 0 {
		meta := listview.Pages(len(all), params.PageSize)
		if meta > 0 && params.Page > meta {
			params.Page = meta
		}
	}
	return quoteView.Apply(all, params), nil
}

// ListStats summarizes the collection for the listing header.
func (s *Service) ListStats(ctx context.Context) (Stats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	stats.Total = len(all)
	for _, q := range all {
		switch q.Status {
		case StatusDraft:
			stats.Draft++
		case StatusSent:
			stats.Sent++
		case StatusAccepted:
			stats.Accepted++
			stats.AcceptedValue += q.GrandTotal
		case StatusRejected:
			stats.Rejected++
		case StatusExpired:
			stats.Expired++
		case StatusConverted:
			stats.Converted++
		}
	}
	stats.AcceptedValue = shared.Round2(stats.AcceptedValue)
	return stats, nil
}

// SetStatus applies a status change, validating membership only.
func (s *Service) SetStatus(ctx context.Context, id int, status string) (*Quote, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := existing.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, existing.Status); err != nil {
		return nil, err
	}
	return existing, nil
}

// Send transitions the quote to Sent. A quote without line items cannot be
// sent and stays in its current status.
func (s *Service) Send(ctx context.Context, id int) (*Quote, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.lines.ByQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := existing.Send(len(items)); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusSent); err != nil {
		return nil, err
	}
	return existing, nil
}

// RecomputeTotals is the owning quote's totals-changed callback: it rederives
// the totals snapshot from the quote's current line items and persists it.
func (s *Service) RecomputeTotals(ctx context.Context, quoteID int) error {
	quote, err := s.repo.Get(ctx, quoteID)
	if err != nil {
		return err
	}
	items, err := s.lines.ByQuote(ctx, quoteID)
	if err != nil {
		return err
	}
	totals := shared.CalculateTotals(lineitems.LineTotals(items), quote.TaxPercent, quote.Discounts)
	return s.repo.UpdateTotals(ctx, quoteID, totals)
}

// ConvertToInvoice derives an invoice from the quote, then marks the quote
// Converted. The two writes are independent; if the second fails the result
// is surfaced as a partial conversion naming the orphan invoice.
func (s *Service) ConvertToInvoice(ctx context.Context, id int) (int, error) {
	if s.converter == nil {
		return 0, errors.New("invoice conversion not configured")
	}

	quote, items, err := s.GetWithItems(ctx, id)
	if err != nil {
		return 0, err
	}
	if quote.Status == StatusConverted {
		return 0, httpx.Invalid("AlreadyConverted", fmt.Sprintf("quote %s was already converted", quote.Number))
	}

	invoiceID, err := s.converter.CreateFromQuote(ctx, *quote, items)
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusConverted); err != nil {
		s.logger.Error("quote conversion left orphan invoice",
			slog.Int("quote_id", id), slog.Int("invoice_id", invoiceID), slog.Any("error", err))
		return invoiceID, &PartialConversionError{QuoteID: id, InvoiceID: invoiceID, Err: err}
	}
	return invoiceID, nil
}

func validateHeader(quoteDate, expirationDate time.Time, taxPercent, discounts float64) error {
	var violations []string
	if !expirationDate.After(quoteDate) {
		violations = append(violations, "expirationDate must be strictly after quoteDate")
	}
	if taxPercent < 0 || taxPercent > 100 {
		violations = append(violations, "taxPercent must be between 0 and 100")
	}
	if discounts < 0 {
		violations = append(violations, "discounts must not be negative")
	}
	if len(violations) > 0 {
		return httpx.Invalid("InvalidQuote", violations...)
	}
	return nil
}
