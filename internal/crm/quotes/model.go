package quotes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

// Status is the quote's lifecycle label. The stored value is capitalized
// exactly; comparisons at the UI boundary are case-insensitive.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusSent     Status = "Sent"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"
	StatusExpired  Status = "Expired"

	// StatusConverted is a terminal pseudo-state reached only through
	// quote-to-invoice conversion, distinct from the five customer-facing
	// statuses.
	StatusConverted Status = "Converted"
)

var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrEmptyQuote    = errors.New("quote has no line items")
)

// customerStatuses are the values setStatus accepts.
var customerStatuses = []Status{StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired}

// ParseStatus canonicalizes a status string, accepting any casing.
func ParseStatus(s string) (Status, error) {
	for _, known := range customerStatuses {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Quote aggregates the header fields and the computed totals. Subtotal and
// GrandTotal are derived from line items, tax percent and discounts; they are
// never hand-edited.
type Quote struct {
	ID             int       `json:"id"`
	Number         string    `json:"number"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail,omitempty"`
	QuoteDate      time.Time `json:"quoteDate"`
	ExpirationDate time.Time `json:"expirationDate"`
	Status         Status    `json:"status"`
	TaxPercent     float64   `json:"taxPercent"`
	Discounts      float64   `json:"discounts"`
	Subtotal       float64   `json:"subtotal"`
	TaxAmount      float64   `json:"taxAmount"`
	GrandTotal     float64   `json:"grandTotal"`
	Notes          string    `json:"notes,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// SetStatus validates membership in the allowed set and applies the status.
// Ordering between statuses is advisory only; any status is reachable from
// any other. The one guarded transition is Send.
func (q *Quote) SetStatus(s string) error {
	status, err := ParseStatus(s)
	if err != nil {
		return err
	}
	q.Status = status
	return nil
}

// Send marks the quote Sent. A quote without line items cannot be sent.
func (q *Quote) Send(lineItemCount int) error {
	if lineItemCount == 0 {
		return ErrEmptyQuote
	}
	q.Status = StatusSent
	return nil
}

// IsExpired reports whether the expiration date has passed. Advisory only:
// nothing ever demotes a stored quote to Expired automatically.
func (q Quote) IsExpired(now time.Time) bool {
	return !q.ExpirationDate.IsZero() && now.After(q.ExpirationDate)
}

// ExpiringSoon flags quotes within three days of expiring, for the listing UI.
func (q Quote) ExpiringSoon(now time.Time) bool {
	if q.ExpirationDate.IsZero() || q.IsExpired(now) {
		return false
	}
	return q.ExpirationDate.Sub(now) <= 3*24*time.Hour
}

func fromRecord(rec gateway.Record) Quote {
	return Quote{
		ID:             rec.ID(),
		Number:         rec.String("quote_number"),
		CustomerName:   rec.String("customer_name"),
		CustomerEmail:  rec.String("customer_email"),
		QuoteDate:      rec.Time("quote_date"),
		ExpirationDate: rec.Time("expiration_date"),
		Status:         Status(rec.String("status")),
		TaxPercent:     rec.Float("tax_percent"),
		Discounts:      rec.Float("discounts"),
		Subtotal:       rec.Float("subtotal"),
		TaxAmount:      rec.Float("tax_amount"),
		GrandTotal:     rec.Float("grand_total"),
		Notes:          rec.String("notes"),
		Tags:           rec.Tags("Tags"),
		CreatedAt:      rec.Time("CreatedOn"),
		UpdatedAt:      rec.Time("ModifiedOn"),
	}
}

func toRecord(q Quote) gateway.Record {
	rec := gateway.Record{
		"quote_number":    q.Number,
		"customer_name":   q.CustomerName,
		"customer_email":  q.CustomerEmail,
		"quote_date":      q.QuoteDate.Format("2006-01-02"),
		"expiration_date": q.ExpirationDate.Format("2006-01-02"),
		"status":          string(q.Status),
		"tax_percent":     q.TaxPercent,
		"discounts":       q.Discounts,
		"subtotal":        q.Subtotal,
		"tax_amount":      q.TaxAmount,
		"grand_total":     q.GrandTotal,
		"notes":           q.Notes,
		"Tags":            strings.Join(q.Tags, ","),
	}
	if q.ID != 0 {
		rec.SetID(q.ID)
	}
	return rec
}
