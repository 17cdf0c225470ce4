package quotes

import "time"

type CreateQuoteRequest struct {
	CustomerName   string    `json:"customerName" validate:"required"`
	CustomerEmail  string    `json:"customerEmail" validate:"omitempty,email"`
	QuoteDate      time.Time `json:"quoteDate" validate:"required"`
	ExpirationDate time.Time `json:"expirationDate" validate:"required"`
	TaxPercent     float64   `json:"taxPercent" validate:"gte=0,lte=100"`
	Discounts      float64   `json:"discounts" validate:"gte=0"`
	Notes          string    `json:"notes"`
	Tags           []string  `json:"tags"`
}

type UpdateQuoteRequest struct {
	CustomerName   *string    `json:"customerName,omitempty"`
	CustomerEmail  *string    `json:"customerEmail,omitempty" validate:"omitempty,email"`
	QuoteDate      *time.Time `json:"quoteDate,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	TaxPercent     *float64   `json:"taxPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Discounts      *float64   `json:"discounts,omitempty" validate:"omitempty,gte=0"`
	Notes          *string    `json:"notes,omitempty"`
	Tags           *[]string  `json:"tags,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListQuotesRequest selects the visible page of the quote listing.
type ListQuotesRequest struct {
	Query     string   `json:"query"`
	Statuses  []string `json:"statuses"`
	SortField string   `json:"sortField"`
	SortDir   string   `json:"sortDir"`
	Page      int      `json:"page" validate:"gte=0"`
	PageSize  int      `json:"pageSize" validate:"gte=0,lte=1000"`
}

// Stats summarizes the whole collection for the listing header.
type Stats struct {
	Total         int     `json:"total"`
	Draft         int     `json:"draft"`
	Sent          int     `json:"sent"`
	Accepted      int     `json:"accepted"`
	Rejected      int     `json:"rejected"`
	Expired       int     `json:"expired"`
	Converted     int     `json:"converted"`
	AcceptedValue float64 `json:"acceptedValue"`
}
