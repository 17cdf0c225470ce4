package lineitems

// CreateLineItemRequest is the add-row payload.
type CreateLineItemRequest struct {
	QuoteID          int     `json:"quoteId" validate:"required,gt=0"`
	ProductOrService string  `json:"productOrService" validate:"required"`
	Description      string  `json:"description"`
	Quantity         float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice        float64 `json:"unitPrice" validate:"gte=0"`
}

// UpdateLineItemRequest is a single field edit, the way the line item grid
// submits changes.
type UpdateLineItemRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}
