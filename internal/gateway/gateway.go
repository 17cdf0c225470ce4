// Package gateway implements the client side of the hosted record API: flat
// record collections with fetch/create/update/delete operations and per-record
// batch results. All persistence in this application goes through a Client.
package gateway

import "context"

// Collection names a flat record set on the hosted API.
type Collection string

const (
	Contacts   Collection = "contacts"
	Deals      Collection = "deals"
	Tasks      Collection = "tasks"
	Activities Collection = "activities"
	Quotes     Collection = "quotes"
	LineItems  Collection = "line_items"
	Invoices   Collection = "invoices"
)

// Client is the external data gateway. Batch operations never collapse a
// partial failure: each record reports success or failure independently.
type Client interface {
	FetchRecords(ctx context.Context, collection Collection, q Query) ([]Record, error)
	GetRecordByID(ctx context.Context, collection Collection, id int, q Query) (Record, error)
	CreateRecords(ctx context.Context, collection Collection, records []Record) (BatchResult, error)
	UpdateRecords(ctx context.Context, collection Collection, records []Record) (BatchResult, error)
	DeleteRecords(ctx context.Context, collection Collection, ids []int) (BatchResult, error)
}

// Query restricts and orders a record fetch.
type Query struct {
	Fields  []string
	Where   []Condition
	OrderBy []Order
	Paging  *Paging
}

// Condition filters records on a single field.
type Condition struct {
	Field    string
	Operator string
	Values   []string
}

// Operators understood by the hosted API.
const (
	OpEqualTo  = "EqualTo"
	OpContains = "Contains"
)

// Order sorts a fetch by one field.
type Order struct {
	Field string
	Desc  bool
}

// Paging limits a fetch to a window of records.
type Paging struct {
	Limit  int
	Offset int
}

// Equals builds an equality condition.
func Equals(field, value string) Condition {
	return Condition{Field: field, Operator: OpEqualTo, Values: []string{value}}
}

// ContainsText builds a substring condition.
func ContainsText(field, value string) Condition {
	return Condition{Field: field, Operator: OpContains, Values: []string{value}}
}
