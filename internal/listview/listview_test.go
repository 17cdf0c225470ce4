package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	Name   string
	Email  string
	Status string
	Amount float64
	Date   time.Time
}

var rowView = View[row]{
	SearchText: []func(row) string{
		func(r row) string { return r.Name },
		func(r row) string { return r.Email },
	},
	Status: func(r row) string { return r.Status },
	SortKeys: map[string]SortKey[row]{
		"name":   {Kind: Text, Text: func(r row) string { return r.Name }},
		"amount": {Kind: Number, Number: func(r row) float64 { return r.Amount }},
		"date":   {Kind: Date, Date: func(r row) time.Time { return r.Date }},
	},
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func sample() []row {
	return []row{
		{Name: "Acme Corp", Email: "sales@acme.example", Status: "Draft", Amount: 120, Date: day(3)},
		{Name: "Globex", Email: "info@globex.example", Status: "Sent", Amount: 80, Date: day(1)},
		{Name: "Initech", Email: "acme-reseller@initech.example", Status: "Accepted", Amount: 300, Date: day(5)},
		{Name: "Umbrella", Email: "contact@umbrella.example", Status: "Draft", Amount: 80, Date: day(2)},
	}
}

func names(items []row) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.Name
	}
	return out
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 10))
	assert.Equal(t, 1, Pages(1, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 2, Pages(11, 10))
	assert.Equal(t, 0, Pages(5, 0))
}

func TestSearchMatchesAnyField(t *testing.T) {
	got := rowView.Apply(sample(), Params{Query: "acme"})
	// Matches the name on one row and the email on another.
	assert.Equal(t, []string{"Acme Corp", "Initech"}, names(got.Items))
	assert.Equal(t, 2, got.Total)
}

func TestSearchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	got := rowView.Apply(sample(), Params{Query: "  GLOBEX "})
	assert.Equal(t, []string{"Globex"}, names(got.Items))
}

func TestStatusMembershipFilter(t *testing.T) {
	got := rowView.Apply(sample(), Params{Statuses: []string{"draft", "SENT"}})
	assert.Equal(t, []string{"Acme Corp", "Globex", "Umbrella"}, names(got.Items))
}

func TestSortByNumberDescending(t *testing.T) {
	got := rowView.Apply(sample(), Params{SortField: "amount", Direction: Descending})
	assert.Equal(t, []string{"Initech", "Acme Corp", "Globex", "Umbrella"}, names(got.Items))
}

func TestSortIsStable(t *testing.T) {
	// Globex and Umbrella tie on amount; input order must survive both
	// directions.
	asc := rowView.Apply(sample(), Params{SortField: "amount"})
	assert.Equal(t, []string{"Globex", "Umbrella", "Acme Corp", "Initech"}, names(asc.Items))

	desc := rowView.Apply(sample(), Params{SortField: "amount", Direction: Descending})
	assert.Equal(t, []string{"Initech", "Acme Corp", "Globex", "Umbrella"}, names(desc.Items))
}

func TestSortByDate(t *testing.T) {
	got := rowView.Apply(sample(), Params{SortField: "date"})
	assert.Equal(t, []string{"Globex", "Umbrella", "Acme Corp", "Initech"}, names(got.Items))
}

func TestUnknownSortFieldKeepsOrder(t *testing.T) {
	got := rowView.Apply(sample(), Params{SortField: "bogus"})
	assert.Equal(t, names(sample()), names(got.Items))
}

func TestPagination(t *testing.T) {
	got := rowView.Apply(sample(), Params{Page: 2, PageSize: 3})
	assert.Equal(t, 1, len(got.Items))
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.TotalPages)
}

func TestPageBeyondRangeIsEmpty(t *testing.T) {
	got := rowView.Apply(sample(), Params{Page: 9, PageSize: 3})
	assert.Empty(t, got.Items)
	assert.Equal(t, 4, got.Total)
}

func TestZeroPageSizeReturnsEverything(t *testing.T) {
	got := rowView.Apply(sample(), Params{})
	assert.Equal(t, 4, len(got.Items))
	assert.Equal(t, 0, got.TotalPages)
}

func TestNilCollection(t *testing.T) {
	got := rowView.Apply(nil, Params{Query: "x", PageSize: 10, Page: 1})
	assert.Empty(t, got.Items)
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 0, got.TotalPages)
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Descending, ParseDirection("desc"))
	assert.Equal(t, Descending, ParseDirection("DESC"))
	assert.Equal(t, Ascending, ParseDirection("asc"))
	assert.Equal(t, Ascending, ParseDirection(""))
}
