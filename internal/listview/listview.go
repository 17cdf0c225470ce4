// Package listview derives the visible page of a listing from a full
// in-memory collection: substring search, status membership filtering, a
// single typed sort key, and 1-indexed pagination.
package listview

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Direction orders a sort ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection maps "desc" (any case) to Descending, everything else to
// Ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, "desc") {
		return Descending
	}
	return Ascending
}

// Kind is the comparison type of a sort key.
type Kind int

const (
	Text Kind = iota
	Number
	Date
)

// SortKey extracts a comparable value from an item. Exactly one extractor is
// consulted, selected by Kind.
type SortKey[T any] struct {
	Kind   Kind
	Text   func(T) string
	Number func(T) float64
	Date   func(T) time.Time
}

// View describes how a collection is searched, filtered and sorted.
type View[T any] struct {
	// SearchText are the fields matched against the query, OR-combined.
	SearchText []func(T) string
	// Status extracts the value tested by the status membership filter.
	Status func(T) string
	// SortKeys maps field names to their typed sort keys.
	SortKeys map[string]SortKey[T]
}

// Params select the visible page.
type Params struct {
	Query     string
	Statuses  []string
	SortField string
	Direction Direction
	Page      int // 1-indexed
	PageSize  int
}

// Page is one derived page plus its listing metadata.
type Page[T any] struct {
	Items      []T
	Total      int
	TotalPages int
}

// Pages returns ceil(total/pageSize); 0 records means 0 pages.
func Pages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// Apply filters, sorts and paginates items. A nil collection yields an empty
// page. Sorting is stable: equal keys keep their input order. Pages beyond
// range come back empty; clamping the page number is the caller's job.
func (v View[T]) Apply(items []T, p Params) Page[T] {
	filtered := v.filter(items, p)
	v.sort(filtered, p)

	total := len(filtered)
	page := Page[T]{Items: filtered, Total: total, TotalPages: Pages(total, p.PageSize)}
	if p.PageSize <= 0 {
		return page
	}

	pageNum := p.Page
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * p.PageSize
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	page.Items = filtered[start:end]
	return page
}

func (v View[T]) filter(items []T, p Params) []T {
	query := strings.ToLower(strings.TrimSpace(p.Query))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if query != "" && !v.matchesQuery(item, query) {
			continue
		}
		if len(p.Statuses) > 0 && !v.matchesStatus(item, p.Statuses) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (v View[T]) matchesQuery(item T, query string) bool {
	for _, field := range v.SearchText {
		if strings.Contains(strings.ToLower(field(item)), query) {
			return true
		}
	}
	return false
}

func (v View[T]) matchesStatus(item T, statuses []string) bool {
	if v.Status == nil {
		return true
	}
	status := v.Status(item)
	for _, s := range statuses {
		if strings.EqualFold(s, status) {
			return true
		}
	}
	return false
}

func (v View[T]) sort(items []T, p Params) {
	key, ok := v.SortKeys[p.SortField]
	if !ok {
		return
	}
	less := lessFunc(items, key)
	if less == nil {
		return
	}
	if p.Direction == Descending {
		asc := less
		less = func(a, b int) bool { return asc(b, a) }
	}
	sort.SliceStable(items, less)
}

func lessFunc[T any](items []T, key SortKey[T]) func(a, b int) bool {
	switch key.Kind {
	case Number:
		if key.Number == nil {
			return nil
		}
		return func(a, b int) bool { return key.Number(items[a]) < key.Number(items[b]) }
	case Date:
		if key.Date == nil {
			return nil
		}
		return func(a, b int) bool { return key.Date(items[a]).Before(key.Date(items[b])) }
	default:
		if key.Text == nil {
			return nil
		}
		return func(a, b int) bool {
			return strings.ToLower(key.Text(items[a])) < strings.ToLower(key.Text(items[b]))
		}
	}
}
