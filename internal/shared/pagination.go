package shared

import "github.com/vertex-crm/vertex-crm/internal/listview"

// DefaultPageSize is the listing page size when the client does not ask for one.
const DefaultPageSize = 25

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata, clamping the requested page to
// the valid range. The engine itself does not clamp; callers do it here.
func NewPagination(page, pageSize, total int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := listview.Pages(total, pageSize)
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}
