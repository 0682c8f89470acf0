package shared

import "math"

// DefaultPerPage is the page size used when the caller passes none.
const DefaultPerPage = 20

// Pagination describes one page of a listing such as the decision timeline.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes page metadata, clamping page and perPage to sane
// values.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}
