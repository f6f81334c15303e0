package utils

import (
	"github.com/yukikurage/task-api/internal/constants"
)

// PaginationParams holds the normalized paging request
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Pagination represents the pagination metadata in API responses
type Pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NormalizePagination clamps page and limit into their accepted ranges:
// page below 1 becomes 1, limit below 1 becomes the default and limit above
// the maximum is capped.
func NormalizePagination(page, limit int) PaginationParams {
	if page < constants.MinPage {
		page = constants.MinPage
	}
	if limit < 1 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// TotalPages is ceil(total/limit), and 0 when there is nothing to page.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}

// NewPagination computes the response metadata for one page.
func NewPagination(total int64, params PaginationParams) Pagination {
	totalPages := TotalPages(total, params.Limit)
	return Pagination{
		Total:       total,
		Page:        params.Page,
		TotalPages:  totalPages,
		Limit:       params.Limit,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1,
	}
}

// BeyondLastPage reports whether the requested page lies past the end of a
// non-empty result.
func (p Pagination) BeyondLastPage() bool {
	return p.Total > 0 && p.Page > p.TotalPages
}
