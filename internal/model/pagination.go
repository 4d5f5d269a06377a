package model

import (
	"net/http"
	"strconv"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 50
)

// Pagination is the metadata attached to every paginated list response.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	HasMorePages bool  `json:"has_more_pages"`
}

// PageRequest is a parsed page/per_page query pair. Page is 1-based.
type PageRequest struct {
	Page    int
	PerPage int
}

// Offset returns the SQL OFFSET for this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePageRequest reads ?page= and ?per_page= with defaults and clamping.
// Invalid values fall back to defaults rather than erroring; pagination input
// is never worth failing a request over.
func ParsePageRequest(r *http.Request) PageRequest {
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}

	perPage := DefaultPerPage
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = v
		if perPage > MaxPerPage {
			perPage = MaxPerPage
		}
	}

	return PageRequest{Page: page, PerPage: perPage}
}

// NewPagination computes page metadata from a total count and the request.
func NewPagination(totalItems int64, req PageRequest) Pagination {
	totalPages := int((totalItems + int64(req.PerPage) - 1) / int64(req.PerPage))
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		CurrentPage:  req.Page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		HasMorePages: req.Page < totalPages,
	}
}
