package common

import (
	"net/http"
	"strconv"
	"strings"
)

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// ParsePagination extracts page and limit query parameters. Non-positive or
// malformed values fall back to page 1 and defaultPerPage; limit is capped at
// maxPerPage when maxPerPage is positive.
func ParsePagination(r *http.Request, defaultPerPage, maxPerPage int) Pagination {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(q.Get("limit"), defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// Paginate slices items to the requested page and fills in the totals.
// Pages past the end yield an empty, non-nil slice.
func Paginate[T any](items []T, p Pagination) ([]T, Pagination) {
	p.TotalItems = len(items)
	if p.PerPage < 1 {
		p.PerPage = max(len(items), 1)
	}
	if p.Page < 1 {
		p.Page = 1
	}
	p.TotalPages = (p.TotalItems + p.PerPage - 1) / p.PerPage
	start := (p.Page - 1) * p.PerPage
	if start >= len(items) {
		return []T{}, p
	}
	end := min(start+p.PerPage, len(items))
	return items[start:end], p
}

func queryInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}
