// Copyright (c) 2026 Polyglot Labs. All rights reserved.

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how a result page is delivered in the API response. Page indexes are
// zero-based throughout.
package pagination

import (
	"net/http"
	"strings"

	"github.com/polyglothq/polyglot/pkg/convert"
)

const (
	// DefaultSize is the number of items per page if not specified.
	DefaultSize = 20
	// MaxSize is the upper bound for items per page to prevent system abuse.
	MaxSize = 100
	// DefaultPage is the starting page (0-indexed).
	DefaultPage = 0

	// SortAsc and SortDesc are the accepted sort directions.
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params holds the parsed page, size and sort settings from a request's query string.
type Params struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

// Offset returns the SQL OFFSET value derived from [Page] and [Size].
func (p Params) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return p.Page * p.Size
}

// Page is the paged response body for API list endpoints.
type Page struct {
	Content       any `json:"content"`
	Number        int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// NewPage constructs a result page.
//
// TotalPages is ceil(totalElements / size), and zero when totalElements is zero.
func NewPage(content any, page, size, totalElements int) Page {
	totalPages := 0
	if size > 0 && totalElements > 0 {
		totalPages = (totalElements + size - 1) / size
	}

	return Page{
		Content:       content,
		Number:        page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
	}
}

// FromRequest parses "page", "size", "sortBy" and "sortDirection" query
// parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultPage], [DefaultSize], or [MaxSize]. An unknown sort direction
// falls back to the provided default.
func FromRequest(r *http.Request, defaultSortBy, defaultSortDirection string) Params {
	queryValues := r.URL.Query()

	page := convert.ToIntD(queryValues.Get("page"), DefaultPage)
	size := convert.ToIntD(queryValues.Get("size"), DefaultSize)

	if page < 0 {
		page = DefaultPage
	}

	if size < 1 || size > MaxSize {
		size = DefaultSize
	}

	sortBy := queryValues.Get("sortBy")
	if sortBy == "" {
		sortBy = defaultSortBy
	}

	sortDirection := strings.ToLower(queryValues.Get("sortDirection"))
	if sortDirection != SortAsc && sortDirection != SortDesc {
		sortDirection = defaultSortDirection
	}

	return Params{
		Page:          page,
		Size:          size,
		SortBy:        sortBy,
		SortDirection: sortDirection,
	}
}
