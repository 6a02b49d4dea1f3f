// Copyright (c) 2026 Polyglot Labs. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polyglothq/polyglot/pkg/pagination"
)

/*
TestNewPage verifies the totalPages arithmetic, including the empty case.
*/
func TestNewPage(t *testing.T) {
	tests := []struct {
		name          string
		page          int
		size          int
		totalElements int
		wantPages     int
	}{
		{"empty_result", 0, 20, 0, 0},
		{"exact_fit", 0, 10, 100, 10},
		{"partial_last_page", 0, 20, 41, 3},
		{"single_element", 0, 20, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := pagination.NewPage([]string{}, tt.page, tt.size, tt.totalElements)

			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.totalElements, page.TotalElements)
			assert.Equal(t, tt.size, page.Size)
		})
	}
}

/*
TestFromRequest verifies query parsing, defaults and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantPage int
		wantSize int
		wantSort string
		wantDir  string
	}{
		{"defaults", "/x", 0, 20, "updatedAt", "desc"},
		{"explicit", "/x?page=3&size=50&sortBy=key&sortDirection=asc", 3, 50, "key", "asc"},
		{"negative_page_clamped", "/x?page=-1", 0, 20, "updatedAt", "desc"},
		{"oversized_clamped", "/x?size=9999", 0, 20, "updatedAt", "desc"},
		{"bad_direction_falls_back", "/x?sortDirection=sideways", 0, 20, "updatedAt", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", tt.url, nil)
			params := pagination.FromRequest(request, "updatedAt", "desc")

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantSize, params.Size)
			assert.Equal(t, tt.wantSort, params.SortBy)
			assert.Equal(t, tt.wantDir, params.SortDirection)
		})
	}
}

/*
TestParams_Offset checks the zero-based offset derivation.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 0, Size: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 2, Size: 20}.Offset())
}
