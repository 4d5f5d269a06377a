package model

import (
	"net/http/httptest"
	"testing"
)

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{name: "defaults", query: "", wantPage: 1, wantPerPage: 10},
		{name: "explicit values", query: "?page=3&per_page=25", wantPage: 3, wantPerPage: 25},
		{name: "per_page clamped to max", query: "?per_page=500", wantPage: 1, wantPerPage: 50},
		{name: "zero page falls back", query: "?page=0", wantPage: 1, wantPerPage: 10},
		{name: "negative values fall back", query: "?page=-2&per_page=-5", wantPage: 1, wantPerPage: 10},
		{name: "garbage falls back", query: "?page=abc&per_page=xyz", wantPage: 1, wantPerPage: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/posts"+tt.query, nil)
			got := ParsePageRequest(r)

			if got.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", got.Page, tt.wantPage)
			}
			if got.PerPage != tt.wantPerPage {
				t.Errorf("per_page = %d, want %d", got.PerPage, tt.wantPerPage)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name         string
		totalItems   int64
		req          PageRequest
		wantPages    int
		wantHasMore  bool
	}{
		{name: "exact multiple", totalItems: 20, req: PageRequest{Page: 1, PerPage: 10}, wantPages: 2, wantHasMore: true},
		{name: "partial last page", totalItems: 25, req: PageRequest{Page: 3, PerPage: 10}, wantPages: 3, wantHasMore: false},
		{name: "middle page", totalItems: 25, req: PageRequest{Page: 2, PerPage: 10}, wantPages: 3, wantHasMore: true},
		{name: "empty result keeps one page", totalItems: 0, req: PageRequest{Page: 1, PerPage: 10}, wantPages: 1, wantHasMore: false},
		{name: "single item", totalItems: 1, req: PageRequest{Page: 1, PerPage: 10}, wantPages: 1, wantHasMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(tt.totalItems, tt.req)

			if got.TotalPages != tt.wantPages {
				t.Errorf("total_pages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.HasMorePages != tt.wantHasMore {
				t.Errorf("has_more_pages = %v, want %v", got.HasMorePages, tt.wantHasMore)
			}
			if got.TotalItems != tt.totalItems {
				t.Errorf("total_items = %d, want %d", got.TotalItems, tt.totalItems)
			}
			if got.CurrentPage != tt.req.Page {
				t.Errorf("current_page = %d, want %d", got.CurrentPage, tt.req.Page)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	if off := (PageRequest{Page: 1, PerPage: 10}).Offset(); off != 0 {
		t.Errorf("offset = %d, want 0", off)
	}
	if off := (PageRequest{Page: 4, PerPage: 25}).Offset(); off != 75 {
		t.Errorf("offset = %d, want 75", off)
	}
}
