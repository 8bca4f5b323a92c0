// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/olegiv/tipstack/internal/api"
)

func TestValidateSortBy(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"newest", SortNewest},
		{"oldest", SortOldest},
		{"popular", SortPopular},
		{"title", SortTitle},
		{"  Popular ", SortPopular},
		{"bogus", SortNewest},
		{"", SortNewest},
		{"DROP TABLE tips", SortNewest},
	}

	for _, tt := range tests {
		if got := validateSortBy(tt.in); got != tt.want {
			t.Errorf("validateSortBy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortToOrderBy(t *testing.T) {
	orderBy, dir := sortToOrderBy(SortPopular)
	if orderBy != "favoriteCount" || dir != "desc" {
		t.Errorf("popular = (%q, %q)", orderBy, dir)
	}

	orderBy, dir = sortToOrderBy(SortNewest)
	if orderBy != "createdAt" || dir != "desc" {
		t.Errorf("newest = (%q, %q)", orderBy, dir)
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/?page=3", 3},
		{"/?page=0", 1},
		{"/?page=-5", 1},
		{"/?page=abc", 1},
		{"/", 1},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		if got := parsePage(r); got != tt.want {
			t.Errorf("parsePage(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/?size=24", 24},
		{"/?size=0", api.DefaultPageSize},
		{"/?size=9999", 100},
		{"/", api.DefaultPageSize},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		if got := parsePageSize(r); got != tt.want {
			t.Errorf("parsePageSize(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestListParamsFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?q=kitchen&sort=oldest&page=2&size=6&category=c1&tags=Kitchen,+diy,,kitchen", nil)

	p := listParamsFromRequest(r)
	if p.Search != "kitchen" {
		t.Errorf("Search = %q", p.Search)
	}
	if p.OrderBy != "createdAt" || p.SortDirection != "asc" {
		t.Errorf("order = (%q, %q)", p.OrderBy, p.SortDirection)
	}
	if p.PageNumber != 2 || p.PageSize != 6 {
		t.Errorf("paging = (%d, %d)", p.PageNumber, p.PageSize)
	}
	if p.CategoryID != "c1" {
		t.Errorf("CategoryID = %q", p.CategoryID)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "kitchen" || p.Tags[1] != "diy" {
		t.Errorf("Tags = %v, want [kitchen diy]", p.Tags)
	}
}

func TestRedirectAfterDelete(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"/admin/tips/t1?page=3&remaining=1", "/admin/tips?page=2"},
		{"/admin/tips/t1?page=3&remaining=5", "/admin/tips?page=3"},
		{"/admin/tips/t1?page=1&remaining=1", "/admin/tips"},
		{"/admin/tips/t1", "/admin/tips"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("POST", tt.url, nil)
		if got := redirectAfterDelete(r, "/admin/tips"); got != tt.want {
			t.Errorf("redirectAfterDelete(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags("Kitchen, cleaning , kitchen,,DIY")
	want := []string{"kitchen", "cleaning", "diy"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
