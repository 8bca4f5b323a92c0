// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/tipstack/internal/api"
)

// Sort options accepted from the sort query parameter. Anything else falls
// back to SortNewest so a hand-edited URL can't produce a backend error.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortTitle   = "title"
)

// validateSortBy normalizes the sort query parameter.
func validateSortBy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SortOldest:
		return SortOldest
	case SortPopular:
		return SortPopular
	case SortTitle:
		return SortTitle
	default:
		return SortNewest
	}
}

// sortToOrderBy translates a validated sort option to backend orderBy and
// sortDirection values.
func sortToOrderBy(sortBy string) (orderBy, direction string) {
	switch sortBy {
	case SortOldest:
		return "createdAt", "asc"
	case SortPopular:
		return "favoriteCount", "desc"
	case SortTitle:
		return "title", "asc"
	default:
		return "createdAt", "desc"
	}
}

// parsePage reads the page query parameter, clamping to 1 on garbage.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parsePageSize reads the size query parameter, clamping to the default on
// garbage and to 100 on absurd values.
func parsePageSize(r *http.Request) int {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 1 {
		return api.DefaultPageSize
	}
	if size > 100 {
		return 100
	}
	return size
}

// listParamsFromRequest builds backend list params from browse query
// parameters (page, size, sort, q, category, tags).
func listParamsFromRequest(r *http.Request) api.ListParams {
	orderBy, direction := sortToOrderBy(validateSortBy(r.URL.Query().Get("sort")))

	return api.ListParams{
		PageNumber:    parsePage(r),
		PageSize:      parsePageSize(r),
		OrderBy:       orderBy,
		SortDirection: direction,
		Search:        strings.TrimSpace(r.URL.Query().Get("q")),
		CategoryID:    strings.TrimSpace(r.URL.Query().Get("category")),
		Tags:          splitTags(r.URL.Query().Get("tags")),
	}
}
