// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/url"
	"strconv"
	"strings"
)

// Default page size used when a list call does not specify one.
const DefaultPageSize = 12

// ListParams holds the query parameters accepted by every backend list endpoint.
type ListParams struct {
	PageNumber    int
	PageSize      int
	OrderBy       string
	SortDirection string // "asc" or "desc"
	Search        string
	CategoryID    string
	Tags          []string
}

// Values encodes the parameters as a URL query, omitting zero values.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.PageNumber > 0 {
		v.Set("pageNumber", strconv.Itoa(p.PageNumber))
	}
	if p.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.OrderBy != "" {
		v.Set("orderBy", p.OrderBy)
	}
	if p.SortDirection != "" {
		v.Set("sortDirection", p.SortDirection)
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.CategoryID != "" {
		v.Set("categoryId", p.CategoryID)
	}
	if len(p.Tags) > 0 {
		v.Set("tags", strings.Join(p.Tags, ","))
	}
	return v
}

// withDefaults fills in page number and size when unset.
func (p ListParams) withDefaults() ListParams {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}
