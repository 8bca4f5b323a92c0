// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Metadata is the pagination metadata returned by every backend list endpoint.
type Metadata struct {
	TotalItems int64 `json:"totalItems"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// Page is a single page of a backend list response.
type Page[T any] struct {
	Items    []T      `json:"items"`
	Metadata Metadata `json:"metadata"`
}

// EmptyPage returns a page with no items that still echoes the requested
// page number and size. List read paths degrade to this on fetch failure
// so callers render an empty state instead of an error.
func EmptyPage[T any](pageNumber, pageSize int) Page[T] {
	return Page[T]{
		Items: []T{},
		Metadata: Metadata{
			TotalItems: 0,
			PageNumber: pageNumber,
			PageSize:   pageSize,
			TotalPages: 0,
		},
	}
}

// DashboardStats holds the admin dashboard counters.
type DashboardStats struct {
	TotalTips       int64 `json:"totalTips"`
	TotalCategories int64 `json:"totalCategories"`
	TotalUsers      int64 `json:"totalUsers"`
	TotalFavorites  int64 `json:"totalFavorites"`
}
