// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Category represents a named grouping of tips.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	TipCount  int64     `json:"tipCount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}
