// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the data shapes exchanged with the backend API,
// including Tip, Category, User, Favorite and pagination metadata.
// All entities are owned by the backend; this package only mirrors them.
package model

import "time"

// TipStep is a single ordered step of a tip.
type TipStep struct {
	StepNumber  int    `json:"stepNumber"`
	Description string `json:"description"`
}

// Tip represents a life-hack tip as returned by the backend.
type Tip struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	VideoURL     string    `json:"videoUrl,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Steps        []TipStep `json:"steps,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasVideo returns true if the tip has a video attached.
func (t *Tip) HasVideo() bool {
	return t.VideoURL != ""
}

// TipInput is the payload for creating or updating a tip.
type TipInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	Tags        []string  `json:"tags,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Steps       []TipStep `json:"steps"`
}
