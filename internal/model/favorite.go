// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Favorite is an association between the current user and a tip.
type Favorite struct {
	TipID   string    `json:"tipId"`
	AddedAt time.Time `json:"addedAt"`
	Tip     *Tip      `json:"tip,omitempty"`
}

// MergeResult is the backend's summary of a favorites merge request.
type MergeResult struct {
	AddedCount   int `json:"addedCount"`
	SkippedCount int `json:"skippedCount"`
	FailedCount  int `json:"failedCount"`
}
