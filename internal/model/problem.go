// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// ProblemDetails is the RFC 7807-like error shape returned by the backend.
type ProblemDetails struct {
	Title         string `json:"title,omitempty"`
	Detail        string `json:"detail,omitempty"`
	Status        int    `json:"status,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}
