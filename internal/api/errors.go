// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/olegiv/tipstack/internal/model"
)

// Sentinel errors for the backend error taxonomy. Callers match these with
// errors.Is; the wrapping *Error keeps the problem-details payload.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a backend API error carrying the RFC 7807-like problem details.
type Error struct {
	Status  int
	Problem model.ProblemDetails
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Problem.Title != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Problem.Title, e.Status)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// Unwrap maps the HTTP status to the matching sentinel error.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

// errorFromResponse builds an *Error from a non-2xx response body.
// The body may or may not be valid problem details; a decode failure
// still yields a usable error with the status code.
func errorFromResponse(status int, body []byte) error {
	apiErr := &Error{Status: status}
	if len(body) > 0 {
		_ = json.Unmarshal(body, &apiErr.Problem)
	}
	if apiErr.Problem.Status == 0 {
		apiErr.Problem.Status = status
	}
	return apiErr
}
