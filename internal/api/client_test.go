// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/tipstack/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestGetTip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tips/tip-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(model.Tip{ID: "tip-1", Title: "Peel garlic fast"})
	})

	tip, err := client.GetTip(context.Background(), "tip-1")
	if err != nil {
		t.Fatalf("GetTip: %v", err)
	}
	if tip.ID != "tip-1" || tip.Title != "Peel garlic fast" {
		t.Errorf("got %+v", tip)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
	}

	for _, tc := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(model.ProblemDetails{
				Title:         http.StatusText(tc.status),
				CorrelationID: "corr-123",
			})
		})

		_, err := client.GetTip(context.Background(), "x")
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.want)
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected *Error, got %T", tc.status, err)
		}
		if apiErr.Problem.CorrelationID != "corr-123" {
			t.Errorf("correlation id not preserved: %+v", apiErr.Problem)
		}
	}
}

func TestErrorWithoutProblemBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.GetTip(context.Background(), "x")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d", apiErr.Status)
	}
	// 5xx has no sentinel; errors.Is against the taxonomy must all fail.
	for _, sentinel := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, sentinel) {
			t.Errorf("5xx should not match %v", sentinel)
		}
	}
}

func TestListTips_QueryParams(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(model.EmptyPage[model.Tip](2, 20))
	})

	_, err := client.ListTips(context.Background(), ListParams{
		PageNumber:    2,
		PageSize:      20,
		OrderBy:       "title",
		SortDirection: "asc",
		Search:        "garlic",
		CategoryID:    "cat-1",
		Tags:          []string{"kitchen", "food"},
	})
	if err != nil {
		t.Fatalf("ListTips: %v", err)
	}

	want := map[string]string{
		"pageNumber":    "2",
		"pageSize":      "20",
		"orderBy":       "title",
		"sortDirection": "asc",
		"search":        "garlic",
		"categoryId":    "cat-1",
		"tags":          "kitchen,food",
	}
	for k, v := range want {
		if len(gotQuery[k]) != 1 || gotQuery[k][0] != v {
			t.Errorf("query %s = %v, want %s", k, gotQuery[k], v)
		}
	}
}

func TestListTips_DefaultPaging(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageNumber"); got != "1" {
			t.Errorf("pageNumber = %q, want 1", got)
		}
		if got := r.URL.Query().Get("pageSize"); got != "12" {
			t.Errorf("pageSize = %q, want 12", got)
		}
		_ = json.NewEncoder(w).Encode(model.EmptyPage[model.Tip](1, 12))
	})

	if _, err := client.ListTips(context.Background(), ListParams{}); err != nil {
		t.Fatalf("ListTips: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(model.User{ID: "u1"})
	})

	if _, err := client.Me(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Me: %v", err)
	}
}
