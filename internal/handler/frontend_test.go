// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/tipstack/internal/cache"
	"github.com/olegiv/tipstack/internal/model"
)

func tipPageJSON(titles ...string) []byte {
	page := model.Page[model.Tip]{Metadata: model.Metadata{TotalItems: int64(len(titles)), PageNumber: 1, PageSize: 12, TotalPages: 1}}
	for i, title := range titles {
		page.Items = append(page.Items, model.Tip{ID: "t" + string(rune('1'+i)), Title: title})
	}
	data, _ := json.Marshal(page)
	return data
}

func newFrontend(e *testEnv) *FrontendHandler {
	categories := cache.NewCategoryCache(cache.NewSimpleMemoryCache(0), e.api)
	return NewFrontendHandler(e.renderer, e.sessions, e.tips, categories, e.favorites)
}

func TestHome_RendersLatestTips(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tips/latest", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(tipPageJSON("Sharpen scissors with foil"))
	})
	mux.HandleFunc("/api/tips/popular", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(tipPageJSON())
	})
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[],"metadata":{"totalItems":0,"pageNumber":1,"pageSize":50,"totalPages":0}}`))
	})

	e := newTestEnv(t, mux)
	h := newFrontend(e)

	r := e.sessionRequest(t, http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.Home(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Sharpen scissors with foil") {
		t.Errorf("latest tip missing from body: %q", w.Body.String())
	}
}

func TestSearch_BackendDownRendersEmptyState(t *testing.T) {
	e := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	h := newFrontend(e)

	r := e.sessionRequest(t, http.MethodGet, "/search?q=kitchen", nil)
	w := httptest.NewRecorder()
	h.Search(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even with backend down", w.Code)
	}
	if strings.Contains(w.Body.String(), "<article>") {
		t.Error("no tips should render when the backend is down")
	}
}

func TestTipDetail_NotFound(t *testing.T) {
	e := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"title":"Not Found","status":404}`))
	}))
	h := newFrontend(e)

	r := e.sessionRequest(t, http.MethodGet, "/tips/nope", map[string]string{"id": "nope"})
	w := httptest.NewRecorder()
	h.TipDetail(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestVideoEmbedURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc123", "https://www.youtube-nocookie.com/embed/abc123"},
		{"https://www.youtube.com/watch?v=abc123&t=30", "https://www.youtube-nocookie.com/embed/abc123"},
		{"https://youtu.be/abc123", "https://www.youtube-nocookie.com/embed/abc123"},
		{"https://vimeo.com/12345", "https://player.vimeo.com/video/12345"},
		{"https://example.com/video.mp4", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := videoEmbedURL(tt.in); got != tt.want {
			t.Errorf("videoEmbedURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
