// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/olegiv/tipstack/internal/identity"
	"github.com/olegiv/tipstack/internal/middleware"
)

func newAuthEnv(t *testing.T, backend, provider http.Handler) (*testEnv, *AuthHandler) {
	t.Helper()

	e := newTestEnv(t, backend)

	idSrv := httptest.NewServer(provider)
	t.Cleanup(idSrv.Close)

	h := NewAuthHandler(e.renderer, e.sessions, identity.New(idSrv.URL, "key"), e.api,
		e.favorites, middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()))
	return e, h
}

func loginRequest(t *testing.T, e *testEnv, email, password string) *http.Request {
	t.Helper()

	ctx, err := e.sessions.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}

	form := url.Values{"email": {email}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, RouteLogin, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.WithContext(ctx)
}

func TestLogin_SuccessMergesFavorites(t *testing.T) {
	var mergedIDs []string
	backend := http.NewServeMux()
	backend.HandleFunc("/api/User/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u1", "email": "a@example.com", "role": "user"})
	})
	backend.HandleFunc("/api/me/favorites/merge", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TipIDs []string `json:"tipIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		mergedIDs = req.TipIDs
		_ = json.NewEncoder(w).Encode(map[string]any{"addedCount": 2, "skippedCount": 0, "failedCount": 0})
	})

	provider := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(identity.Token{IDToken: "id-tok", RefreshToken: "ref", UserID: "u1"})
	})

	e, h := newAuthEnv(t, backend, provider)

	r := loginRequest(t, e, "a@example.com", "pw")
	e.favorites.Add(r.Context(), "t1")
	e.favorites.Add(r.Context(), "t2")

	w := httptest.NewRecorder()
	h.Login(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := e.sessions.GetString(r.Context(), middleware.SessionKeyIDToken); got != "id-tok" {
		t.Errorf("id_token = %q", got)
	}
	if len(mergedIDs) != 2 {
		t.Errorf("merged IDs = %v, want [t1 t2]", mergedIDs)
	}
	if got := e.favorites.Get(r.Context()); len(got) != 0 {
		t.Errorf("local favorites should be cleared after merge, got %v", got)
	}
	if flash := e.sessions.PopString(r.Context(), "flash"); flash != "Merged 2 favorites" {
		t.Errorf("flash = %q, want %q", flash, "Merged 2 favorites")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	provider := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
	})

	e, h := newAuthEnv(t, http.NewServeMux(), provider)

	r := loginRequest(t, e, "a@example.com", "wrong")
	w := httptest.NewRecorder()
	h.Login(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != RouteLogin {
		t.Errorf("Location = %q, want back to login", loc)
	}
	if e.sessions.GetString(r.Context(), middleware.SessionKeyIDToken) != "" {
		t.Error("no token should be stored on failed login")
	}
}

func TestLogin_AdminRedirectsToAdmin(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("/api/User/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u1", "email": "a@example.com", "role": "admin"})
	})

	provider := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(identity.Token{IDToken: "id-tok"})
	})

	e, h := newAuthEnv(t, backend, provider)

	r := loginRequest(t, e, "a@example.com", "pw")
	w := httptest.NewRecorder()
	h.Login(w, r)

	if loc := w.Header().Get("Location"); loc != RouteAdmin {
		t.Errorf("Location = %q, want %q", loc, RouteAdmin)
	}
}

func TestLogout_DestroysSession(t *testing.T) {
	e, h := newAuthEnv(t, http.NewServeMux(), http.NewServeMux())

	r := e.sessionRequest(t, http.MethodPost, RouteLogout, nil)
	e.sessions.Put(r.Context(), middleware.SessionKeyIDToken, "tok")
	e.favorites.Add(r.Context(), "t1")

	w := httptest.NewRecorder()
	h.Logout(w, r)

	if e.sessions.GetString(r.Context(), middleware.SessionKeyIDToken) != "" {
		t.Error("token should be gone after logout")
	}
	if e.favorites.Count(r.Context()) != 0 {
		t.Error("session favorites should be gone after logout")
	}
}
