// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/tipstack/internal/model"
)

// newSessionRequest returns a request whose context carries a fresh session.
func newSessionRequest(t *testing.T, sm *scs.SessionManager) *http.Request {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return httptest.NewRequest(http.MethodGet, "/favorites", nil).WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	sm := scs.New()
	r := newSessionRequest(t, sm)
	w := httptest.NewRecorder()

	RequireAuth(sm)(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireAuth_AllowsSignedIn(t *testing.T) {
	sm := scs.New()
	r := newSessionRequest(t, sm)
	sm.Put(r.Context(), SessionKeyIDToken, "tok")
	w := httptest.NewRecorder()

	RequireAuth(sm)(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestLoadUser_PutsUserInContext(t *testing.T) {
	sm := scs.New()
	r := newSessionRequest(t, sm)
	sm.Put(r.Context(), SessionKeyUser, `{"id":"u1","email":"a@example.com","role":"admin"}`)
	w := httptest.NewRecorder()

	var got *model.User
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUser(r)
	})

	LoadUser(sm)(handler).ServeHTTP(w, r)

	if got == nil {
		t.Fatal("user not loaded into context")
	}
	if got.ID != "u1" || !got.IsAdmin() {
		t.Errorf("got %+v", got)
	}
}

func TestLoadUser_CorruptProfileDestroysSession(t *testing.T) {
	sm := scs.New()
	r := newSessionRequest(t, sm)
	sm.Put(r.Context(), SessionKeyUser, "{broken")
	w := httptest.NewRecorder()

	LoadUser(sm)(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want redirect to login", w.Code)
	}
	if sm.GetString(r.Context(), SessionKeyUser) != "" {
		t.Error("session should have been destroyed")
	}
}

func TestRequireAdmin_ForbidsRegularUser(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	ctx := context.WithValue(r.Context(), ContextKeyUser, model.User{ID: "u1", Role: model.RoleUser})
	w := httptest.NewRecorder()

	RequireAdmin()(okHandler()).ServeHTTP(w, r.WithContext(ctx))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	ctx := context.WithValue(r.Context(), ContextKeyUser, model.User{ID: "u1", Role: model.RoleAdmin})
	w := httptest.NewRecorder()

	RequireAdmin()(okHandler()).ServeHTTP(w, r.WithContext(ctx))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRequireAdmin_RedirectsAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()

	RequireAdmin()(okHandler()).ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want redirect", w.Code)
	}
}
