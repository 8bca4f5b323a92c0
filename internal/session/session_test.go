// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/olegiv/tipstack/internal/testutil"
)

func TestNew_PersistsSessionData(t *testing.T) {
	db := testutil.TestDB(t)

	sm, err := New(db, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}

	sm.Put(ctx, "k", "v")
	token, _, err := sm.Commit(ctx)
	if err != nil {
		t.Fatalf("committing session: %v", err)
	}

	ctx2, err := sm.Load(context.Background(), token)
	if err != nil {
		t.Fatalf("reloading session: %v", err)
	}
	if got := sm.GetString(ctx2, "k"); got != "v" {
		t.Errorf("got %q, want persisted value", got)
	}
}

func TestNew_CookieSettings(t *testing.T) {
	db := testutil.TestDB(t)

	sm, err := New(db, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !sm.Cookie.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if !sm.Cookie.Secure {
		t.Error("production cookies must be Secure")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Error("cookie should be SameSite=Lax")
	}

	dev, err := New(db, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if dev.Cookie.Secure {
		t.Error("development cookies must not require HTTPS")
	}
}
