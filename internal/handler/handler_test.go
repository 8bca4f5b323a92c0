// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/cache"
	"github.com/olegiv/tipstack/internal/favorites"
	"github.com/olegiv/tipstack/internal/render"
)

// pageTemplate is a minimal content template that dumps the page title.
const pageTemplate = `{{define "content"}}<h1>{{.Title}}</h1>{{range .Data.Tips}}<article>{{.Title}}</article>{{end}}{{end}}`

func testTemplates() fstest.MapFS {
	base := &fstest.MapFile{
		Data: []byte(`{{define "base"}}<html><body>{{if .Flash}}<div class="flash">{{.Flash}}</div>{{end}}{{template "content" .}}</body></html>{{end}}`),
	}
	page := &fstest.MapFile{Data: []byte(pageTemplate)}
	home := &fstest.MapFile{
		Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>{{range .Data.Latest}}<article>{{.Title}}</article>{{end}}{{end}}`),
	}

	return fstest.MapFS{
		"layouts/base.html":         base,
		"layouts/admin.html":        &fstest.MapFile{Data: []byte(`{{define "admin-nav"}}{{end}}`)},
		"frontend/home.html":        home,
		"frontend/search.html":      page,
		"frontend/category.html":    page,
		"frontend/tip.html":         &fstest.MapFile{Data: []byte(`{{define "content"}}<h1>{{.Data.Tip.Title}}</h1>{{end}}`)},
		"frontend/favorites.html":   page,
		"auth/login.html":           page,
		"auth/signup.html":          page,
		"auth/forgot_password.html": page,
	}
}

// testEnv wires a frontend handler against a stub backend.
type testEnv struct {
	sessions  *scs.SessionManager
	renderer  *render.Renderer
	api       *api.Client
	tips      *cache.TipCache
	favorites *favorites.Manager
}

func newTestEnv(t *testing.T, backend http.Handler) *testEnv {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	sm := scs.New()
	renderer, err := render.New(render.Config{TemplatesFS: testTemplates(), SessionManager: sm})
	if err != nil {
		t.Fatalf("creating renderer: %v", err)
	}

	client := api.New(srv.URL)
	cacher := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = cacher.Close() })

	return &testEnv{
		sessions:  sm,
		renderer:  renderer,
		api:       client,
		tips:      cache.NewTipCache(cacher, client),
		favorites: favorites.NewManager(sm),
	}
}

// sessionRequest returns a request carrying a fresh session and chi route
// context with the given URL parameters.
func (e *testEnv) sessionRequest(t *testing.T, method, target string, params map[string]string) *http.Request {
	t.Helper()

	ctx, err := e.sessions.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}

	r := httptest.NewRequest(method, target, nil).WithContext(ctx)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	return r
}
