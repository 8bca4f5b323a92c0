// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/cache"
	"github.com/olegiv/tipstack/internal/favorites"
	"github.com/olegiv/tipstack/internal/middleware"
	"github.com/olegiv/tipstack/internal/model"
	"github.com/olegiv/tipstack/internal/render"
)

// FavoritesHandler serves the favorites page and the JSON toggle endpoints.
// Anonymous visitors keep favorites in the session; signed-in users keep
// them in the backend. The endpoints hide that split from the templates.
type FavoritesHandler struct {
	renderer  *render.Renderer
	sessions  *scs.SessionManager
	api       *api.Client
	tips      *cache.TipCache
	favorites *favorites.Manager
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(renderer *render.Renderer, sm *scs.SessionManager, apiClient *api.Client, tips *cache.TipCache, fav *favorites.Manager) *FavoritesHandler {
	return &FavoritesHandler{
		renderer:  renderer,
		sessions:  sm,
		api:       apiClient,
		tips:      tips,
		favorites: fav,
	}
}

// FavoritesData holds data for the favorites page.
type FavoritesData struct {
	Tips       []model.Tip
	Pagination Pagination
	SignedIn   bool
}

// Page renders the favorites page.
func (h *FavoritesHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := middleware.GetToken(h.sessions, r)

	if token == "" {
		h.renderAnonymous(w, r)
		return
	}

	params := api.ListParams{PageNumber: parsePage(r), PageSize: parsePageSize(r)}
	page, err := h.api.ListFavorites(ctx, token, params)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to load favorites")
		return
	}

	tips := make([]model.Tip, 0, len(page.Items))
	for _, f := range page.Items {
		if f.Tip != nil {
			tips = append(tips, *f.Tip)
		}
	}

	data := baseData(r, "My Favorites", len(tips))
	data.Data = FavoritesData{
		Tips:       tips,
		Pagination: BuildPagination(page.Metadata, RouteFavorites, r.URL.Query()),
		SignedIn:   true,
	}

	if err := h.renderer.Render(w, r, "frontend/favorites", data); err != nil {
		logAndInternalError(w, "failed to render favorites", "error", err)
	}
}

// renderAnonymous renders session-held favorites. Tips that no longer exist
// on the backend are dropped from the view but kept in the session; they may
// reappear if the backend recovers.
func (h *FavoritesHandler) renderAnonymous(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ids := h.favorites.Get(ctx)

	tips := make([]model.Tip, 0, len(ids))
	for _, id := range ids {
		tip, err := h.tips.ByID(ctx, id)
		if err != nil {
			if !errors.Is(err, api.ErrNotFound) {
				slog.Warn("failed to load favorite tip", "tip_id", id, "error", err)
			}
			continue
		}
		tips = append(tips, tip)
	}

	data := baseData(r, "My Favorites", len(ids))
	data.Data = FavoritesData{Tips: tips}

	if err := h.renderer.Render(w, r, "frontend/favorites", data); err != nil {
		logAndInternalError(w, "failed to render favorites", "error", err)
	}
}

// Add handles POST /favorites/{id}.
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tipID := chi.URLParam(r, "id")
	if tipID == "" {
		writeJSONError(w, http.StatusBadRequest, "tip id is required")
		return
	}

	token := middleware.GetToken(h.sessions, r)
	if token == "" {
		h.favorites.Add(ctx, tipID)
		writeJSONSuccess(w, map[string]any{"count": h.favorites.Count(ctx)})
		return
	}

	if err := h.api.AddFavorite(ctx, token, tipID); err != nil {
		h.writeFavoriteError(w, r, err, "failed to add favorite", tipID)
		return
	}
	writeJSONSuccess(w, nil)
}

// Remove handles DELETE /favorites/{id}.
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tipID := chi.URLParam(r, "id")
	if tipID == "" {
		writeJSONError(w, http.StatusBadRequest, "tip id is required")
		return
	}

	token := middleware.GetToken(h.sessions, r)
	if token == "" {
		h.favorites.Remove(ctx, tipID)
		writeJSONSuccess(w, map[string]any{"count": h.favorites.Count(ctx)})
		return
	}

	if err := h.api.RemoveFavorite(ctx, token, tipID); err != nil {
		h.writeFavoriteError(w, r, err, "failed to remove favorite", tipID)
		return
	}
	writeJSONSuccess(w, nil)
}

// Count handles GET /favorites/count. For signed-in users the count comes
// from the backend list metadata.
func (h *FavoritesHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := middleware.GetToken(h.sessions, r)

	if token == "" {
		writeJSONSuccess(w, map[string]any{"count": h.favorites.Count(ctx)})
		return
	}

	page, err := h.api.ListFavorites(ctx, token, api.ListParams{PageNumber: 1, PageSize: 1})
	if err != nil {
		h.writeFavoriteError(w, r, err, "failed to count favorites", "")
		return
	}
	writeJSONSuccess(w, map[string]any{"count": page.Metadata.TotalItems})
}

func (h *FavoritesHandler) writeFavoriteError(w http.ResponseWriter, r *http.Request, err error, logMsg, tipID string) {
	if errors.Is(err, api.ErrUnauthorized) {
		_ = h.sessions.Destroy(r.Context())
		writeJSONError(w, http.StatusUnauthorized, "session expired")
		return
	}
	slog.Error(logMsg, "error", err, "tip_id", tipID)
	writeJSONError(w, http.StatusInternalServerError, "favorites are unavailable right now")
}
