// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/middleware"
	"github.com/olegiv/tipstack/internal/model"
	"github.com/olegiv/tipstack/internal/render"
)

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	renderer *render.Renderer
	sessions *scs.SessionManager
	api      *api.Client
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(renderer *render.Renderer, sm *scs.SessionManager, apiClient *api.Client) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		sessions: sm,
		api:      apiClient,
	}
}

// DashboardData holds data for the admin dashboard.
type DashboardData struct {
	Stats      model.DashboardStats
	LatestTips []model.Tip
}

// Dashboard renders the admin dashboard with backend counters and the most
// recently created tips.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := middleware.GetToken(h.sessions, r)

	stats, err := h.api.GetDashboardStats(ctx, token)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to load dashboard stats")
		return
	}

	latest, err := h.api.LatestTips(ctx, 1, 5)
	if err != nil {
		// Counters are the point of the page; the recent list is optional.
		latest = model.EmptyPage[model.Tip](1, 5)
	}

	data := baseData(r, "Dashboard", 0)
	data.Data = DashboardData{
		Stats:      stats,
		LatestTips: latest.Items,
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
