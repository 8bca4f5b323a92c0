// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/middleware"
	"github.com/olegiv/tipstack/internal/model"
	"github.com/olegiv/tipstack/internal/render"
)

// AdminUsersHandler manages user accounts through the admin area. Account
// records live on the backend; credentials live with the identity provider
// and are never touched here.
type AdminUsersHandler struct {
	renderer *render.Renderer
	sessions *scs.SessionManager
	api      *api.Client
}

// NewAdminUsersHandler creates a new admin users handler.
func NewAdminUsersHandler(renderer *render.Renderer, sm *scs.SessionManager, apiClient *api.Client) *AdminUsersHandler {
	return &AdminUsersHandler{
		renderer: renderer,
		sessions: sm,
		api:      apiClient,
	}
}

const adminUsersBase = RouteAdmin + RouteUsers

// AdminUsersData holds data for the admin users list.
type AdminUsersData struct {
	Users      []model.User
	Search     string
	Pagination Pagination
}

// List renders the admin users list.
func (h *AdminUsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := middleware.GetToken(h.sessions, r)

	params := api.ListParams{
		PageNumber: parsePage(r),
		PageSize:   parsePageSize(r),
		Search:     strings.TrimSpace(r.URL.Query().Get("q")),
	}
	page, err := h.api.ListUsers(ctx, token, params)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to list users")
		return
	}

	data := baseData(r, "Users", 0)
	data.Data = AdminUsersData{
		Users:      page.Items,
		Search:     params.Search,
		Pagination: BuildPagination(page.Metadata, adminUsersBase, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/users", data); err != nil {
		logAndInternalError(w, "failed to render users list", "error", err)
	}
}

// AdminUserFormData holds data for the user edit form.
type AdminUserFormData struct {
	User  model.User
	Roles []string
}

// EditForm renders the user edit form.
func (h *AdminUsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(h.sessions, r)
	user, err := h.api.GetUser(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to load user")
		return
	}

	data := baseData(r, "Edit User", 0)
	data.Data = AdminUserFormData{
		User:  user,
		Roles: []string{model.RoleUser, model.RoleAdmin},
	}

	if err := h.renderer.Render(w, r, "admin/user_form", data); err != nil {
		logAndInternalError(w, "failed to render user form", "error", err)
	}
}

// Update handles the user edit form submission. Admins can't demote
// themselves; that would lock the last admin out mid-session.
func (h *AdminUsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editURL := adminUsersBase + "/" + id

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	role := r.FormValue("role")
	if role != model.RoleUser && role != model.RoleAdmin {
		flashError(w, r, h.renderer, editURL, "Invalid role")
		return
	}

	if current := middleware.GetUser(r); current != nil && current.ID == id && role != model.RoleAdmin {
		flashError(w, r, h.renderer, editURL, "You cannot remove your own admin role")
		return
	}

	input := model.UserInput{
		Email:       strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		DisplayName: strings.TrimSpace(r.FormValue("display_name")),
		Role:        role,
	}
	if input.Email == "" {
		flashError(w, r, h.renderer, editURL, "Email is required")
		return
	}

	token := middleware.GetToken(h.sessions, r)
	if _, err := h.api.UpdateUser(r.Context(), token, id, input); err != nil {
		if errors.Is(err, api.ErrConflict) {
			flashError(w, r, h.renderer, editURL, "Another account already uses this email")
			return
		}
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to update user")
		return
	}

	flashSuccess(w, r, h.renderer, adminUsersBase, "User updated")
}

// Delete handles user deletion (a soft delete on the backend).
func (h *AdminUsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if current := middleware.GetUser(r); current != nil && current.ID == id {
		flashError(w, r, h.renderer, adminUsersBase, "You cannot delete your own account")
		return
	}

	token := middleware.GetToken(h.sessions, r)
	if err := h.api.DeleteUser(r.Context(), token, id); err != nil && !errors.Is(err, api.ErrNotFound) {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to delete user")
		return
	}

	flashSuccess(w, r, h.renderer, redirectAfterDelete(r, adminUsersBase), "User deleted")
}
