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
	"github.com/olegiv/tipstack/internal/cache"
	"github.com/olegiv/tipstack/internal/middleware"
	"github.com/olegiv/tipstack/internal/model"
	"github.com/olegiv/tipstack/internal/render"
)

// AdminCategoriesHandler manages categories through the admin area.
type AdminCategoriesHandler struct {
	renderer   *render.Renderer
	sessions   *scs.SessionManager
	api        *api.Client
	tips       *cache.TipCache
	categories *cache.CategoryCache
}

// NewAdminCategoriesHandler creates a new admin categories handler.
func NewAdminCategoriesHandler(renderer *render.Renderer, sm *scs.SessionManager, apiClient *api.Client, tips *cache.TipCache, categories *cache.CategoryCache) *AdminCategoriesHandler {
	return &AdminCategoriesHandler{
		renderer:   renderer,
		sessions:   sm,
		api:        apiClient,
		tips:       tips,
		categories: categories,
	}
}

const adminCategoriesBase = RouteAdmin + RouteCategories

// AdminCategoriesData holds data for the admin categories list.
type AdminCategoriesData struct {
	Categories []model.Category
	Pagination Pagination
}

// List renders the admin categories list with tip counts.
func (h *AdminCategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := middleware.GetToken(h.sessions, r)

	params := api.ListParams{PageNumber: parsePage(r), PageSize: parsePageSize(r)}
	page, err := h.api.ListCategoriesAdmin(ctx, token, params)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to list categories")
		return
	}

	data := baseData(r, "Categories", 0)
	data.Data = AdminCategoriesData{
		Categories: page.Items,
		Pagination: BuildPagination(page.Metadata, adminCategoriesBase, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/categories", data); err != nil {
		logAndInternalError(w, "failed to render categories list", "error", err)
	}
}

// AdminCategoryFormData holds data for the category create/edit form.
type AdminCategoryFormData struct {
	Category *model.Category
}

// NewForm renders the category creation form.
func (h *AdminCategoriesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, nil)
}

// EditForm renders the category edit form. The edit page is also where the
// delete confirmation lives, so the category's tip count is shown there.
func (h *AdminCategoriesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to load category")
		return
	}
	h.renderForm(w, r, &category)
}

func (h *AdminCategoriesHandler) renderForm(w http.ResponseWriter, r *http.Request, category *model.Category) {
	title := "New Category"
	if category != nil {
		title = "Edit Category"
	}

	data := baseData(r, title, 0)
	data.Data = AdminCategoryFormData{Category: category}

	if err := h.renderer.Render(w, r, "admin/category_form", data); err != nil {
		logAndInternalError(w, "failed to render category form", "error", err)
	}
}

// Create handles the category creation form submission.
func (h *AdminCategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, adminCategoriesBase+RouteSuffixNew) {
		return
	}

	input, ok := h.categoryInputFromForm(w, r, adminCategoriesBase+RouteSuffixNew)
	if !ok {
		return
	}

	token := middleware.GetToken(h.sessions, r)
	category, err := h.api.CreateCategory(r.Context(), token, input)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			flashError(w, r, h.renderer, adminCategoriesBase+RouteSuffixNew, "A category with this name already exists")
			return
		}
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to create category")
		return
	}

	h.categories.Invalidate(r.Context())
	flashSuccess(w, r, h.renderer, adminCategoriesBase, "Category created: "+category.Name)
}

// Update handles the category edit form submission.
func (h *AdminCategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editURL := adminCategoriesBase + "/" + id

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	input, ok := h.categoryInputFromForm(w, r, editURL)
	if !ok {
		return
	}

	token := middleware.GetToken(h.sessions, r)
	if _, err := h.api.UpdateCategory(r.Context(), token, id, input); err != nil {
		if errors.Is(err, api.ErrConflict) {
			flashError(w, r, h.renderer, editURL, "A category with this name already exists")
			return
		}
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to update category")
		return
	}

	h.categories.Invalidate(r.Context())
	h.tips.Invalidate(r.Context())
	flashSuccess(w, r, h.renderer, adminCategoriesBase, "Category updated")
}

// Delete handles category deletion. Deleting a category cascades to its
// tips on the backend, so the form requires typing the exact category name
// to confirm.
func (h *AdminCategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editURL := adminCategoriesBase + "/" + id

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	category, err := h.categories.ByID(r.Context(), id)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to load category")
		return
	}

	confirm := strings.TrimSpace(r.FormValue("confirm_name"))
	if confirm != category.Name {
		flashError(w, r, h.renderer, editURL, "Type the category name exactly to confirm deletion")
		return
	}

	token := middleware.GetToken(h.sessions, r)
	if err := h.api.DeleteCategory(r.Context(), token, id); err != nil && !errors.Is(err, api.ErrNotFound) {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to delete category")
		return
	}

	h.categories.Invalidate(r.Context())
	h.tips.Invalidate(r.Context())
	flashSuccess(w, r, h.renderer, redirectAfterDelete(r, adminCategoriesBase), "Category deleted: "+category.Name)
}

func (h *AdminCategoriesHandler) categoryInputFromForm(w http.ResponseWriter, r *http.Request, redirectURL string) (model.CategoryInput, bool) {
	input := model.CategoryInput{
		Name:     strings.TrimSpace(r.FormValue("name")),
		ImageURL: strings.TrimSpace(r.FormValue("image_url")),
	}

	if input.Name == "" {
		flashError(w, r, h.renderer, redirectURL, "Name is required")
		return model.CategoryInput{}, false
	}
	return input, true
}
