// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/cache"
	"github.com/olegiv/tipstack/internal/middleware"
	"github.com/olegiv/tipstack/internal/model"
	"github.com/olegiv/tipstack/internal/render"
	"github.com/olegiv/tipstack/internal/util"
)

// TipGenerator drafts a tip from a video URL.
type TipGenerator interface {
	GenerateFromVideo(ctx context.Context, videoURL string) (model.TipInput, error)
}

// AdminTipsHandler manages tips through the admin area.
type AdminTipsHandler struct {
	renderer   *render.Renderer
	sessions   *scs.SessionManager
	api        *api.Client
	tips       *cache.TipCache
	categories *cache.CategoryCache
	generator  TipGenerator // nil when AI generation is not configured
}

// NewAdminTipsHandler creates a new admin tips handler.
func NewAdminTipsHandler(renderer *render.Renderer, sm *scs.SessionManager, apiClient *api.Client, tips *cache.TipCache, categories *cache.CategoryCache, generator TipGenerator) *AdminTipsHandler {
	return &AdminTipsHandler{
		renderer:   renderer,
		sessions:   sm,
		api:        apiClient,
		tips:       tips,
		categories: categories,
		generator:  generator,
	}
}

const adminTipsBase = RouteAdmin + RouteTips

// AdminTipsData holds data for the admin tips list.
type AdminTipsData struct {
	Tips       []model.Tip
	Search     string
	Pagination Pagination
}

// List renders the admin tips list with search and pagination.
func (h *AdminTipsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := listParamsFromRequest(r)

	var (
		page model.Page[model.Tip]
		err  error
	)
	if params.Search != "" {
		page, err = h.api.SearchTips(ctx, params.Search, params)
	} else {
		page, err = h.api.ListTips(ctx, params)
	}
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to list tips")
		return
	}

	data := baseData(r, "Tips", 0)
	data.Data = AdminTipsData{
		Tips:       page.Items,
		Search:     params.Search,
		Pagination: BuildPagination(page.Metadata, adminTipsBase, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/tips", data); err != nil {
		logAndInternalError(w, "failed to render tips list", "error", err)
	}
}

// AdminTipFormData holds data for the tip create/edit form.
type AdminTipFormData struct {
	Tip        *model.Tip
	Categories []model.Category
	AIEnabled  bool
}

// NewForm renders the tip creation form.
func (h *AdminTipsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, nil)
}

// EditForm renders the tip edit form.
func (h *AdminTipsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	tip, err := h.api.GetTip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to load tip")
		return
	}
	h.renderForm(w, r, &tip)
}

func (h *AdminTipsHandler) renderForm(w http.ResponseWriter, r *http.Request, tip *model.Tip) {
	categories := h.categories.List(r.Context(), api.ListParams{PageNumber: 1, PageSize: 100})

	title := "New Tip"
	if tip != nil {
		title = "Edit Tip"
	}

	data := baseData(r, title, 0)
	data.Data = AdminTipFormData{
		Tip:        tip,
		Categories: categories.Items,
		AIEnabled:  h.generator != nil,
	}

	if err := h.renderer.Render(w, r, "admin/tip_form", data); err != nil {
		logAndInternalError(w, "failed to render tip form", "error", err)
	}
}

// Create handles the tip creation form submission.
func (h *AdminTipsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, adminTipsBase+RouteSuffixNew) {
		return
	}

	input, ok := h.tipInputFromForm(w, r, adminTipsBase+RouteSuffixNew)
	if !ok {
		return
	}

	token := middleware.GetToken(h.sessions, r)
	tip, err := h.api.CreateTip(r.Context(), token, input)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to create tip")
		return
	}

	h.tips.Invalidate(r.Context())
	flashSuccess(w, r, h.renderer, adminTipsBase, "Tip created: "+tip.Title)
}

// Update handles the tip edit form submission.
func (h *AdminTipsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	editURL := adminTipsBase + "/" + id

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	input, ok := h.tipInputFromForm(w, r, editURL)
	if !ok {
		return
	}

	token := middleware.GetToken(h.sessions, r)
	if _, err := h.api.UpdateTip(r.Context(), token, id, input); err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to update tip")
		return
	}

	h.tips.Invalidate(r.Context())
	flashSuccess(w, r, h.renderer, adminTipsBase, "Tip updated")
}

// Delete handles tip deletion. When the last item of a page is removed, the
// redirect steps back one page so the admin doesn't land on an empty list.
func (h *AdminTipsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := middleware.GetToken(h.sessions, r)

	if err := h.api.DeleteTip(r.Context(), token, id); err != nil && !errors.Is(err, api.ErrNotFound) {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to delete tip")
		return
	}

	h.tips.Invalidate(r.Context())
	flashSuccess(w, r, h.renderer, redirectAfterDelete(r, adminTipsBase), "Tip deleted")
}

// Generate handles the AI draft endpoint. It takes a video URL and returns
// a draft tip as JSON for the form to fill in.
func (h *AdminTipsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "AI generation is not configured")
		return
	}

	var req struct {
		VideoURL string `json:"videoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.VideoURL) == "" {
		writeJSONError(w, http.StatusBadRequest, "videoUrl is required")
		return
	}

	draft, err := h.generator.GenerateFromVideo(r.Context(), strings.TrimSpace(req.VideoURL))
	if err != nil {
		slog.Error("tip generation failed", "error", err, "video_url", req.VideoURL)
		writeJSONError(w, http.StatusBadGateway, "generation failed, try again or fill the form manually")
		return
	}

	writeJSONSuccess(w, map[string]any{"draft": draft})
}

// tipInputFromForm builds a TipInput from form values, redirecting with a
// flash message when validation fails.
func (h *AdminTipsHandler) tipInputFromForm(w http.ResponseWriter, r *http.Request, redirectURL string) (model.TipInput, bool) {
	input := model.TipInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		CategoryID:  r.FormValue("category_id"),
		VideoURL:    strings.TrimSpace(r.FormValue("video_url")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		Tags:        splitTags(r.FormValue("tags")),
		Steps:       stepsFromForm(r),
	}

	switch {
	case input.Title == "":
		flashError(w, r, h.renderer, redirectURL, "Title is required")
	case input.Description == "":
		flashError(w, r, h.renderer, redirectURL, "Description is required")
	case input.CategoryID == "":
		flashError(w, r, h.renderer, redirectURL, "Category is required")
	case len(input.Steps) == 0:
		flashError(w, r, h.renderer, redirectURL, "At least one step is required")
	default:
		return input, true
	}
	return model.TipInput{}, false
}

// stepsFromForm collects step_N form fields into ordered steps. Gaps in the
// numbering are closed so steps are always 1..n.
func stepsFromForm(r *http.Request) []model.TipStep {
	type indexed struct {
		n    int
		text string
	}
	var found []indexed

	for key, values := range r.Form {
		if !strings.HasPrefix(key, "step_") || len(values) == 0 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(key, "step_"))
		if err != nil {
			continue
		}
		text := strings.TrimSpace(values[0])
		if text == "" {
			continue
		}
		found = append(found, indexed{n: n, text: text})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	steps := make([]model.TipStep, 0, len(found))
	for i, f := range found {
		steps = append(steps, model.TipStep{StepNumber: i + 1, Description: f.text})
	}
	return steps
}

// splitTags splits a comma-separated tag string into slugs, dropping
// empties and duplicates. Tags are used in filter URLs, so they go through
// the same slugification as everything else URL-facing.
func splitTags(raw string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = util.Slugify(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// redirectAfterDelete returns the list URL to land on after a delete,
// stepping back a page when the current one may have just been emptied.
func redirectAfterDelete(r *http.Request, baseURL string) string {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 1 {
		return baseURL
	}
	remaining, err := strconv.Atoi(r.URL.Query().Get("remaining"))
	if err == nil && remaining <= 1 {
		return baseURL + "?page=" + strconv.Itoa(page-1)
	}
	return baseURL + "?page=" + strconv.Itoa(page)
}
