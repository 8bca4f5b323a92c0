// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/cache"
	"github.com/olegiv/tipstack/internal/favorites"
	"github.com/olegiv/tipstack/internal/middleware"
	"github.com/olegiv/tipstack/internal/model"
	"github.com/olegiv/tipstack/internal/render"
)

const relatedTipCount = 4

// FrontendHandler serves the public browse pages. All list reads go through
// the caches, which degrade to empty pages when the backend is unreachable.
type FrontendHandler struct {
	renderer   *render.Renderer
	sessions   *scs.SessionManager
	tips       *cache.TipCache
	categories *cache.CategoryCache
	favorites  *favorites.Manager
}

// NewFrontendHandler creates a new frontend handler.
func NewFrontendHandler(renderer *render.Renderer, sm *scs.SessionManager, tips *cache.TipCache, categories *cache.CategoryCache, fav *favorites.Manager) *FrontendHandler {
	return &FrontendHandler{
		renderer:   renderer,
		sessions:   sm,
		tips:       tips,
		categories: categories,
		favorites:  fav,
	}
}

// HomeData holds data for the home page.
type HomeData struct {
	Latest     []model.Tip
	Popular    []model.Tip
	Categories []model.Category
}

// Home renders the landing page with latest tips, popular tips, and the
// category grid.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latest := h.tips.Latest(ctx, 1, cache.HomeLatestPageSize)
	popular := h.tips.Popular(ctx, 1, cache.HomePopularPageSize)
	categories := h.categories.List(ctx, api.ListParams{PageNumber: 1, PageSize: cache.HomeCategoryPageSize})

	data := baseData(r, "Life Hack Tips", h.favorites.Count(ctx))
	data.Data = HomeData{
		Latest:     latest.Items,
		Popular:    popular.Items,
		Categories: categories.Items,
	}

	if err := h.renderer.Render(w, r, "frontend/home", data); err != nil {
		logAndInternalError(w, "failed to render home", "error", err)
	}
}

// TipListData holds data for tip list pages (search, category, browse).
type TipListData struct {
	Tips       []model.Tip
	Category   *model.Category
	Query      string
	SortBy     string
	Pagination Pagination
}

// Search renders search results for the q query parameter. An empty query
// renders the browse page over all tips.
func (h *FrontendHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := listParamsFromRequest(r)
	query := params.Search

	var page model.Page[model.Tip]
	if query == "" {
		page = h.tips.Latest(ctx, params.PageNumber, params.PageSize)
	} else {
		page = h.tips.Search(ctx, query, params)
	}

	data := baseData(r, "Search", h.favorites.Count(ctx))
	data.Query = query
	data.Data = TipListData{
		Tips:       page.Items,
		Query:      query,
		SortBy:     validateSortBy(r.URL.Query().Get("sort")),
		Pagination: BuildPagination(page.Metadata, RouteSearch, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "frontend/search", data); err != nil {
		logAndInternalError(w, "failed to render search", "error", err)
	}
}

// Category renders the tips of a single category. The category itself must
// exist; its tip list degrades to an empty page on backend failure.
func (h *FrontendHandler) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	category, err := h.categories.ByID(ctx, id)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to load category")
		return
	}

	params := listParamsFromRequest(r)
	page := h.tips.ByCategory(ctx, id, params)

	data := baseData(r, category.Name, h.favorites.Count(ctx))
	data.Data = TipListData{
		Tips:       page.Items,
		Category:   &category,
		SortBy:     validateSortBy(r.URL.Query().Get("sort")),
		Pagination: BuildPagination(page.Metadata, "/category/"+id, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "frontend/category", data); err != nil {
		logAndInternalError(w, "failed to render category", "error", err)
	}
}

// TipDetailData holds data for the tip detail page.
type TipDetailData struct {
	Tip         model.Tip
	Related     []model.Tip
	IsFavorite  bool
	VideoEmbed  string
	StepCount   int
	TagList     []string
}

// TipDetail renders a single tip with its steps, video, and related tips.
func (h *FrontendHandler) TipDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	tip, err := h.tips.ByID(ctx, id)
	if err != nil {
		handleBackendError(w, r, h.renderer, h.sessions, err, "failed to load tip")
		return
	}

	related := h.tips.Related(ctx, id, relatedTipCount)

	data := baseData(r, tip.Title, h.favorites.Count(ctx))
	data.Data = TipDetailData{
		Tip:        tip,
		Related:    related,
		IsFavorite: h.isFavorite(r, id),
		VideoEmbed: videoEmbedURL(tip.VideoURL),
		StepCount:  len(tip.Steps),
		TagList:    tip.Tags,
	}

	if err := h.renderer.Render(w, r, "frontend/tip", data); err != nil {
		logAndInternalError(w, "failed to render tip", "error", err)
	}
}

// isFavorite reports whether the given tip is in the visitor's local
// favorites. Signed-in users' backend favorites are resolved client-side by
// the favorites endpoints, so only the session list is consulted here.
func (h *FrontendHandler) isFavorite(r *http.Request, tipID string) bool {
	if middleware.GetUser(r) != nil {
		return false
	}
	for _, id := range h.favorites.Get(r.Context()) {
		if id == tipID {
			return true
		}
	}
	return false
}

// videoEmbedURL converts a watch URL into an embeddable player URL.
// Unrecognized hosts return "" and the template falls back to a plain link.
func videoEmbedURL(videoURL string) string {
	if videoURL == "" {
		return ""
	}
	if strings.Contains(videoURL, "youtube.com/watch?v=") {
		if _, after, found := strings.Cut(videoURL, "watch?v="); found {
			id, _, _ := strings.Cut(after, "&")
			return "https://www.youtube-nocookie.com/embed/" + id
		}
	}
	if strings.Contains(videoURL, "youtu.be/") {
		if _, after, found := strings.Cut(videoURL, "youtu.be/"); found {
			id, _, _ := strings.Cut(after, "?")
			return "https://www.youtube-nocookie.com/embed/" + id
		}
	}
	if strings.Contains(videoURL, "vimeo.com/") {
		if _, after, found := strings.Cut(videoURL, "vimeo.com/"); found {
			id, _, _ := strings.Cut(after, "?")
			return "https://player.vimeo.com/video/" + id
		}
	}
	return ""
}
