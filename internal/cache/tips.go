// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/model"
)

// ListTTL is the stale window for cached list reads. The underlying cache
// default TTL acts as the hard expiry.
const ListTTL = 5 * time.Minute

// Home page list sizes, shared by the frontend handler and the prewarm
// job. Cache keys embed the page size, so both must request the same pages
// or the prewarmed entries are never read.
const (
	HomeLatestPageSize   = 8
	HomePopularPageSize  = 4
	HomeCategoryPageSize = 50
)

// TipSource is the subset of the API client used by TipCache.
type TipSource interface {
	LatestTips(ctx context.Context, pageNumber, pageSize int) (model.Page[model.Tip], error)
	PopularTips(ctx context.Context, pageNumber, pageSize int) (model.Page[model.Tip], error)
	TipsByCategory(ctx context.Context, categoryID string, p api.ListParams) (model.Page[model.Tip], error)
	SearchTips(ctx context.Context, q string, p api.ListParams) (model.Page[model.Tip], error)
	RelatedTips(ctx context.Context, tipID string, limit int) ([]model.Tip, error)
	GetTip(ctx context.Context, id string) (model.Tip, error)
}

// TipCache provides cached access to tip read paths. List reads degrade to
// an empty page on failure so pages render an empty state instead of an
// error; single-tip reads propagate the error for the caller to translate
// into a not-found response.
type TipCache struct {
	pages  *TypedCache[model.Page[model.Tip]]
	tips   *TypedCache[model.Tip]
	lists  *TypedCache[[]model.Tip]
	source TipSource
}

// NewTipCache creates a TipCache over the given backend source.
func NewTipCache(cacher Cacher, source TipSource) *TipCache {
	return &TipCache{
		pages:  NewTypedCache[model.Page[model.Tip]](cacher, ListTTL),
		tips:   NewTypedCache[model.Tip](cacher, ListTTL),
		lists:  NewTypedCache[[]model.Tip](cacher, ListTTL),
		source: source,
	}
}

// Latest returns the newest tips, degrading to an empty page on failure.
func (c *TipCache) Latest(ctx context.Context, pageNumber, pageSize int) model.Page[model.Tip] {
	key := fmt.Sprintf("tips:latest:%d:%d", pageNumber, pageSize)
	return c.listPage(ctx, key, pageNumber, pageSize, func() (model.Page[model.Tip], error) {
		return c.source.LatestTips(ctx, pageNumber, pageSize)
	})
}

// Popular returns the most-favorited tips, degrading to an empty page on failure.
func (c *TipCache) Popular(ctx context.Context, pageNumber, pageSize int) model.Page[model.Tip] {
	key := fmt.Sprintf("tips:popular:%d:%d", pageNumber, pageSize)
	return c.listPage(ctx, key, pageNumber, pageSize, func() (model.Page[model.Tip], error) {
		return c.source.PopularTips(ctx, pageNumber, pageSize)
	})
}

// ByCategory returns a page of tips in a category, degrading to an empty page
// on failure.
func (c *TipCache) ByCategory(ctx context.Context, categoryID string, p api.ListParams) model.Page[model.Tip] {
	key := fmt.Sprintf("tips:category:%s:%d:%d:%s:%s", categoryID, p.PageNumber, p.PageSize, p.OrderBy, p.SortDirection)
	return c.listPage(ctx, key, p.PageNumber, p.PageSize, func() (model.Page[model.Tip], error) {
		return c.source.TipsByCategory(ctx, categoryID, p)
	})
}

// Search returns tips matching a query, degrading to an empty page on failure.
func (c *TipCache) Search(ctx context.Context, q string, p api.ListParams) model.Page[model.Tip] {
	key := fmt.Sprintf("tips:search:%s:%d:%d", q, p.PageNumber, p.PageSize)
	return c.listPage(ctx, key, p.PageNumber, p.PageSize, func() (model.Page[model.Tip], error) {
		return c.source.SearchTips(ctx, q, p)
	})
}

// Related returns tips related to the given tip, degrading to nil on failure.
func (c *TipCache) Related(ctx context.Context, tipID string, limit int) []model.Tip {
	key := fmt.Sprintf("tips:related:%s:%d", tipID, limit)
	tips, err := c.lists.GetOrSet(ctx, key, func() (*[]model.Tip, error) {
		items, err := c.source.RelatedTips(ctx, tipID, limit)
		if err != nil {
			return nil, err
		}
		return &items, nil
	})
	if err != nil {
		slog.Warn("related tips unavailable", "tip_id", tipID, "error", err)
		return nil
	}
	return *tips
}

// ByID returns a single tip. Unlike the list reads this propagates errors,
// which the calling page translates into a not-found response.
func (c *TipCache) ByID(ctx context.Context, id string) (model.Tip, error) {
	tip, err := c.tips.GetOrSet(ctx, "tips:id:"+id, func() (*model.Tip, error) {
		t, err := c.source.GetTip(ctx, id)
		if err != nil {
			return nil, err
		}
		return &t, nil
	})
	if err != nil {
		return model.Tip{}, err
	}
	return *tip, nil
}

// Invalidate drops all cached tip entries. Called after admin writes.
func (c *TipCache) Invalidate(ctx context.Context) {
	if err := c.pages.cache.DeleteByPrefix(ctx, "tips:"); err != nil {
		slog.Warn("tip cache invalidation failed", "error", err)
	}
}

func (c *TipCache) listPage(ctx context.Context, key string, pageNumber, pageSize int, fetch func() (model.Page[model.Tip], error)) model.Page[model.Tip] {
	page, err := c.pages.GetOrSet(ctx, key, func() (*model.Page[model.Tip], error) {
		p, err := fetch()
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		slog.Warn("tip list unavailable, serving empty page", "key", key, "error", err)
		return model.EmptyPage[model.Tip](pageNumber, pageSize)
	}
	return *page
}
