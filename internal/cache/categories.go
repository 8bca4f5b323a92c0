// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/model"
)

// CategorySource is the subset of the API client used by CategoryCache.
type CategorySource interface {
	ListCategories(ctx context.Context, p api.ListParams) (model.Page[model.Category], error)
	GetCategory(ctx context.Context, id string) (model.Category, error)
}

// CategoryCache provides cached access to category read paths, with the
// same degrade/propagate split as TipCache.
type CategoryCache struct {
	pages      *TypedCache[model.Page[model.Category]]
	categories *TypedCache[model.Category]
	source     CategorySource
}

// NewCategoryCache creates a CategoryCache over the given backend source.
func NewCategoryCache(cacher Cacher, source CategorySource) *CategoryCache {
	return &CategoryCache{
		pages:      NewTypedCache[model.Page[model.Category]](cacher, ListTTL),
		categories: NewTypedCache[model.Category](cacher, ListTTL),
		source:     source,
	}
}

// List returns a page of categories, degrading to an empty page on failure.
func (c *CategoryCache) List(ctx context.Context, p api.ListParams) model.Page[model.Category] {
	key := fmt.Sprintf("categories:list:%d:%d", p.PageNumber, p.PageSize)
	page, err := c.pages.GetOrSet(ctx, key, func() (*model.Page[model.Category], error) {
		pg, err := c.source.ListCategories(ctx, p)
		if err != nil {
			return nil, err
		}
		return &pg, nil
	})
	if err != nil {
		slog.Warn("category list unavailable, serving empty page", "error", err)
		return model.EmptyPage[model.Category](p.PageNumber, p.PageSize)
	}
	return *page
}

// ByID returns a single category, propagating errors.
func (c *CategoryCache) ByID(ctx context.Context, id string) (model.Category, error) {
	cat, err := c.categories.GetOrSet(ctx, "categories:id:"+id, func() (*model.Category, error) {
		ct, err := c.source.GetCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		return &ct, nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return *cat, nil
}

// Invalidate drops all cached category entries. Called after admin writes.
func (c *CategoryCache) Invalidate(ctx context.Context) {
	if err := c.pages.cache.DeleteByPrefix(ctx, "categories:"); err != nil {
		slog.Warn("category cache invalidation failed", "error", err)
	}
}
