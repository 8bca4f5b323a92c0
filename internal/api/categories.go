// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/tipstack/internal/model"
)

// ListCategories fetches a page of categories.
func (c *Client) ListCategories(ctx context.Context, p ListParams) (model.Page[model.Category], error) {
	p = p.withDefaults()
	var page model.Page[model.Category]
	err := c.get(ctx, "/api/categories", p.Values(), "", &page)
	return page, err
}

// GetCategory fetches a single category by ID.
func (c *Client) GetCategory(ctx context.Context, id string) (model.Category, error) {
	var cat model.Category
	err := c.get(ctx, "/api/categories/"+url.PathEscape(id), nil, "", &cat)
	return cat, err
}

// ListCategoriesAdmin fetches categories through the admin endpoint, which
// includes tip counts and supports search/sort.
func (c *Client) ListCategoriesAdmin(ctx context.Context, token string, p ListParams) (model.Page[model.Category], error) {
	p = p.withDefaults()
	var page model.Page[model.Category]
	err := c.get(ctx, "/api/admin/Category", p.Values(), token, &page)
	return page, err
}

// CreateCategory creates a category (admin only). A name collision is
// surfaced as ErrConflict.
func (c *Client) CreateCategory(ctx context.Context, token string, in model.CategoryInput) (model.Category, error) {
	var cat model.Category
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/Category", nil, token, in, &cat)
	return cat, err
}

// UpdateCategory updates a category (admin only).
func (c *Client) UpdateCategory(ctx context.Context, token, id string, in model.CategoryInput) (model.Category, error) {
	var cat model.Category
	err := c.doJSON(ctx, http.MethodPut, "/api/admin/Category/"+url.PathEscape(id), nil, token, in, &cat)
	return cat, err
}

// DeleteCategory deletes a category (admin only). The backend cascades the
// delete to the category's tips.
func (c *Client) DeleteCategory(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/admin/Category/"+url.PathEscape(id), nil, token, nil, nil)
}
