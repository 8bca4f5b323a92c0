// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/olegiv/tipstack/internal/model"
)

// ListTips fetches a page of tips scoped by the given parameters.
func (c *Client) ListTips(ctx context.Context, p ListParams) (model.Page[model.Tip], error) {
	p = p.withDefaults()
	var page model.Page[model.Tip]
	err := c.get(ctx, "/api/tips", p.Values(), "", &page)
	return page, err
}

// SearchTips fetches tips matching a free-text query.
func (c *Client) SearchTips(ctx context.Context, q string, p ListParams) (model.Page[model.Tip], error) {
	p = p.withDefaults()
	v := p.Values()
	v.Set("q", q)
	var page model.Page[model.Tip]
	err := c.get(ctx, "/api/tips/search", v, "", &page)
	return page, err
}

// LatestTips fetches the newest tips.
func (c *Client) LatestTips(ctx context.Context, pageNumber, pageSize int) (model.Page[model.Tip], error) {
	p := ListParams{PageNumber: pageNumber, PageSize: pageSize, OrderBy: "createdAt", SortDirection: "desc"}.withDefaults()
	var page model.Page[model.Tip]
	err := c.get(ctx, "/api/tips/latest", p.Values(), "", &page)
	return page, err
}

// PopularTips fetches the most-favorited tips.
func (c *Client) PopularTips(ctx context.Context, pageNumber, pageSize int) (model.Page[model.Tip], error) {
	p := ListParams{PageNumber: pageNumber, PageSize: pageSize}.withDefaults()
	var page model.Page[model.Tip]
	err := c.get(ctx, "/api/tips/popular", p.Values(), "", &page)
	return page, err
}

// TipsByCategory fetches a page of tips belonging to a category.
func (c *Client) TipsByCategory(ctx context.Context, categoryID string, p ListParams) (model.Page[model.Tip], error) {
	p = p.withDefaults()
	p.CategoryID = categoryID
	var page model.Page[model.Tip]
	err := c.get(ctx, "/api/tips", p.Values(), "", &page)
	return page, err
}

// RelatedTips fetches tips related to the given tip.
func (c *Client) RelatedTips(ctx context.Context, tipID string, limit int) ([]model.Tip, error) {
	v := url.Values{}
	if limit > 0 {
		v.Set("pageSize", strconv.Itoa(limit))
	}
	var page model.Page[model.Tip]
	if err := c.get(ctx, "/api/tips/"+url.PathEscape(tipID)+"/related", v, "", &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetTip fetches a single tip by ID.
func (c *Client) GetTip(ctx context.Context, id string) (model.Tip, error) {
	var tip model.Tip
	err := c.get(ctx, "/api/tips/"+url.PathEscape(id), nil, "", &tip)
	return tip, err
}

// CreateTip creates a tip (admin only).
func (c *Client) CreateTip(ctx context.Context, token string, in model.TipInput) (model.Tip, error) {
	var tip model.Tip
	err := c.doJSON(ctx, http.MethodPost, "/api/tips", nil, token, in, &tip)
	return tip, err
}

// UpdateTip updates a tip (admin only).
func (c *Client) UpdateTip(ctx context.Context, token, id string, in model.TipInput) (model.Tip, error) {
	var tip model.Tip
	err := c.doJSON(ctx, http.MethodPut, "/api/tips/"+url.PathEscape(id), nil, token, in, &tip)
	return tip, err
}

// DeleteTip deletes a tip (admin only).
func (c *Client) DeleteTip(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/tips/"+url.PathEscape(id), nil, token, nil, nil)
}
