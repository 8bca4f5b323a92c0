// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/olegiv/tipstack/internal/model"
)

// Me fetches the profile of the authenticated user.
func (c *Client) Me(ctx context.Context, token string) (model.User, error) {
	var user model.User
	err := c.get(ctx, "/api/User/me", nil, token, &user)
	return user, err
}

// ListUsers fetches a page of users (admin only).
func (c *Client) ListUsers(ctx context.Context, token string, p ListParams) (model.Page[model.User], error) {
	p = p.withDefaults()
	var page model.Page[model.User]
	err := c.get(ctx, "/api/admin/User", p.Values(), token, &page)
	return page, err
}

// GetUser fetches a single user by ID (admin only).
func (c *Client) GetUser(ctx context.Context, token, id string) (model.User, error) {
	var user model.User
	err := c.get(ctx, "/api/admin/User/"+url.PathEscape(id), nil, token, &user)
	return user, err
}

// UpdateUser updates a user (admin only). An email collision is surfaced
// as ErrConflict.
func (c *Client) UpdateUser(ctx context.Context, token, id string, in model.UserInput) (model.User, error) {
	var user model.User
	err := c.doJSON(ctx, http.MethodPut, "/api/admin/User/"+url.PathEscape(id), nil, token, in, &user)
	return user, err
}

// DeleteUser soft-deletes a user (admin only).
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/admin/User/"+url.PathEscape(id), nil, token, nil, nil)
}

// GetDashboardStats fetches the admin dashboard counters.
func (c *Client) GetDashboardStats(ctx context.Context, token string) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := c.get(ctx, "/api/admin/stats", nil, token, &stats)
	return stats, err
}
