// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/olegiv/tipstack/internal/model"
)

// mergeRequest is the payload for the favorites merge endpoint.
type mergeRequest struct {
	TipIDs []string `json:"tipIds"`
}

// ListFavorites fetches a page of the authenticated user's favorites.
func (c *Client) ListFavorites(ctx context.Context, token string, p ListParams) (model.Page[model.Favorite], error) {
	ctx, cancel := context.WithTimeout(ctx, favoritesTimeout)
	defer cancel()

	p = p.withDefaults()
	var page model.Page[model.Favorite]
	err := c.get(ctx, "/api/me/favorites", p.Values(), token, &page)
	return page, err
}

// AddFavorite adds a tip to the authenticated user's favorites.
// A 409 means the tip is already a favorite and is treated as success.
func (c *Client) AddFavorite(ctx context.Context, token, tipID string) error {
	ctx, cancel := context.WithTimeout(ctx, favoritesTimeout)
	defer cancel()

	err := c.doJSON(ctx, http.MethodPost, "/api/me/favorites/"+url.PathEscape(tipID), nil, token, nil, nil)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

// RemoveFavorite removes a tip from the authenticated user's favorites.
// A 409 is treated as success, mirroring AddFavorite.
func (c *Client) RemoveFavorite(ctx context.Context, token, tipID string) error {
	ctx, cancel := context.WithTimeout(ctx, favoritesTimeout)
	defer cancel()

	err := c.doJSON(ctx, http.MethodDelete, "/api/me/favorites/"+url.PathEscape(tipID), nil, token, nil, nil)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

// MergeFavorites merges a set of anonymous tip IDs into the authenticated
// user's favorites. The backend reports per-ID outcomes in the result.
func (c *Client) MergeFavorites(ctx context.Context, token string, tipIDs []string) (model.MergeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, favoritesTimeout)
	defer cancel()

	var result model.MergeResult
	err := c.doJSON(ctx, http.MethodPost, "/api/me/favorites/merge", nil, token, mergeRequest{TipIDs: tipIDs}, &result)
	return result, err
}
