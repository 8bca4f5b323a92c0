// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package favorites manages the anonymous favorites list kept in the
// session and its one-time merge into a signed-in account. Favorites for
// anonymous users are best effort: every operation degrades to an empty
// list or a no-op rather than failing the request.
package favorites

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/alexedwards/scs/v2"
)

// Session keys for the anonymous favorites state.
const (
	sessionKeyFavorites     = "anon_favorites"
	sessionKeyMergeInFlight = "favorites_merge_in_flight"
)

// Manager stores the anonymous user's favorite tip IDs as a JSON array in
// the session. The list never contains duplicates.
type Manager struct {
	sessions *scs.SessionManager
}

// NewManager creates a Manager over the given session manager.
func NewManager(sm *scs.SessionManager) *Manager {
	return &Manager{sessions: sm}
}

// Get returns the favorite tip IDs for the current session.
// Corrupted session data is reset to empty and logged.
func (m *Manager) Get(ctx context.Context) []string {
	raw := m.sessions.GetString(ctx, sessionKeyFavorites)
	if raw == "" {
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		slog.Warn("corrupted favorites in session, resetting", "error", err)
		m.Clear(ctx)
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// Add adds a tip ID to the favorites. Adding an existing ID is a no-op.
func (m *Manager) Add(ctx context.Context, tipID string) {
	ids := m.Get(ctx)
	if slices.Contains(ids, tipID) {
		return
	}
	m.put(ctx, append(ids, tipID))
}

// Remove removes a tip ID from the favorites.
func (m *Manager) Remove(ctx context.Context, tipID string) {
	ids := m.Get(ctx)
	next := slices.DeleteFunc(ids, func(id string) bool { return id == tipID })
	m.put(ctx, next)
}

// Clear removes all favorites from the session.
func (m *Manager) Clear(ctx context.Context) {
	m.sessions.Remove(ctx, sessionKeyFavorites)
}

// Count returns the number of favorites in the session.
func (m *Manager) Count(ctx context.Context) int {
	return len(m.Get(ctx))
}

func (m *Manager) put(ctx context.Context, ids []string) {
	data, err := json.Marshal(ids)
	if err != nil {
		// A []string cannot fail to marshal; log and drop if it somehow does.
		slog.Error("encoding favorites", "error", err)
		return
	}
	m.sessions.Put(ctx, sessionKeyFavorites, string(data))
}
