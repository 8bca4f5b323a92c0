// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package favorites

import (
	"context"
	"fmt"

	"github.com/olegiv/tipstack/internal/model"
)

// Merger is the backend call used to reconcile anonymous favorites into an
// account. Satisfied by *api.Client.
type Merger interface {
	MergeFavorites(ctx context.Context, token string, tipIDs []string) (model.MergeResult, error)
}

// Merge sends the session's anonymous favorites to the account merge
// endpoint. On success the local list is cleared; on failure it is left
// untouched so a later sign-in can retry. Returns (result, merged=true)
// when a merge was performed.
//
// A per-session in-flight flag makes a duplicate submit within the same
// session a no-op; the backend merge endpoint is relied on to be
// idempotent across sessions.
func (m *Manager) Merge(ctx context.Context, merger Merger, token string) (model.MergeResult, bool, error) {
	ids := m.Get(ctx)
	if len(ids) == 0 {
		return model.MergeResult{}, false, nil
	}

	if m.sessions.GetBool(ctx, sessionKeyMergeInFlight) {
		return model.MergeResult{}, false, nil
	}
	m.sessions.Put(ctx, sessionKeyMergeInFlight, true)
	defer m.sessions.Remove(ctx, sessionKeyMergeInFlight)

	result, err := merger.MergeFavorites(ctx, token, ids)
	if err != nil {
		return model.MergeResult{}, false, fmt.Errorf("merging favorites: %w", err)
	}

	m.Clear(ctx)
	return result, true, nil
}

// SummaryMessage formats the user-facing merge outcome.
func SummaryMessage(result model.MergeResult) string {
	msg := fmt.Sprintf("Merged %d favorites", result.AddedCount)
	if result.SkippedCount > 0 {
		msg += fmt.Sprintf(", %d already saved", result.SkippedCount)
	}
	if result.FailedCount > 0 {
		msg += fmt.Sprintf(", %d failed", result.FailedCount)
	}
	return msg
}
