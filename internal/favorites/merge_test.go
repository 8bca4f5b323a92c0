// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/tipstack/internal/model"
)

type fakeMerger struct {
	result model.MergeResult
	err    error
	calls  int
	gotIDs []string
}

func (f *fakeMerger) MergeFavorites(_ context.Context, _ string, tipIDs []string) (model.MergeResult, error) {
	f.calls++
	f.gotIDs = tipIDs
	return f.result, f.err
}

func TestMerge_Success(t *testing.T) {
	sm, ctx := newSessionContext(t)
	m := NewManager(sm)
	m.Add(ctx, "a")
	m.Add(ctx, "b")

	merger := &fakeMerger{result: model.MergeResult{AddedCount: 2}}
	result, merged, err := m.Merge(ctx, merger, "tok")

	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, []string{"a", "b"}, merger.gotIDs)
	assert.Equal(t, 2, result.AddedCount)
	assert.Empty(t, m.Get(ctx), "local favorites must be cleared after a successful merge")

	assert.Equal(t, "Merged 2 favorites", SummaryMessage(result))
}

func TestMerge_FailureKeepsLocalFavorites(t *testing.T) {
	sm, ctx := newSessionContext(t)
	m := NewManager(sm)
	m.Add(ctx, "a")

	merger := &fakeMerger{err: errors.New("backend down")}
	_, merged, err := m.Merge(ctx, merger, "tok")

	require.Error(t, err)
	assert.False(t, merged)
	assert.Equal(t, []string{"a"}, m.Get(ctx), "failed merge must leave local favorites intact")
}

func TestMerge_EmptyIsNoop(t *testing.T) {
	sm, ctx := newSessionContext(t)
	m := NewManager(sm)

	merger := &fakeMerger{}
	_, merged, err := m.Merge(ctx, merger, "tok")

	require.NoError(t, err)
	assert.False(t, merged)
	assert.Zero(t, merger.calls, "merge endpoint must not be called with no favorites")
}

func TestMerge_InFlightGuard(t *testing.T) {
	sm, ctx := newSessionContext(t)
	m := NewManager(sm)
	m.Add(ctx, "a")
	sm.Put(ctx, sessionKeyMergeInFlight, true)

	merger := &fakeMerger{}
	_, merged, err := m.Merge(ctx, merger, "tok")

	require.NoError(t, err)
	assert.False(t, merged)
	assert.Zero(t, merger.calls, "duplicate merge within a session must be a no-op")
}

func TestSummaryMessage_AllCounts(t *testing.T) {
	msg := SummaryMessage(model.MergeResult{AddedCount: 2, SkippedCount: 1, FailedCount: 1})
	assert.Equal(t, "Merged 2 favorites, 1 already saved, 1 failed", msg)
}
