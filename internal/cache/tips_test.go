// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/model"
)

// fakeTipSource is a scriptable TipSource for cache tests.
type fakeTipSource struct {
	tips  map[string]model.Tip
	page  model.Page[model.Tip]
	err   error
	calls int
}

func (f *fakeTipSource) LatestTips(_ context.Context, pageNumber, pageSize int) (model.Page[model.Tip], error) {
	f.calls++
	return f.page, f.err
}

func (f *fakeTipSource) PopularTips(_ context.Context, pageNumber, pageSize int) (model.Page[model.Tip], error) {
	f.calls++
	return f.page, f.err
}

func (f *fakeTipSource) TipsByCategory(_ context.Context, categoryID string, p api.ListParams) (model.Page[model.Tip], error) {
	f.calls++
	return f.page, f.err
}

func (f *fakeTipSource) SearchTips(_ context.Context, q string, p api.ListParams) (model.Page[model.Tip], error) {
	f.calls++
	return f.page, f.err
}

func (f *fakeTipSource) RelatedTips(_ context.Context, tipID string, limit int) ([]model.Tip, error) {
	f.calls++
	return f.page.Items, f.err
}

func (f *fakeTipSource) GetTip(_ context.Context, id string) (model.Tip, error) {
	f.calls++
	if f.err != nil {
		return model.Tip{}, f.err
	}
	tip, ok := f.tips[id]
	if !ok {
		return model.Tip{}, errors.New("not found")
	}
	return tip, nil
}

func newTipCacheForTest(t *testing.T, source TipSource) *TipCache {
	t.Helper()
	mem := NewSimpleMemoryCache(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })
	return NewTipCache(mem, source)
}

func TestTipCache_ByID_MatchesRequestedID(t *testing.T) {
	source := &fakeTipSource{tips: map[string]model.Tip{
		"tip-1": {ID: "tip-1", Title: "One"},
		"tip-2": {ID: "tip-2", Title: "Two"},
	}}
	c := newTipCacheForTest(t, source)
	ctx := context.Background()

	for _, id := range []string{"tip-1", "tip-2", "tip-1"} {
		tip, err := c.ByID(ctx, id)
		if err != nil {
			t.Fatalf("ByID(%s): %v", id, err)
		}
		if tip.ID != id {
			t.Errorf("ByID(%s) returned tip %s", id, tip.ID)
		}
	}
}

func TestTipCache_ByID_PropagatesError(t *testing.T) {
	source := &fakeTipSource{err: errors.New("backend down")}
	c := newTipCacheForTest(t, source)

	if _, err := c.ByID(context.Background(), "tip-1"); err == nil {
		t.Fatal("expected error from ByID when backend fails")
	}
}

func TestTipCache_ListFailure_ReturnsEmptyPage(t *testing.T) {
	source := &fakeTipSource{err: errors.New("backend down")}
	c := newTipCacheForTest(t, source)

	page := c.Latest(context.Background(), 3, 24)

	if len(page.Items) != 0 {
		t.Errorf("items = %d, want 0", len(page.Items))
	}
	md := page.Metadata
	if md.TotalItems != 0 || md.TotalPages != 0 {
		t.Errorf("metadata totals = %+v, want zeros", md)
	}
	if md.PageNumber != 3 || md.PageSize != 24 {
		t.Errorf("metadata paging = %+v, must echo requested page 3 size 24", md)
	}
}

func TestTipCache_ListHit_SkipsBackend(t *testing.T) {
	source := &fakeTipSource{page: model.Page[model.Tip]{
		Items:    []model.Tip{{ID: "tip-1"}},
		Metadata: model.Metadata{TotalItems: 1, PageNumber: 1, PageSize: 12, TotalPages: 1},
	}}
	c := newTipCacheForTest(t, source)
	ctx := context.Background()

	first := c.Latest(ctx, 1, 12)
	second := c.Latest(ctx, 1, 12)

	if source.calls != 1 {
		t.Errorf("backend calls = %d, want 1", source.calls)
	}
	if len(first.Items) != 1 || len(second.Items) != 1 {
		t.Errorf("pages = %d/%d items", len(first.Items), len(second.Items))
	}
}

func TestTipCache_Invalidate(t *testing.T) {
	source := &fakeTipSource{page: model.Page[model.Tip]{
		Items:    []model.Tip{{ID: "tip-1"}},
		Metadata: model.Metadata{TotalItems: 1, PageNumber: 1, PageSize: 12, TotalPages: 1},
	}}
	c := newTipCacheForTest(t, source)
	ctx := context.Background()

	_ = c.Latest(ctx, 1, 12)
	c.Invalidate(ctx)
	_ = c.Latest(ctx, 1, 12)

	if source.calls != 2 {
		t.Errorf("backend calls = %d, want 2 after invalidation", source.calls)
	}
}

func TestTipCache_RelatedFailure_ReturnsNil(t *testing.T) {
	source := &fakeTipSource{err: errors.New("backend down")}
	c := newTipCacheForTest(t, source)

	if got := c.Related(context.Background(), "tip-1", 4); got != nil {
		t.Errorf("Related on failure = %v, want nil", got)
	}
}
