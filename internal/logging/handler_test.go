// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// collectServer records every report it receives.
type collectServer struct {
	mu     sync.Mutex
	events []reportEvent
}

func (c *collectServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev reportEvent
		_ = json.NewDecoder(r.Body).Decode(&ev)
		c.mu.Lock()
		c.events = append(c.events, ev)
		c.mu.Unlock()
	}
}

func (c *collectServer) all() []reportEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]reportEvent(nil), c.events...)
}

func newTestHandler(t *testing.T) (*ReportHandler, *collectServer) {
	t.Helper()

	collector := &collectServer{}
	srv := httptest.NewServer(collector.handler())
	t.Cleanup(srv.Close)

	inner := slog.NewTextHandler(io.Discard, nil)
	return NewReportHandler(inner, srv.URL), collector
}

func TestReportHandler_ForwardsWarnAndAbove(t *testing.T) {
	h, collector := newTestHandler(t)
	logger := slog.New(h)

	logger.Info("just info", "k", "v")
	logger.Warn("something off", "code", "42")
	logger.Error("something broke")

	// Close drains the queue before the collector is inspected.
	h.Close()

	events := collector.all()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (warn + error)", len(events))
	}
	if events[0].Level != "warning" || events[0].Message != "something off" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[0].Fields["code"] != "42" {
		t.Errorf("fields = %v", events[0].Fields)
	}
	if events[1].Level != "error" {
		t.Errorf("second event level = %q", events[1].Level)
	}
}

func TestReportHandler_InnerAlwaysReceives(t *testing.T) {
	var buf safeBuffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	h := NewReportHandler(inner, srv.URL)
	logger := slog.New(h)

	logger.Debug("debug line")
	h.Close()

	if buf.String() == "" {
		t.Error("inner handler should receive records below the report level")
	}
}

// safeBuffer is a goroutine-safe bytes buffer for test logging.
type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
