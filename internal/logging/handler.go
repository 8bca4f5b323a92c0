// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that forwards logs at WARN
// level and above to an external error-reporting endpoint.
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	reportTimeout = 5 * time.Second
	reportBuffer  = 256
)

// reportEvent is the payload posted to the reporting endpoint.
type reportEvent struct {
	Level     string            `json:"level"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// ReportHandler is a slog.Handler that wraps another handler and also posts
// WARN and ERROR level records to an external reporting endpoint. Posting is
// asynchronous; a full queue drops the report rather than blocking the
// request path.
type ReportHandler struct {
	inner  slog.Handler
	level  slog.Level
	queue  chan reportEvent
	done   chan struct{}
	dsn    string
	client *http.Client
}

// NewReportHandler creates a ReportHandler that wraps the given handler and
// posts records at WARN and above to dsn.
func NewReportHandler(inner slog.Handler, dsn string) *ReportHandler {
	return NewReportHandlerWithLevel(inner, dsn, slog.LevelWarn)
}

// NewReportHandlerWithLevel creates a ReportHandler with a custom minimum level.
func NewReportHandlerWithLevel(inner slog.Handler, dsn string, level slog.Level) *ReportHandler {
	h := &ReportHandler{
		inner:  inner,
		level:  level,
		queue:  make(chan reportEvent, reportBuffer),
		done:   make(chan struct{}),
		dsn:    dsn,
		client: &http.Client{Timeout: reportTimeout},
	}
	go h.worker()
	return h
}

// Enabled implements slog.Handler.
func (h *ReportHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ReportHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.enqueue(r)
	}
	return nil
}

// WithAttrs implements slog.Handler. The derived handler shares the queue
// and worker with its parent.
func (h *ReportHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *ReportHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}

// Close stops the worker after draining queued reports.
func (h *ReportHandler) Close() {
	close(h.queue)
	<-h.done
}

func (h *ReportHandler) enqueue(r slog.Record) {
	ev := reportEvent{
		Level:     levelString(r.Level),
		Message:   r.Message,
		Timestamp: r.Time,
	}
	if r.NumAttrs() > 0 {
		ev.Fields = make(map[string]string, r.NumAttrs())
		r.Attrs(func(a slog.Attr) bool {
			ev.Fields[a.Key] = a.Value.String()
			return true
		})
	}

	select {
	case h.queue <- ev:
	default:
		// Queue full; dropping is better than stalling a request.
	}
}

func (h *ReportHandler) worker() {
	defer close(h.done)
	for ev := range h.queue {
		h.post(ev)
	}
}

func (h *ReportHandler) post(ev reportEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.dsn, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		// The reporting endpoint is best-effort; nothing useful to do here.
		return
	}
	_ = resp.Body.Close()
}

func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	default:
		return "info"
	}
}
