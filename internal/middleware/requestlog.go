// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	ua "github.com/mileusna/useragent"
)

// RequestLogger logs each completed request with status, duration, and a
// coarse device classification from the User-Agent header. Bot traffic is
// logged at debug level to keep production logs readable.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			agent := ua.Parse(r.UserAgent())

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"ip", getClientIP(r),
				"device", deviceType(agent),
				"browser", agent.Name,
				"request_id", GetRequestID(r),
			}

			if agent.Bot {
				logger.Debug("request", attrs...)
				return
			}
			logger.Info("request", attrs...)
		})
	}
}

func deviceType(agent ua.UserAgent) string {
	switch {
	case agent.Bot:
		return "bot"
	case agent.Mobile:
		return "mobile"
	case agent.Tablet:
		return "tablet"
	case agent.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}
