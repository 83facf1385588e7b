package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"ura-xlaw/internal/app"
	"ura-xlaw/internal/observability"
)

type ctxKey struct{}

// loggingMiddleware logs every request with its status and duration
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := observability.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			observability.LoggerFromContext(ctx, logger).LogAttrs(ctx, slog.LevelInfo, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// workspaceMiddleware attaches the visitor's workspace to the request
func workspaceMiddleware(ws *workspaces) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			workspace := ws.forRequest(w, r)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, workspace)))
		})
	}
}

// requireAuth sends anonymous visitors to the login page
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !workspaceFrom(r).Auth.State().IsAuthenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func workspaceFrom(r *http.Request) *app.Workspace {
	return r.Context().Value(ctxKey{}).(*app.Workspace)
}
