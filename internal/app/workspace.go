// Package app assembles the per-user object graph shared by the terminal
// and web front ends.
package app

import (
	"log/slog"

	"ura-xlaw/internal/api"
	"ura-xlaw/internal/auth"
	"ura-xlaw/internal/chat"
	"ura-xlaw/internal/config"
	"ura-xlaw/internal/mock"
	"ura-xlaw/internal/render"
	"ura-xlaw/internal/storage"
)

// Workspace is everything one signed-in user interacts with
type Workspace struct {
	Client     *api.Client
	Auth       *auth.Manager
	Chat       *chat.Session
	Disclosure *render.Disclosure
}

// NewWorkspace wires a backend client, auth manager and chat session around
// store. A 401 from any backend call signs the user out and drops the
// transcript.
func NewWorkspace(cfg *config.Config, store storage.Store, logger *slog.Logger, opts ...chat.Option) *Workspace {
	ws := &Workspace{Disclosure: render.NewDisclosure()}

	ws.Client = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout,
		api.WithLogger(logger.With("component", "api")),
		api.WithTokenSource(func() string { return ws.Auth.Token() }),
	)

	var (
		authFallback auth.Fallback
		chatFallback chat.Fallback
	)
	if cfg.Mock.Enabled {
		authFallback = mock.NewAuthenticator(cfg.Mock.AuthDelay)
		chatFallback = mock.NewResponder(cfg.Mock.ReplyDelay)
	}

	ws.Auth = auth.NewManager(ws.Client, authFallback, store, logger)

	opts = append([]chat.Option{chat.WithTimeout(cfg.API.Timeout), chat.WithLogger(logger)}, opts...)
	ws.Chat = chat.NewSession(ws.Client, chatFallback, opts...)

	ws.Client.SetUnauthorizedHandler(ws.expire)
	return ws
}

func (ws *Workspace) expire() {
	if !ws.Auth.State().IsAuthenticated() {
		return
	}
	ws.Auth.Expire()
	ws.Chat.Clear()
	ws.Disclosure.Reset()
}
