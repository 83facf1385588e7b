package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"ura-xlaw/internal/app"
)

const (
	workspaceCookie = "ura_ws"
	// workspaceIdleTTL is how long an unused visitor workspace is kept
	workspaceIdleTTL = 12 * time.Hour
)

// Factory builds a fresh workspace for a new visitor
type Factory func() *app.Workspace

type entry struct {
	ws       *app.Workspace
	lastSeen time.Time
}

// workspaces maps visitor cookies to their workspace
type workspaces struct {
	mu      sync.Mutex
	entries map[string]*entry
	factory Factory
	now     func() time.Time
}

func newWorkspaces(factory Factory) *workspaces {
	return &workspaces{
		entries: make(map[string]*entry),
		factory: factory,
		now:     time.Now,
	}
}

// forRequest returns the visitor's workspace, creating one and setting the
// cookie when the request carries none or an unknown one.
func (w *workspaces) forRequest(rw http.ResponseWriter, r *http.Request) *app.Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.prune(now)

	if c, err := r.Cookie(workspaceCookie); err == nil {
		if e, ok := w.entries[c.Value]; ok {
			e.lastSeen = now
			return e.ws
		}
	}

	id := uuid.NewString()
	e := &entry{ws: w.factory(), lastSeen: now}
	w.entries[id] = e

	http.SetCookie(rw, &http.Cookie{
		Name:     workspaceCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return e.ws
}

func (w *workspaces) prune(now time.Time) {
	for id, e := range w.entries {
		if now.Sub(e.lastSeen) > workspaceIdleTTL {
			delete(w.entries, id)
		}
	}
}

func (w *workspaces) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}
