// Package web serves the browser client: a login page and a server-rendered
// chat page per visitor.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ura-xlaw/internal/api"
	"ura-xlaw/internal/chat"
	"ura-xlaw/internal/domain"
	"ura-xlaw/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the web client
type Server struct {
	Router     *chi.Mux
	Addr       string
	logger     *slog.Logger
	workspaces *workspaces
	renderer   *render.Renderer
	templates  *template.Template
}

// New creates the web client. factory is called once per new visitor.
func New(addr string, factory Factory, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"badgeClass": badgeClass,
		"inc":        func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		Addr:       addr,
		logger:     logger.With("component", "web"),
		workspaces: newWorkspaces(factory),
		renderer:   render.NewRenderer(),
		templates:  tmpl,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(workspaceMiddleware(s.workspaces))

		r.Get("/", s.handleIndex)
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Route("/chat", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", s.handleChatPage)
			r.Post("/", s.handleSend)
			r.Post("/new", s.handleNewChat)
			r.Get("/search", s.handleSearch)
			// document ids contain slashes, e.g. 39/2016/TT-NHNN
			r.Post("/expand/*", s.handleExpand)
			r.Get("/documents/*", s.handleDocument)
		})
	})

	s.Router = r
	return s, nil
}

// Start listens on Addr until the listener fails
func (s *Server) Start() error {
	s.logger.Info("starting web client", slog.String("addr", s.Addr))
	return http.ListenAndServe(s.Addr, s.Router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if workspaceFrom(r).Auth.State().IsAuthenticated() {
		http.Redirect(w, r, "/chat", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if ws.Auth.State().IsAuthenticated() {
		http.Redirect(w, r, "/chat", http.StatusSeeOther)
		return
	}
	s.renderPage(w, http.StatusOK, "login.html", loginPage{Error: ws.Auth.State().Err})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	staffID := strings.TrimSpace(r.FormValue("staff_id"))
	password := r.FormValue("password")

	if err := ws.Auth.Login(r.Context(), staffID, password); err != nil {
		s.renderPage(w, http.StatusUnauthorized, "login.html", loginPage{
			Error:   ws.Auth.State().Err,
			StaffID: staffID,
		})
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Auth.Logout(r.Context())
	ws.Chat.Clear()
	ws.Disclosure.Reset()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Disclosure.Close()

	page := s.chatPage(r)
	if n, err := strconv.Atoi(r.URL.Query().Get("ask")); err == nil {
		if sc, ok := chat.ShortcutAt(n); ok {
			page.Draft = sc.Question
		}
	}
	s.renderPage(w, http.StatusOK, "chat.html", page)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	text := strings.TrimSpace(r.FormValue("message"))

	_, err := ws.Chat.Send(r.Context(), text)
	switch {
	case err == nil, errors.Is(err, chat.ErrEmptyMessage):
		http.Redirect(w, r, "/chat#bottom", http.StatusSeeOther)
	case errors.Is(err, api.ErrUnauthorized):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, chat.ErrBusy):
		page := s.chatPage(r)
		page.Draft = text
		page.Notice = chat.LoadingText
		s.renderPage(w, http.StatusConflict, "chat.html", page)
	default:
		s.logger.Error("send failed", slog.Any("error", err))
		http.Error(w, chat.ErrorText, http.StatusInternalServerError)
	}
}

func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.Chat.Reset(r.Context()); err != nil {
		page := s.chatPage(r)
		page.Notice = chat.LoadingText
		s.renderPage(w, http.StatusConflict, "chat.html", page)
		return
	}
	ws.Disclosure.Reset()
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	workspaceFrom(r).Disclosure.Toggle(id)
	http.Redirect(w, r, "/chat#"+anchor(id), http.StatusSeeOther)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	id := chi.URLParam(r, "*")

	page, ok := s.documentPage(r, id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	ws.Disclosure.Open(id)
	s.renderPage(w, http.StatusOK, "document.html", page)
}

// documentPage looks the id up in the transcript first, then asks the
// backend.
func (s *Server) documentPage(r *http.Request, id string) (documentPage, bool) {
	ws := workspaceFrom(r)
	if id == "" {
		return documentPage{}, false
	}
	if doc, ok := ws.Chat.FindDocument(id); ok {
		return newDocumentPage(doc), true
	}
	if rel, ok := ws.Chat.FindRelationship(id); ok {
		return documentPage{ID: rel.DocumentID, Title: rel.DocumentID, Kind: rel.RelaType.Title(), Content: rel.Content}, true
	}

	doc, err := ws.Client.GetDocument(r.Context(), id)
	if err != nil {
		s.logger.Debug("document lookup failed", slog.String("document_id", id), slog.Any("error", err))
		return documentPage{}, false
	}
	return newDocumentPage(*doc), true
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	page := s.chatPage(r)
	page.Query = query
	if query != "" {
		results, err := ws.Client.SearchDocuments(r.Context(), query)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			page.Notice = "Không thể tìm kiếm văn bản lúc này"
		} else {
			page.Results = results
			page.Searched = true
		}
	}
	s.renderPage(w, http.StatusOK, "chat.html", page)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	var sb strings.Builder
	if err := s.templates.ExecuteTemplate(&sb, name, data); err != nil {
		s.logger.Error("template failed", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(sb.String()))
}

func badgeClass(status domain.DocumentStatus) string {
	switch status {
	case domain.StatusValid:
		return "status-valid"
	case domain.StatusPartiallyExpired:
		return "status-partial"
	case domain.StatusExpired:
		return "status-expired"
	}
	return ""
}

// anchor turns a document id into a fragment-safe element id
func anchor(id string) string {
	return "rel-" + strings.NewReplacer("/", "-", " ", "-").Replace(id)
}
