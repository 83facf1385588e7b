// Package chat orchestrates one conversation: the transcript, the loading
// state and the remote-then-mock reply pipeline.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ura-xlaw/internal/api"
	"ura-xlaw/internal/domain"
	"ura-xlaw/internal/format"
	"ura-xlaw/internal/mock"
)

var (
	// ErrEmptyMessage is returned for a send with no text
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy is returned while a previous message is still awaiting its reply
	ErrBusy = errors.New("a reply is already pending")
)

// Status is the session's send state
type Status int

const (
	Idle Status = iota
	AwaitingResponse
)

func (s Status) String() string {
	if s == AwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// Backend is the remote chat API
type Backend interface {
	Chat(ctx context.Context, message string) (*api.ChatResponse, error)
	NewChat(ctx context.Context) (*api.NewChatResponse, error)
}

// Fallback produces a reply when the backend cannot
type Fallback interface {
	Respond(ctx context.Context, query string) (mock.Answer, error)
}

// Hooks let a front end follow the session. Both run synchronously on the
// sending goroutine, in transcript order.
type Hooks struct {
	MessageAppended func(domain.Message)
	LoadingChanged  func(loading bool)
}

// Session is one conversation
type Session struct {
	mu       sync.RWMutex
	messages []domain.Message
	status   Status

	backend  Backend
	fallback Fallback
	timeout  time.Duration
	hooks    Hooks
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Session
type Option func(*Session)

// WithTimeout bounds each remote chat call
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithHooks installs front-end callbacks
func WithHooks(h Hooks) Option {
	return func(s *Session) { s.hooks = h }
}

// WithLogger sets the session logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession starts a conversation seeded with the welcome message.
// fallback may be nil to surface backend failures as the error reply.
func NewSession(backend Backend, fallback Fallback, opts ...Option) *Session {
	s := &Session{
		backend:  backend,
		fallback: fallback,
		timeout:  api.DefaultTimeout,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "chat")
	s.messages = []domain.Message{s.welcome()}
	return s
}

func (s *Session) welcome() domain.Message {
	return s.newMessage(WelcomeText, domain.OriginAssistant, domain.ContentHTML, nil)
}

func (s *Session) newMessage(text string, origin domain.Origin, ct domain.ContentType, docs []domain.RelatedDocument) domain.Message {
	return domain.Message{
		ID:               uuid.NewString(),
		Text:             text,
		Origin:           origin,
		ContentType:      ct,
		CreatedAt:        s.now(),
		RelatedDocuments: docs,
	}
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Status returns the current send state
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// IsLoading reports whether a reply is pending
func (s *Session) IsLoading() bool {
	return s.Status() == AwaitingResponse
}

// Send appends the user message and then exactly one assistant reply: the
// formatted backend answer, a canned answer when the backend failed, or the
// error text when that failed too. The returned error is only set when the
// message was refused (empty, busy) or the backend rejected the session; the
// transcript is unchanged in the first case.
func (s *Session) Send(ctx context.Context, text string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.status == AwaitingResponse {
		s.mu.Unlock()
		return domain.Message{}, ErrBusy
	}
	s.status = AwaitingResponse
	s.mu.Unlock()

	s.append(s.newMessage(text, domain.OriginUser, domain.ContentUnknown, nil))
	s.setLoading(true)
	defer s.finish()

	reply, err := s.reply(ctx, text)
	if errors.Is(err, api.ErrUnauthorized) {
		return domain.Message{}, err
	}
	if err != nil {
		s.logger.Error("error sending message", slog.Any("error", err))
		reply = s.newMessage(ErrorText, domain.OriginAssistant, domain.ContentUnknown, nil)
	}
	s.append(reply)
	return reply, nil
}

func (s *Session) finish() {
	s.mu.Lock()
	s.status = Idle
	s.mu.Unlock()
	s.setLoading(false)
}

func (s *Session) reply(ctx context.Context, text string) (msg domain.Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reply panicked: %v", r)
		}
	}()

	remote, apiErr := s.ask(ctx, text)
	if apiErr == nil {
		return s.fromRemote(remote), nil
	}
	if errors.Is(apiErr, api.ErrUnauthorized) {
		return domain.Message{}, apiErr
	}
	if s.fallback == nil {
		return domain.Message{}, apiErr
	}

	s.logger.Warn("API not available, using mock response", slog.Any("error", apiErr))

	answer, err := s.fallback.Respond(ctx, text)
	if err != nil {
		return domain.Message{}, fmt.Errorf("mock response failed: %w", err)
	}
	return s.newMessage(answer.Text, domain.OriginAssistant, answer.ContentType, nil), nil
}

func (s *Session) ask(ctx context.Context, text string) (*api.ChatResponse, error) {
	if s.backend == nil {
		return nil, errors.New("no backend configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.backend.Chat(ctx, text)
}

func (s *Session) fromRemote(resp *api.ChatResponse) domain.Message {
	text := format.Format(resp.Message, resp.RelatedDocuments)
	// a zero time means the backend did not measure it
	if secs, ok := resp.ProcessingTime(); ok && secs > 0 {
		text = format.WithProcessingTime(text, secs)
	}

	// the related-documents section is markdown; a bare answer is sniffed
	ct := domain.ContentUnknown
	if len(resp.RelatedDocuments) > 0 {
		ct = domain.ContentMarkdown
	}
	return s.newMessage(text, domain.OriginAssistant, ct, resp.RelatedDocuments)
}

func (s *Session) append(msg domain.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	if s.hooks.MessageAppended != nil {
		s.hooks.MessageAppended(msg)
	}
}

func (s *Session) setLoading(loading bool) {
	if s.hooks.LoadingChanged != nil {
		s.hooks.LoadingChanged(loading)
	}
}

// Reset starts a new conversation. The backend is told on a best-effort
// basis; a pending send makes Reset fail with ErrBusy.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.status == AwaitingResponse {
		s.mu.Unlock()
		return ErrBusy
	}
	s.messages = []domain.Message{s.welcome()}
	s.mu.Unlock()

	if s.backend != nil {
		if _, err := s.backend.NewChat(ctx); err != nil {
			s.logger.Debug("backend did not start a new chat", slog.Any("error", err))
		}
	}
	return nil
}

// Clear drops the transcript locally without telling the backend
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []domain.Message{s.welcome()}
}

// FindDocument returns the most recent related document with the given id
func (s *Session) FindDocument(documentID string) (domain.RelatedDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		for _, doc := range s.messages[i].RelatedDocuments {
			if doc.DocumentID == documentID {
				return doc, true
			}
		}
	}
	return domain.RelatedDocument{}, false
}

// FindRelationship returns the most recent relationship pointing at
// documentID, as shown in a related-documents section.
func (s *Session) FindRelationship(documentID string) (domain.Relationship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		for _, doc := range s.messages[i].RelatedDocuments {
			for _, rels := range [][]domain.Relationship{doc.Relationships.Incoming, doc.Relationships.Outgoing} {
				for _, rel := range rels {
					if rel.DocumentID == documentID {
						return rel, true
					}
				}
			}
		}
	}
	return domain.Relationship{}, false
}
