package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ura-xlaw/internal/api"
	"ura-xlaw/internal/domain"
	"ura-xlaw/internal/mock"
	"ura-xlaw/internal/storage"
)

// fakeRemote lets each test script the backend
type fakeRemote struct {
	login     func(staffID, password string) (*api.LoginResponse, error)
	logoutErr error
	me        func() (*domain.User, error)
	logouts   int
}

func (f *fakeRemote) Login(_ context.Context, staffID, password string) (*api.LoginResponse, error) {
	if f.login == nil {
		return nil, errors.New("connection refused")
	}
	return f.login(staffID, password)
}

func (f *fakeRemote) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeRemote) Me(context.Context) (*domain.User, error) {
	if f.me == nil {
		return nil, errors.New("connection refused")
	}
	return f.me()
}

func unreachableClient(t *testing.T) *api.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()
	return api.NewClient(url, time.Second)
}

func TestLogin_DemoWhileBackendUnreachable(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	m := NewManager(unreachableClient(t), mock.NewAuthenticator(0), store, nil)

	var phases []Phase
	m.OnChange(func(s State) { phases = append(phases, s.Phase) })

	require.NoError(t, m.Login(context.Background(), "demo", "demo"))

	st := m.State()
	assert.True(t, st.IsAuthenticated())
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Err)
	require.NotNil(t, st.User)
	assert.Equal(t, "Người dùng Demo", st.User.FullName)
	assert.Regexp(t, regexp.MustCompile(`^mock-jwt-token-\d+$`), st.Token)
	assert.Equal(t, []Phase{Authenticating, Authenticated}, phases)

	rec, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st.Token, rec.Token)
	assert.Equal(t, "demo", rec.User.StaffID)
}

func TestLogin_UnknownCredentialsWhileBackendUnreachable(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(unreachableClient(t), mock.NewAuthenticator(0), store, nil)

	err := m.Login(context.Background(), "x", "y")

	var loginErr *LoginError
	require.True(t, errors.As(err, &loginErr))
	assert.Equal(t, "Mã nhân viên hoặc mật khẩu không đúng", loginErr.Message)

	st := m.State()
	assert.Equal(t, Anonymous, st.Phase)
	assert.Equal(t, "Mã nhân viên hoặc mật khẩu không đúng", st.Err)
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)

	_, ok, _ := store.Load()
	assert.False(t, ok)
}

func TestLogin_RemoteSuccessSkipsFallback(t *testing.T) {
	remote := &fakeRemote{login: func(id, pw string) (*api.LoginResponse, error) {
		return &api.LoginResponse{Token: "real-jwt", User: domain.User{StaffID: id, FullName: "Remote"}}, nil
	}}
	m := NewManager(remote, nil, storage.NewMemoryStore(), nil)

	require.NoError(t, m.Login(context.Background(), "someone", "pw"))
	assert.Equal(t, "real-jwt", m.Token())
	assert.Equal(t, "Remote", m.State().User.FullName)
}

func TestLogin_WithoutFallbackUsesBackendMessage(t *testing.T) {
	remote := &fakeRemote{login: func(string, string) (*api.LoginResponse, error) {
		return nil, &api.StatusError{StatusCode: 400, Message: "Tài khoản bị khóa"}
	}}
	m := NewManager(remote, nil, storage.NewMemoryStore(), nil)

	err := m.Login(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Equal(t, "Tài khoản bị khóa", m.State().Err)
}

func TestLogin_DefaultFailureMessage(t *testing.T) {
	m := NewManager(&fakeRemote{}, nil, storage.NewMemoryStore(), nil)

	require.Error(t, m.Login(context.Background(), "a", "b"))
	assert.Equal(t, DefaultFailureMessage, m.State().Err)
}

func TestLogin_ClearsPreviousError(t *testing.T) {
	m := NewManager(&fakeRemote{}, mock.NewAuthenticator(0), storage.NewMemoryStore(), nil)

	require.Error(t, m.Login(context.Background(), "x", "y"))
	require.NotEmpty(t, m.State().Err)

	require.NoError(t, m.Login(context.Background(), "admin", "admin123"))
	assert.Empty(t, m.State().Err)
}

func TestLogout_AlwaysClearsLocalSession(t *testing.T) {
	remote := &fakeRemote{logoutErr: errors.New("backend down")}
	store := storage.NewMemoryStore()
	m := NewManager(remote, mock.NewAuthenticator(0), store, nil)
	require.NoError(t, m.Login(context.Background(), "legal01", "legal123"))

	m.Logout(context.Background())

	assert.Equal(t, 1, remote.logouts)
	assert.Equal(t, Anonymous, m.State().Phase)
	assert.Empty(t, m.Token())
	_, ok, _ := store.Load()
	assert.False(t, ok)
}

func TestRestore_FromPersistedSession(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(storage.Record{Token: "saved", User: domain.User{StaffID: "credit01"}}))

	m := NewManager(&fakeRemote{}, nil, store, nil)
	require.NoError(t, m.Restore())

	assert.True(t, m.State().IsAuthenticated())
	assert.Equal(t, "saved", m.Token())
}

func TestRestore_NothingSaved(t *testing.T) {
	m := NewManager(&fakeRemote{}, nil, storage.NewMemoryStore(), nil)
	require.NoError(t, m.Restore())
	assert.Equal(t, Anonymous, m.State().Phase)
}

func TestExpire_OnUnauthorizedFromBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := storage.NewMemoryStore()
	var m *Manager
	client := api.NewClient(server.URL, time.Second,
		api.WithTokenSource(func() string { return m.Token() }),
		api.WithUnauthorizedHandler(func() { m.Expire() }),
	)
	m = NewManager(client, mock.NewAuthenticator(0), store, nil)

	// backend rejects the login with 401, offline table accepts it
	require.NoError(t, m.Login(context.Background(), "demo", "demo"))
	require.True(t, m.State().IsAuthenticated())

	_, err := client.Chat(context.Background(), "x")
	assert.True(t, errors.Is(err, api.ErrUnauthorized))
	assert.Equal(t, Anonymous, m.State().Phase)
	_, ok, _ := store.Load()
	assert.False(t, ok)
}

func TestRefresh_UpdatesProfile(t *testing.T) {
	remote := &fakeRemote{me: func() (*domain.User, error) {
		return &domain.User{StaffID: "demo", FullName: "Tên mới"}, nil
	}}
	store := storage.NewMemoryStore()
	m := NewManager(remote, mock.NewAuthenticator(0), store, nil)

	_, err := m.Refresh(context.Background())
	assert.True(t, errors.Is(err, ErrNotAuthenticated))

	require.NoError(t, m.Login(context.Background(), "demo", "demo"))
	user, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tên mới", user.FullName)
	assert.Equal(t, "Tên mới", m.State().User.FullName)

	rec, _, _ := store.Load()
	assert.Equal(t, "Tên mới", rec.User.FullName)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, DefaultFailureMessage, UserMessage(errors.New("dial tcp")))
	assert.Equal(t, "x", UserMessage(&mock.AuthError{Message: "x"}))
	assert.Equal(t, DefaultFailureMessage, UserMessage(&api.StatusError{StatusCode: 500}))
}

func TestOnChange_EveryListenerSeesEachTransition(t *testing.T) {
	m := NewManager(&fakeRemote{}, mock.NewAuthenticator(0), storage.NewMemoryStore(), nil)

	var first, second []Phase
	m.OnChange(func(s State) { first = append(first, s.Phase) })
	m.OnChange(func(s State) { second = append(second, s.Phase) })

	require.NoError(t, m.Login(context.Background(), "demo", "demo"))
	m.Logout(context.Background())

	want := []Phase{Authenticating, Authenticated, Anonymous}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}
