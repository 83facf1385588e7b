package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ura-xlaw/internal/app"
	"ura-xlaw/internal/config"
	"ura-xlaw/internal/observability"
	"ura-xlaw/internal/storage"
)

// backendStub answers chat with one related document and 404s everything
// else, so login falls back to the offline table.
func backendStub(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"message": "Theo **Điều 7**, bên vay phải có tài sản bảo đảm.",
			"related_documents": [{
				"document_id": "39/2016/TT-NHNN",
				"title": "Điều 7",
				"document_title": "Thông tư 39/2016/TT-NHNN",
				"score": 0.9,
				"document_status": "Còn hiệu lực",
				"content": "Toàn văn Điều 7",
				"relationships": {
					"incoming": [{"document_id": "06/2023/TT-NHNN", "rela_type": "AMENDS", "content": "`+strings.Repeat("x", 200)+`"}],
					"outgoing": []
				}
			}]
		}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T, backendURL string) (*httptest.Server, *Server) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.API.BaseURL = backendURL
	cfg.API.Timeout = time.Second
	cfg.Mock.ReplyDelay = 0
	cfg.Mock.AuthDelay = 0

	logger := observability.Discard()
	srv, err := New(":0", func() *app.Workspace {
		return app.NewWorkspace(cfg, storage.NewMemoryStore(), logger)
	}, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts, srv
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func login(t *testing.T, c *http.Client, base, id, pw string) *http.Response {
	t.Helper()
	resp, err := c.PostForm(base+"/login", url.Values{"staff_id": {id}, "password": {pw}})
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, backendStub(t).URL)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body(t, resp))
}

func TestChatRequiresLogin(t *testing.T) {
	ts, _ := newTestServer(t, backendStub(t).URL)

	resp, err := newBrowser(t).Get(ts.URL + "/chat")
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body(t, resp), "Mã nhân viên")
}

func TestLoginFailureShowsMessage(t *testing.T) {
	ts, _ := newTestServer(t, backendStub(t).URL)

	resp := login(t, newBrowser(t), ts.URL, "x", "y")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Mã nhân viên hoặc mật khẩu không đúng")
}

func TestLoginAndChat(t *testing.T) {
	ts, _ := newTestServer(t, backendStub(t).URL)
	c := newBrowser(t)

	resp := login(t, c, ts.URL, "demo", "demo")
	page := body(t, resp)
	assert.Equal(t, "/chat", resp.Request.URL.Path)
	assert.Contains(t, page, "Xin chào!")
	assert.Contains(t, page, "Người dùng Demo")
	assert.Contains(t, page, "Thông tư 39/2016/TT-NHNN")

	resp, err := c.PostForm(ts.URL+"/chat", url.Values{"message": {"<script>alert(1)</script>"}})
	require.NoError(t, err)
	page = body(t, resp)

	assert.Contains(t, page, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "<strong>Điều 7</strong>")
	assert.Contains(t, page, "📚 Tài liệu liên quan")
	assert.Contains(t, page, "Còn hiệu lực")
	assert.Contains(t, page, strings.Repeat("x", 150)+"...")
	assert.Contains(t, page, "Xem thêm")

	resp, err = c.Post(ts.URL+"/chat/expand/06/2023/TT-NHNN", "", nil)
	require.NoError(t, err)
	page = body(t, resp)
	assert.Contains(t, page, strings.Repeat("x", 200))
	assert.Contains(t, page, "Thu gọn")

	resp, err = c.Get(ts.URL + "/chat/documents/39/2016/TT-NHNN")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Toàn văn Điều 7")

	resp, err = c.Get(ts.URL + "/chat/documents/does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestShortcutPrefillsComposer(t *testing.T) {
	ts, _ := newTestServer(t, backendStub(t).URL)
	c := newBrowser(t)
	login(t, c, ts.URL, "demo", "demo").Body.Close()

	resp, err := c.Get(ts.URL + "/chat?ask=2")
	require.NoError(t, err)
	assert.Contains(t, body(t, resp), "So sánh Nghị định 10/2023 và 99/2022 về đăng ký tsđb</textarea>")
}

func TestMockFallbackWhenBackendDown(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()
	ts, _ := newTestServer(t, down.URL)
	c := newBrowser(t)
	login(t, c, ts.URL, "admin", "admin123").Body.Close()

	resp, err := c.PostForm(ts.URL+"/chat", url.Values{"message": {"Điều kiện cho vay thế chấp là gì?"}})
	require.NoError(t, err)
	assert.Contains(t, body(t, resp), "Điều 7")
}

func TestLogoutAndNewChat(t *testing.T) {
	ts, _ := newTestServer(t, backendStub(t).URL)
	c := newBrowser(t)
	login(t, c, ts.URL, "demo", "demo").Body.Close()

	resp, err := c.PostForm(ts.URL+"/chat", url.Values{"message": {"câu hỏi đầu tiên"}})
	require.NoError(t, err)
	assert.Contains(t, body(t, resp), "câu hỏi đầu tiên")

	resp, err = c.Post(ts.URL+"/chat/new", "", nil)
	require.NoError(t, err)
	assert.NotContains(t, body(t, resp), "câu hỏi đầu tiên")

	resp, err = c.Post(ts.URL+"/logout", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	resp.Body.Close()

	resp, err = c.Get(ts.URL + "/chat")
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	resp.Body.Close()
}

func TestVisitorsAreIsolated(t *testing.T) {
	ts, srv := newTestServer(t, backendStub(t).URL)
	alice, bob := newBrowser(t), newBrowser(t)

	login(t, alice, ts.URL, "demo", "demo").Body.Close()

	resp, err := bob.Get(ts.URL + "/chat")
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	resp.Body.Close()

	assert.Equal(t, 2, srv.workspaces.len())
}
