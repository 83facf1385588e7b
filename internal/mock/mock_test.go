package mock

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ura-xlaw/internal/domain"
)

func TestResponder_CannedAnswers(t *testing.T) {
	r := NewResponder(0)

	tests := []struct {
		query    string
		contains string
	}{
		{"điều kiện cho vay thế chấp là gì?", "Điều 7, Thông tư 39/2016/TT-NHNN"},
		{"Điều kiện cho vay thế chấp là gì?", "Điều 7, Thông tư 39/2016/TT-NHNN"},
		{"TẠO CHECKLIST MỞ THẺ TÍN DỤNG", "Checklist: Mở Thẻ Tín Dụng"},
		{"so sánh nghị định 10/2023 và 99/2022 về đăng ký tsđb", "Khoản 5, Điều 1, Nghị định 10/2023/NĐ-CP"},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			answer, err := r.Respond(context.Background(), tc.query)
			require.NoError(t, err)
			assert.True(t, answer.Matched)
			assert.Equal(t, domain.ContentHTML, answer.ContentType)
			assert.Contains(t, answer.Text, tc.contains)
			assert.Contains(t, answer.Text, "status-badge")
		})
	}
}

func TestResponder_UnmatchedQueriesGetNoAnswer(t *testing.T) {
	r := NewResponder(0)

	for _, q := range []string{"asdkjasd", "", "điều kiện cho vay thế chấp là gì", " điều kiện cho vay thế chấp là gì?"} {
		answer, err := r.Respond(context.Background(), q)
		require.NoError(t, err, q)
		assert.False(t, answer.Matched, q)
		assert.Equal(t, NoAnswer, answer.Text)
		assert.Contains(t, answer.Text, "No Citation, No Answer")
	}
}

func TestResponder_WaitsForDelay(t *testing.T) {
	r := NewResponder(30 * time.Millisecond)

	start := time.Now()
	_, err := r.Respond(context.Background(), "asdkjasd")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestResponder_CancelledDuringDelay(t *testing.T) {
	r := NewResponder(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Respond(ctx, "asdkjasd")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAuthenticator_CredentialTable(t *testing.T) {
	a := NewAuthenticator(0)

	tests := []struct {
		staffID  string
		password string
		role     string
	}{
		{"admin", "admin123", "Administrator"},
		{"legal01", "legal123", "Legal Officer"},
		{"credit01", "credit123", "Credit Officer"},
		{"demo", "demo", "Demo User"},
	}

	tokenPattern := regexp.MustCompile(`^mock-jwt-token-\d+$`)
	for _, tc := range tests {
		t.Run(tc.staffID, func(t *testing.T) {
			res, err := a.Login(context.Background(), tc.staffID, tc.password)
			require.NoError(t, err)
			assert.Equal(t, tc.role, res.User.Role)
			assert.Equal(t, tc.staffID, res.User.StaffID)
			assert.Regexp(t, tokenPattern, res.Token)
		})
	}
}

func TestAuthenticator_DemoProfile(t *testing.T) {
	a := NewAuthenticator(0)
	a.now = func() time.Time { return time.UnixMilli(1700000000000) }

	res, err := a.Login(context.Background(), "demo", "demo")
	require.NoError(t, err)
	assert.Equal(t, "Người dùng Demo", res.User.FullName)
	assert.Equal(t, "mock-jwt-token-1700000000000", res.Token)
}

func TestAuthenticator_Rejects(t *testing.T) {
	a := NewAuthenticator(0)

	for _, c := range [][2]string{{"x", "y"}, {"demo", "wrong"}, {"DEMO", "demo"}} {
		res, err := a.Login(context.Background(), c[0], c[1])
		assert.Nil(t, res)

		var authErr *AuthError
		require.True(t, errors.As(err, &authErr))
		assert.Equal(t, "Mã nhân viên hoặc mật khẩu không đúng", authErr.UserMessage())
	}
}

func TestAuthenticator_ProfileIsACopy(t *testing.T) {
	a := NewAuthenticator(0)

	res, err := a.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	res.User.Permissions[0] = "tampered"

	again, err := a.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "chat", again.User.Permissions[0])
}
