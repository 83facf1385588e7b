package mock

import (
	"context"
	"fmt"
	"time"

	"ura-xlaw/internal/domain"
)

// DefaultAuthDelay simulates the login round trip
const DefaultAuthDelay = 800 * time.Millisecond

// InvalidCredentialsMessage is shown when the offline table has no match
const InvalidCredentialsMessage = "Mã nhân viên hoặc mật khẩu không đúng"

// AuthError is a rejected offline login
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "mock login rejected: " + e.Message
}

// UserMessage is the text shown on the login form
func (e *AuthError) UserMessage() string {
	return e.Message
}

// LoginResult mirrors the remote login payload
type LoginResult struct {
	Token   string
	User    domain.User
	Message string
}

// Authenticator checks credentials against the built-in staff table
type Authenticator struct {
	delay time.Duration
	now   func() time.Time
}

// NewAuthenticator creates an authenticator that waits delay per attempt
func NewAuthenticator(delay time.Duration) *Authenticator {
	return &Authenticator{delay: delay, now: time.Now}
}

// Login verifies staffID and password. Tokens look like mock-jwt-token-<unix ms>.
func (a *Authenticator) Login(ctx context.Context, staffID, password string) (*LoginResult, error) {
	if err := sleep(ctx, a.delay); err != nil {
		return nil, err
	}

	cred, ok := credentials[staffID]
	if !ok || cred.password != password {
		return nil, &AuthError{Message: InvalidCredentialsMessage}
	}

	user := cred.user
	user.Permissions = append([]string(nil), cred.user.Permissions...)

	return &LoginResult{
		Token:   fmt.Sprintf("mock-jwt-token-%d", a.now().UnixMilli()),
		User:    user,
		Message: "Đăng nhập thành công",
	}, nil
}
