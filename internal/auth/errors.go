package auth

import "errors"

// LoginError is a failed login with the message to show the user
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// userMessager is implemented by errors whose payload carries display text
type userMessager interface {
	UserMessage() string
}

// UserMessage extracts the display text from a login failure, defaulting to
// DefaultFailureMessage.
func UserMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return DefaultFailureMessage
}
