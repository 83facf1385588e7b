package auth

import "ura-xlaw/internal/domain"

// Phase is the outer session state
type Phase int

const (
	Anonymous Phase = iota
	Authenticating
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "anonymous"
}

// State is a snapshot of the session
type State struct {
	Phase     Phase
	User      *domain.User
	Token     string
	IsLoading bool
	Err       string
}

// IsAuthenticated reports whether a user is signed in
func (s State) IsAuthenticated() bool {
	return s.Phase == Authenticated
}

// transitions; every change to State goes through one of these

func loginStart(s State) State {
	s.Phase = Authenticating
	s.IsLoading = true
	s.Err = ""
	return s
}

func loginSuccess(s State, token string, user domain.User) State {
	return State{
		Phase: Authenticated,
		User:  &user,
		Token: token,
	}
}

func loginFailure(s State, msg string) State {
	return State{
		Phase: Anonymous,
		Err:   msg,
	}
}

func loggedOut(State) State {
	return State{Phase: Anonymous}
}

func setUser(s State, user domain.User) State {
	s.User = &user
	s.Phase = Authenticated
	return s
}
