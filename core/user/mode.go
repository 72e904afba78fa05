package user

import "github.com/pkg/errors"

// Auth form modes. The login/signup toggle is a two-state machine, not a
// rendering detail: a failed login on an unknown email transitions to Signup.
const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

type Mode string

func (m Mode) Toggle() Mode {
	if m == ModeLogin {
		return ModeSignup
	}
	return ModeLogin
}

// AfterLoginError returns the mode the auth form lands in after err.
// Only an unknown account moves the form to Signup; every other failure
// stays on Login for another attempt.
func (m Mode) AfterLoginError(err error) Mode {
	if errors.Cause(err) == ErrNotFound {
		return ModeSignup
	}
	return m
}

// AfterSignup returns the mode after a successful signup: back to Login,
// since a new account must log in explicitly.
func (m Mode) AfterSignup() Mode {
	return ModeLogin
}
