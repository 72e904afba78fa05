package user

import (
	"testing"

	"github.com/pkg/errors"
)

func TestMode_Toggle(t *testing.T) {
	if got := ModeLogin.Toggle(); got != ModeSignup {
		t.Errorf("Toggle() = %v, want %v", got, ModeSignup)
	}
	if got := ModeSignup.Toggle(); got != ModeLogin {
		t.Errorf("Toggle() = %v, want %v", got, ModeLogin)
	}
}

func TestMode_AfterLoginError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Mode
	}{
		{name: "unknown account moves to signup", err: ErrNotFound, want: ModeSignup},
		{name: "wrapped unknown account moves to signup", err: errors.Wrap(ErrNotFound, "authenticating"), want: ModeSignup},
		{name: "wrong password stays on login", err: ErrWrongPassword, want: ModeLogin},
		{name: "other errors stay on login", err: errors.New("boom"), want: ModeLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModeLogin.AfterLoginError(tt.err); got != tt.want {
				t.Errorf("AfterLoginError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMode_AfterSignup(t *testing.T) {
	if got := ModeSignup.AfterSignup(); got != ModeLogin {
		t.Errorf("AfterSignup() = %v, want %v", got, ModeLogin)
	}
}
