package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/maoni/core/user"
)

type (
	// Session is the snapshot of the currently authenticated identity. User is
	// a copy, not a live reference: later changes to the canonical user record
	// do not propagate here.
	Session struct {
		Token      string    `json:"token"`
		User       user.User `json:"user"`
		LoggedInAt time.Time `json:"loggedInAt"` // UTC
	}

	// Slot is the single persisted session slot (one active session per
	// process, like one browser tab).
	Slot interface {
		// ReadSession returns nil when no session is established.
		ReadSession() (*Session, error)
		WriteSession(sess Session) error
		ClearSession() error
	}

	Manager struct {
		slot Slot
	}
)

func NewManager(slot Slot) *Manager {
	return &Manager{slot: slot}
}

// Current returns the established session, or nil when there is none; callers
// redirect to the login entry point in that case.
func (m *Manager) Current() (*Session, error) {
	return m.slot.ReadSession()
}

// Establish writes a snapshot of usr into the session slot under a fresh
// token, replacing any previous session.
func (m *Manager) Establish(usr user.User) (*Session, error) {
	sess := Session{
		Token:      uuid.New().String(),
		User:       usr,
		LoggedInAt: time.Now().UTC(),
	}
	if err := m.slot.WriteSession(sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (m *Manager) Clear() error {
	return m.slot.ClearSession()
}
