package docstore

import (
	"time"

	"github.com/trezcool/maoni/core/session"
)

// sessionDoc is the persisted shape of the session slot.
type sessionDoc struct {
	Token      string    `json:"token"`
	User       userDoc   `json:"user"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

type SessionSlot struct {
	store *Store
}

var _ session.Slot = (*SessionSlot)(nil)

func NewSessionSlot(store *Store) *SessionSlot {
	return &SessionSlot{store: store}
}

func (slot *SessionSlot) ReadSession() (*session.Session, error) {
	var doc sessionDoc
	if !slot.store.Load(sessionKey, &doc) {
		return nil, nil
	}
	return &session.Session{
		Token:      doc.Token,
		User:       userFromDoc(doc.User),
		LoggedInAt: doc.LoggedInAt,
	}, nil
}

func (slot *SessionSlot) WriteSession(sess session.Session) error {
	return slot.store.Save(sessionKey, sessionDoc{
		Token:      sess.Token,
		User:       docFromUser(sess.User),
		LoggedInAt: sess.LoggedInAt,
	})
}

func (slot *SessionSlot) ClearSession() error {
	return slot.store.Delete(sessionKey)
}
