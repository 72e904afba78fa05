// Package docstore persists the portal's collections as one JSON document on
// disk, each collection serialized whole under a fixed key. A missing file,
// missing key or unparseable value reads as an empty collection; corruption is
// never surfaced to the domain layer.
package docstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Collection keys.
const (
	usersKey    = "users"
	feedbackKey = "feedbackData"
	sessionKey  = "loggedInUser"
)

type Store struct {
	mu   sync.RWMutex
	path string
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating store directory")
		}
	}
	return &Store{path: path}, nil
}

// Load reads the collection under key into v. It reports whether the key was
// present and parseable; v is left untouched otherwise.
func (s *Store) Load(key string, v interface{}) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.readDoc()[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Has reports whether the key is present at all, parseable or not.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.readDoc()[key]
	return ok
}

// Save writes v as the whole collection under key, leaving other keys as they
// are. The document is replaced atomically on disk.
func (s *Store) Save(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshalling %q", key)
	}
	doc := s.readDoc()
	doc[key] = raw
	return s.writeDoc(doc)
}

// Delete removes the collection under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.readDoc()
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.writeDoc(doc)
}

// readDoc loads the whole document, treating a missing or corrupt file as
// empty.
func (s *Store) readDoc() map[string]json.RawMessage {
	doc := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc
	}
	if err = json.Unmarshal(data, &doc); err != nil {
		return make(map[string]json.RawMessage)
	}
	return doc
}

// writeDoc replaces the document atomically (temp file + rename) so a crash
// mid-write never leaves a half-written document behind.
func (s *Store) writeDoc(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling document")
	}
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "writing document")
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replacing document")
	}
	return nil
}
