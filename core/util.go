package core

import (
	"strings"
	"sync"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

var (
	idMutex sync.Mutex
	lastID  int64
)

// NextID returns a time-derived (current Unix milliseconds), strictly
// increasing record ID. Two calls in the same millisecond never collide.
func NextID() int64 {
	idMutex.Lock()
	defer idMutex.Unlock()

	id := time.Now().UnixNano() / int64(time.Millisecond)
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
