package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// GenerateULID returns a time-sortable id such as "evt_01J9Z3...".
// Ids generated within the same millisecond stay ordered.
func GenerateULID(prefix string) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	if prefix == "" {
		return id.String()
	}
	return prefix + "_" + id.String()
}

// GenerateSessionID returns a random v4 uuid.
func GenerateSessionID() string {
	return uuid.NewString()
}
