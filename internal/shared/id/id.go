// Package id provides centralized ID generation for the grid-state service.
//
// Session and request ids are prefixed ULIDs: lexicographically sortable,
// unique without coordination, and readable in logs (sess_*, req_*).
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies one client session and keys its persisted state.
type SessionID string

// RequestID identifies an API request.
type RequestID string

const (
	// SessionPrefix marks session ids.
	SessionPrefix = "sess"
	// RequestPrefix marks request ids.
	RequestPrefix = "req"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy
// source, useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewSessionID generates a new session ID.
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id SessionID) String() string { return string(id) }
func (id RequestID) String() string { return string(id) }

// IsValidSessionID reports whether s is a well-formed session id. Used to
// keep arbitrary client input out of state file names.
func IsValidSessionID(s string) bool {
	raw, ok := strings.CutPrefix(s, SessionPrefix+"_")
	if !ok {
		return false
	}
	_, err := ulid.Parse(raw)
	return err == nil
}
