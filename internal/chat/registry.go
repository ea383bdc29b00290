package chat

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrDuplicateIdentity is returned by Register when the username is already
// held by a live connection. Policy: duplicates are rejected, never
// silently replaced; the name becomes available again once its holder
// unregisters.
var ErrDuplicateIdentity = errors.New("identity already registered")

// Token identifies one registration for the lifetime of its connection.
type Token string

type record struct {
	identity string
	conn     Conn
}

// Registry is the authoritative set of currently connected identities and
// their writable connection handles. It is the only shared mutable state in
// the server; every operation is a short critical section over pure map
// edits, with no I/O under the lock.
type Registry struct {
	mu      sync.RWMutex
	records map[Token]*record
	names   map[string]Token
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[Token]*record),
		names:   make(map[string]Token),
	}
}

// Register inserts a record for the identity and returns its token.
// The connection handle is referenced, never owned: closing it remains the
// caller's job.
func (r *Registry) Register(identity string, conn Conn) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.names[identity]; taken {
		return "", ErrDuplicateIdentity
	}
	tok := Token(uuid.NewString())
	r.records[tok] = &record{identity: identity, conn: conn}
	r.names[identity] = tok
	return tok, nil
}

// Unregister removes the record for the token. Removing an absent token is
// a no-op, which keeps double-close races harmless.
func (r *Registry) Unregister(tok Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[tok]
	if !ok {
		return
	}
	delete(r.records, tok)
	delete(r.names, rec.identity)
}

// SnapshotExcluding returns every registered connection handle except the
// token's own, as a point-in-time copy safe to iterate while the registry
// keeps mutating.
func (r *Registry) SnapshotExcluding(tok Token) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.records))
	for t, rec := range r.records {
		if t == tok {
			continue
		}
		conns = append(conns, rec.conn)
	}
	return conns
}

// Identities returns the currently registered usernames, sorted.
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
