// Package storage defines the persistence boundary for client-side
// state. Stores such as the session and the cart do not write files or
// talk to Redis themselves; they serialize their state and hand it to a
// KV implementation keyed by namespace. This keeps state transitions
// testable with the in-memory backend while production uses the file
// backend (or Redis for kiosk deployments sharing one terminal state).
package storage

import "errors"

// Namespaces for persisted client state. The two namespaces are
// independent so the cart survives a logout and the session survives a
// cart wipe.
const (
	SessionNamespace = "auth-storage"
	CartNamespace    = "cart-storage"
)

// ErrNotFound is returned by Get when a namespace has never been
// written or has been deleted.
var ErrNotFound = errors.New("storage: namespace not found")

// KV persists one opaque document per namespace. Implementations must
// make Put atomic with respect to concurrent Gets of the same
// namespace; they are not required to coordinate across processes.
type KV interface {
	// Get returns the document stored under ns, or ErrNotFound.
	Get(ns string) ([]byte, error)
	// Put replaces the document stored under ns.
	Put(ns string, data []byte) error
	// Delete removes the document stored under ns. Deleting a missing
	// namespace is not an error.
	Delete(ns string) error
}
