package peers

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Entry is a single registry record
type Entry struct {
	Peer       Peer
	Connection *Connection
}

// Connected reports whether the entry holds a connection
func (e Entry) Connected() bool {
	return e.Connection != nil
}

// Registry is a concurrent index of peers with fair, round-robin selection.
//
// Callbacks passed to View, Update, ForEach and FairFind run while the registry lock is
// held and must not call back into the same registry.
type Registry interface {
	IsEmpty() bool
	Len() int
	Get(PeerID) (Entry, bool)
	View(PeerID, func(Entry)) bool
	// Update runs the callback under the write lock. Only changes to the Connection field
	// are kept.
	Update(PeerID, func(*Entry)) bool
	GetAll() []Peer
	// Add inserts the peer or replaces the entry with the same id. The new entry has no
	// connection, a connection held by the replaced entry is dropped without being closed.
	// Nil peers are ignored.
	Add(Peer)
	Remove(PeerID) (Entry, bool)
	ForEach(func(PeerID, Peer))
	IsConnected(PeerID) bool
	ConnectedPeers() int
	FairFind(func(Peer) bool) (PeerID, bool)
}

// Backend selects the storage strategy of a Registry
type Backend string

const (
	// BackendVector keeps entries in a slice sorted by id
	BackendVector Backend = "vector"
	// BackendHashed keeps entries in a map
	BackendHashed Backend = "hashed"
	// BackendOrdered keeps entries in a B-tree ordered by id
	BackendOrdered Backend = "ordered"
)

// Backends lists all supported backends
var Backends = []Backend{BackendVector, BackendHashed, BackendOrdered}

// ErrUnknownBackend is returned for backend names that are not supported
var ErrUnknownBackend = errors.New("unknown backend")

// ParseBackend validates the backend name
func ParseBackend(name string) (Backend, error) {
	candidate := Backend(strings.ToLower(strings.TrimSpace(name)))
	for _, backend := range Backends {
		if backend == candidate {
			return backend, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// New creates an empty registry using given backend
func New(backend Backend) (Registry, error) {
	switch backend {
	case BackendVector:
		return NewVectorRegistry(), nil
	case BackendHashed:
		return NewHashedRegistry(), nil
	case BackendOrdered:
		return NewOrderedRegistry(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// fairCursor is shared by all FairFind callers of one registry. It only ever grows,
// wrapping around is fine since only the value modulo the registry size is used.
type fairCursor struct {
	value atomic.Uint64
}

// next returns the position to probe in a collection of n > 0 items
func (c *fairCursor) next(n int) int {
	return int((c.value.Add(1) - 1) % uint64(n))
}

// keyIndex keeps ids in insertion order for fair traversal. It must hold exactly the
// live keys of the primary index, each once.
type keyIndex []PeerID

// add appends an id that is not indexed yet. Callers check the primary index first, so
// replaced keys keep their original position and are never duplicated.
func (k *keyIndex) add(id PeerID) {
	*k = append(*k, id)
}

func (k *keyIndex) remove(id PeerID) {
	for i, existing := range *k {
		if existing == id {
			*k = append((*k)[:i], (*k)[i+1:]...)
			return
		}
	}
}

// isNilPeer reports whether peer is nil, including a nil *DefaultPeer stored in the interface
func isNilPeer(peer Peer) bool {
	if peer == nil {
		return true
	}
	defaultPeer, ok := peer.(*DefaultPeer)
	return ok && defaultPeer == nil
}

func logReplaced(id PeerID, previous Entry) {
	if previous.Connected() {
		logrus.Warnf(
			"Peer %s was replaced while still connected, its connection was dropped without closing",
			id.Short(),
		)
		return
	}
	logrus.Debugf("Replaced peer %s", id.Short())
}
