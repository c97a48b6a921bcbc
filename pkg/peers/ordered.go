package peers

import (
	"sync"

	"github.com/google/btree"
	"github.com/sirupsen/logrus"
)

const orderedRegistryDegree = 32

type orderedItem struct {
	id    PeerID
	entry Entry
}

func orderedItemLess(a, b orderedItem) bool {
	return a.id.Less(b.id)
}

// orderedRegistry stores entries in a B-tree ordered by id. Enumeration comes out sorted,
// while FairFind walks the key index so that fairness follows insertion order like in
// the hashed backend.
type orderedRegistry struct {
	mtx    sync.RWMutex
	peers  *btree.BTreeG[orderedItem]
	keys   keyIndex
	cursor fairCursor
}

func (r *orderedRegistry) IsEmpty() bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.peers.Len() == 0
}

func (r *orderedRegistry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.peers.Len()
}

func (r *orderedRegistry) lookup(id PeerID) (Entry, bool) {
	item, ok := r.peers.Get(orderedItem{id: id})
	return item.entry, ok
}

func (r *orderedRegistry) Get(id PeerID) (Entry, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.lookup(id)
}

func (r *orderedRegistry) View(id PeerID, f func(Entry)) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	entry, ok := r.lookup(id)
	if !ok {
		return false
	}
	f(entry)
	return true
}

func (r *orderedRegistry) Update(id PeerID, f func(*Entry)) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	entry, ok := r.lookup(id)
	if !ok {
		return false
	}
	mutable := entry
	f(&mutable)
	entry.Connection = mutable.Connection
	r.peers.ReplaceOrInsert(orderedItem{id: id, entry: entry})
	return true
}

func (r *orderedRegistry) GetAll() []Peer {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	all := make([]Peer, 0, r.peers.Len())
	r.peers.Ascend(func(item orderedItem) bool {
		all = append(all, item.entry.Peer)
		return true
	})
	return all
}

func (r *orderedRegistry) Add(peer Peer) {
	if isNilPeer(peer) {
		return
	}
	id := peer.ID()
	r.mtx.Lock()
	defer r.mtx.Unlock()
	previous, replaced := r.peers.ReplaceOrInsert(orderedItem{id: id, entry: Entry{Peer: peer}})
	if replaced {
		logReplaced(id, previous.entry)
	} else {
		r.keys.add(id)
		logrus.Debugf("Added peer %s", id.Short())
	}
}

func (r *orderedRegistry) Remove(id PeerID) (Entry, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	removed, ok := r.peers.Delete(orderedItem{id: id})
	if !ok {
		return Entry{}, false
	}
	r.keys.remove(id)
	logrus.Debugf("Removed peer %s", id.Short())
	return removed.entry, true
}

func (r *orderedRegistry) ForEach(f func(PeerID, Peer)) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	r.peers.Ascend(func(item orderedItem) bool {
		f(item.id, item.entry.Peer)
		return true
	})
}

func (r *orderedRegistry) IsConnected(id PeerID) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	entry, ok := r.lookup(id)
	return ok && entry.Connected()
}

func (r *orderedRegistry) ConnectedPeers() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	connected := 0
	r.peers.Ascend(func(item orderedItem) bool {
		if item.entry.Connected() {
			connected++
		}
		return true
	})
	return connected
}

func (r *orderedRegistry) FairFind(matches func(Peer) bool) (PeerID, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	n := len(r.keys)
	for i := 0; i < n; i++ {
		id := r.keys[r.cursor.next(n)]
		entry, ok := r.lookup(id)
		if ok && matches(entry.Peer) {
			return id, true
		}
	}
	return PeerID{}, false
}

// NewOrderedRegistry creates a B-tree backed Registry
func NewOrderedRegistry() Registry {
	return &orderedRegistry{
		peers: btree.NewG[orderedItem](orderedRegistryDegree, orderedItemLess),
	}
}
