package peers

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// hashedRegistry stores entries in a map, with a separate key index driving FairFind.
// Lookups are O(1) on average, removal is O(n) because of the key index.
type hashedRegistry struct {
	mtx    sync.RWMutex
	peers  map[PeerID]Entry
	keys   keyIndex
	cursor fairCursor
}

func (r *hashedRegistry) IsEmpty() bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.peers) == 0
}

func (r *hashedRegistry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.peers)
}

func (r *hashedRegistry) Get(id PeerID) (Entry, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	entry, ok := r.peers[id]
	return entry, ok
}

func (r *hashedRegistry) View(id PeerID, f func(Entry)) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	entry, ok := r.peers[id]
	if !ok {
		return false
	}
	f(entry)
	return true
}

func (r *hashedRegistry) Update(id PeerID, f func(*Entry)) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	entry, ok := r.peers[id]
	if !ok {
		return false
	}
	mutable := entry
	f(&mutable)
	entry.Connection = mutable.Connection
	r.peers[id] = entry
	return true
}

func (r *hashedRegistry) GetAll() []Peer {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	all := make([]Peer, 0, len(r.keys))
	for _, id := range r.keys {
		all = append(all, r.peers[id].Peer)
	}
	return all
}

func (r *hashedRegistry) Add(peer Peer) {
	if isNilPeer(peer) {
		return
	}
	id := peer.ID()
	r.mtx.Lock()
	defer r.mtx.Unlock()
	previous, exists := r.peers[id]
	if exists {
		logReplaced(id, previous)
	} else {
		r.keys.add(id)
		logrus.Debugf("Added peer %s", id.Short())
	}
	r.peers[id] = Entry{Peer: peer}
}

func (r *hashedRegistry) Remove(id PeerID) (Entry, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	entry, ok := r.peers[id]
	if !ok {
		return Entry{}, false
	}
	r.keys.remove(id)
	delete(r.peers, id)
	logrus.Debugf("Removed peer %s", id.Short())
	return entry, true
}

func (r *hashedRegistry) ForEach(f func(PeerID, Peer)) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	for id, entry := range r.peers {
		f(id, entry.Peer)
	}
}

func (r *hashedRegistry) IsConnected(id PeerID) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.peers[id].Connection != nil
}

func (r *hashedRegistry) ConnectedPeers() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	connected := 0
	for _, entry := range r.peers {
		if entry.Connected() {
			connected++
		}
	}
	return connected
}

func (r *hashedRegistry) FairFind(matches func(Peer) bool) (PeerID, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	n := len(r.keys)
	for i := 0; i < n; i++ {
		id := r.keys[r.cursor.next(n)]
		entry, ok := r.peers[id]
		if ok && matches(entry.Peer) {
			return id, true
		}
	}
	return PeerID{}, false
}

// NewHashedRegistry creates a map backed Registry
func NewHashedRegistry() Registry {
	return &hashedRegistry{
		peers: make(map[PeerID]Entry),
	}
}
