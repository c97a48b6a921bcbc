package peers

import (
	"slices"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

type vectorEntry struct {
	id    PeerID
	entry Entry
}

// vectorRegistry keeps entries in a slice sorted by id. It needs no key index, FairFind
// indexes the slice directly. Good for small sets, insertion and removal shift elements.
type vectorRegistry struct {
	mtx    sync.RWMutex
	peers  []vectorEntry
	cursor fairCursor
}

// search returns the position of id, or the position it should be inserted at
func (r *vectorRegistry) search(id PeerID) (int, bool) {
	i := sort.Search(len(r.peers), func(i int) bool {
		return r.peers[i].id.Compare(id) >= 0
	})
	return i, i < len(r.peers) && r.peers[i].id == id
}

func (r *vectorRegistry) IsEmpty() bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.peers) == 0
}

func (r *vectorRegistry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.peers)
}

func (r *vectorRegistry) Get(id PeerID) (Entry, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	i, ok := r.search(id)
	if !ok {
		return Entry{}, false
	}
	return r.peers[i].entry, true
}

func (r *vectorRegistry) View(id PeerID, f func(Entry)) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	i, ok := r.search(id)
	if !ok {
		return false
	}
	f(r.peers[i].entry)
	return true
}

func (r *vectorRegistry) Update(id PeerID, f func(*Entry)) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	i, ok := r.search(id)
	if !ok {
		return false
	}
	mutable := r.peers[i].entry
	f(&mutable)
	r.peers[i].entry.Connection = mutable.Connection
	return true
}

func (r *vectorRegistry) GetAll() []Peer {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	all := make([]Peer, 0, len(r.peers))
	for _, item := range r.peers {
		all = append(all, item.entry.Peer)
	}
	return all
}

func (r *vectorRegistry) Add(peer Peer) {
	if isNilPeer(peer) {
		return
	}
	id := peer.ID()
	r.mtx.Lock()
	defer r.mtx.Unlock()
	item := vectorEntry{id: id, entry: Entry{Peer: peer}}
	i, found := r.search(id)
	if found {
		logReplaced(id, r.peers[i].entry)
		r.peers[i] = item
		return
	}
	r.peers = slices.Insert(r.peers, i, item)
	logrus.Debugf("Added peer %s", id.Short())
}

func (r *vectorRegistry) Remove(id PeerID) (Entry, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	i, ok := r.search(id)
	if !ok {
		return Entry{}, false
	}
	removed := r.peers[i].entry
	r.peers = slices.Delete(r.peers, i, i+1)
	logrus.Debugf("Removed peer %s", id.Short())
	return removed, true
}

func (r *vectorRegistry) ForEach(f func(PeerID, Peer)) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	for _, item := range r.peers {
		f(item.id, item.entry.Peer)
	}
}

func (r *vectorRegistry) IsConnected(id PeerID) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	i, ok := r.search(id)
	return ok && r.peers[i].entry.Connected()
}

func (r *vectorRegistry) ConnectedPeers() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	connected := 0
	for _, item := range r.peers {
		if item.entry.Connected() {
			connected++
		}
	}
	return connected
}

func (r *vectorRegistry) FairFind(matches func(Peer) bool) (PeerID, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	n := len(r.peers)
	for i := 0; i < n; i++ {
		item := r.peers[r.cursor.next(n)]
		if matches(item.entry.Peer) {
			return item.id, true
		}
	}
	return PeerID{}, false
}

// NewVectorRegistry creates a sorted slice backed Registry
func NewVectorRegistry() Registry {
	return &vectorRegistry{}
}
