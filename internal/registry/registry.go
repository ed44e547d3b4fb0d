// Package registry maintains the in-memory map of discovered peers.
//
// Peers are keyed by announced name, so a peer that changes source
// address keeps a single slot as long as its name is stable. Two peers
// announcing the same name overwrite each other; names are expected to
// be unique on the segment. Nothing is persisted: the registry dies
// with the process.
package registry

import (
	"sync"
	"time"
)

// Peer is a discovered participant. Addr is the datagram source
// address ("IP:port" with the sender's ephemeral port), Port the
// service port the peer announced. LastSeen is internal bookkeeping
// and never leaves the process on the wire.
type Peer struct {
	Addr     string    `msgpack:"addr"`
	Name     string    `msgpack:"name"`
	Port     uint16    `msgpack:"port"`
	LastSeen time.Time `msgpack:"-"`
}

// Registry is a concurrency-safe name→Peer map. Writers (upsert,
// eviction) take the lock exclusively; any number of snapshot readers
// may proceed together.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]Peer
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{peers: make(map[string]Peer)}
}

// Upsert replaces any existing entry for p.Name unconditionally.
func (r *Registry) Upsert(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[p.Name] = p
}

// EvictStale removes every entry whose LastSeen has aged past timeout
// at instant now. The whole sweep is atomic with respect to readers.
func (r *Registry) EvictStale(now time.Time, timeout time.Duration) []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []Peer
	for name, p := range r.peers {
		if now.Sub(p.LastSeen) >= timeout {
			evicted = append(evicted, p)
			delete(r.peers, name)
		}
	}
	return evicted
}

// Snapshot returns an independent copy of all current entries.
func (r *Registry) Snapshot() []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Peer, 0, len(r.peers))
	for _, p := range r.peers {
		out = append(out, p)
	}
	return out
}

// Len returns the current entry count.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// Get looks up a peer by name.
func (r *Registry) Get(name string) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.peers[name]
	return p, ok
}
