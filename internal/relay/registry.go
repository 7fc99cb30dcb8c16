package relay

import (
	"log"
	"sync"
)

// conn is the relay-internal state attached to one live connection. It is
// kept in a side table keyed by an opaque id rather than on the transport
// handle itself.
type conn struct {
	client Client
	userID string // bound by Identify, "" until the connection identifies itself
	roomID string // the conversation currently being viewed, "" when none
}

// Registry is the authoritative in-memory index of live connections. All
// mutations and queries go through its mutex so that a room or user snapshot
// never observes a connection mid-registration. The underlying map is never
// exposed.
type Registry struct {
	mu       sync.RWMutex
	nextID   int64
	conns    map[int64]*conn
	presence *Presence
}

func NewRegistry(p *Presence) *Registry {
	return &Registry{
		conns:    make(map[int64]*conn),
		presence: p,
	}
}

// Register adds a connection with no identity yet and returns its id.
func (r *Registry) Register(c Client) int64 {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.conns[id] = &conn{client: c}
	total := len(r.conns)
	r.mu.Unlock()

	log.Printf("connection %d registered (%d live)", id, total)
	return id
}

// Identify binds a userID to the connection and marks that user online.
// Multiple connections may bind the same userID (multi-device). Re-binding
// a connection to a different user moves the presence count accordingly.
func (r *Registry) Identify(id int64, userID string) {
	r.mu.Lock()
	entry, ok := r.conns[id]
	if !ok || entry.userID == userID {
		r.mu.Unlock()
		return
	}
	prev := entry.userID
	entry.userID = userID
	r.mu.Unlock()

	if prev != "" {
		r.presence.disconnected(prev)
	}
	r.presence.connected(userID)
	log.Printf("user %s is now active on connection %d", userID, id)
}

// JoinRoom sets the connection's active room, replacing any prior one. A
// connection views at most one conversation at a time.
func (r *Registry) JoinRoom(id int64, roomID string) {
	r.mu.Lock()
	if entry, ok := r.conns[id]; ok {
		entry.roomID = roomID
	}
	r.mu.Unlock()
}

// Unregister removes the connection and closes its client. If it was the
// last connection bound to its user, that user goes offline.
func (r *Registry) Unregister(id int64) {
	r.mu.Lock()
	entry, ok := r.conns[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, id)
	total := len(r.conns)
	r.mu.Unlock()

	if entry.userID != "" {
		r.presence.disconnected(entry.userID)
		if !r.presence.IsOnline(entry.userID) {
			log.Printf("user %s is now inactive", entry.userID)
		}
	}
	entry.client.Close()
	log.Printf("connection %d unregistered (%d live)", id, total)
}

// InRoom snapshots the clients whose active room is roomID.
func (r *Registry) InRoom(roomID string) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Client
	for _, entry := range r.conns {
		if entry.roomID == roomID {
			out = append(out, entry.client)
		}
	}
	return out
}

// ForUser snapshots all clients bound to userID.
func (r *Registry) ForUser(userID string) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Client
	for _, entry := range r.conns {
		if entry.userID == userID {
			out = append(out, entry.client)
		}
	}
	return out
}

// Others snapshots every client except the one with the given id.
func (r *Registry) Others(id int64) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Client
	for cid, entry := range r.conns {
		if cid != id {
			out = append(out, entry.client)
		}
	}
	return out
}

// IsOnline reports whether any live connection is bound to userID.
func (r *Registry) IsOnline(userID string) bool {
	return r.presence.IsOnline(userID)
}
