package collab

import (
	"sort"
	"sync"
)

// Registry maps room keys to their live connections and connections back to their room.
// Rooms exist only while they have members. All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rooms map[RoomKey]map[string]*Connection
	index map[string]RoomKey
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[RoomKey]map[string]*Connection),
		index: make(map[string]RoomKey),
	}
}

// Register adds c to its room, creating the room if needed. Registering the same connection
// twice is a no-op. added reports whether c was inserted; created reports whether the room
// went from absent to having its first member.
func (r *Registry) Register(c *Connection) (added, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[c.ID]; ok {
		return false, false
	}

	members, ok := r.rooms[c.Room]
	if !ok {
		members = make(map[string]*Connection)
		r.rooms[c.Room] = members
		created = true
	}

	members[c.ID] = c
	r.index[c.ID] = c.Room

	return true, created
}

// Unregister removes c from its room and deletes the room once it is empty. It is a no-op
// for connections that are not registered.
func (r *Registry) Unregister(c *Connection) (removed, deleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.index[c.ID]
	if !ok {
		return false, false
	}
	delete(r.index, c.ID)

	members := r.rooms[key]
	delete(members, c.ID)

	if len(members) == 0 {
		delete(r.rooms, key)
		deleted = true
	}

	return true, deleted
}

// MembersOf returns the connections currently registered to key, in no particular order.
// The slice is built under the lock, so it includes every registration that completed before the call.
func (r *Registry) MembersOf(key RoomKey) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[key]
	out := make([]*Connection, 0, len(members))
	for _, c := range members {
		out = append(out, c)
	}
	return out
}

// RoomOf returns the room c is registered to.
func (r *Registry) RoomOf(c *Connection) (RoomKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.index[c.ID]
	return key, ok
}

// HasRoom reports whether key currently has members.
func (r *Registry) HasRoom(key RoomKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[key]
	return ok
}

// RoomStat is a point-in-time view of one room.
type RoomStat struct {
	Key         RoomKey  `json:"room"`
	Kind        RoomKind `json:"kind"`
	Connections int      `json:"connections"`
}

// Stats returns one entry per room, sorted by key, plus the total number of connections.
func (r *Registry) Stats() ([]RoomStat, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make([]RoomStat, 0, len(r.rooms))
	for key, members := range r.rooms {
		stats = append(stats, RoomStat{Key: key, Kind: key.Kind(), Connections: len(members)})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })

	return stats, len(r.index)
}

// All returns every registered connection.
func (r *Registry) All() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Connection, 0, len(r.index))
	for _, members := range r.rooms {
		for _, c := range members {
			out = append(out, c)
		}
	}
	return out
}
