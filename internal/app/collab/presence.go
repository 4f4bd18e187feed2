package collab

import "sort"

// PresenceTracker announces arrivals and departures. It keeps no state of its own: the
// usernames of a room are read from the registry, so presence can never disagree with
// membership.
type PresenceTracker struct {
	registry    *Registry
	broadcaster *Broadcaster
}

// NewPresenceTracker returns a tracker over registry that announces through broadcaster.
func NewPresenceTracker(registry *Registry, broadcaster *Broadcaster) *PresenceTracker {
	return &PresenceTracker{registry: registry, broadcaster: broadcaster}
}

// Users returns the distinct usernames present in key, sorted.
func (p *PresenceTracker) Users(key RoomKey) []string {
	seen := make(map[string]struct{})
	users := make([]string, 0)

	for _, member := range p.registry.MembersOf(key) {
		if _, ok := seen[member.User.Username]; ok {
			continue
		}
		seen[member.User.Username] = struct{}{}
		users = append(users, member.User.Username)
	}

	sort.Strings(users)
	return users
}

// UsersList builds the snapshot message for key.
func (p *PresenceTracker) UsersList(key RoomKey) Message {
	return Message{Type: TypeUsersList, Room: key, Users: p.Users(key)}
}

// Joined tells the other members that c arrived and sends the refreshed list to everyone.
func (p *PresenceTracker) Joined(c *Connection) {
	p.broadcaster.Broadcast(c.Room, Message{
		Type:     TypeUserJoined,
		Username: c.User.Username,
		Room:     c.Room,
	}, c)

	p.broadcaster.Broadcast(c.Room, p.UsersList(c.Room), nil)
}

// Left tells the remaining members that c departed. Nothing is sent once the room is gone.
func (p *PresenceTracker) Left(c *Connection, roomDeleted bool) {
	if roomDeleted {
		return
	}

	p.broadcaster.Broadcast(c.Room, Message{
		Type:     TypeUserLeft,
		Username: c.User.Username,
		Room:     c.Room,
	}, nil)

	p.broadcaster.Broadcast(c.Room, p.UsersList(c.Room), nil)
}
