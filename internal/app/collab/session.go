package collab

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"privlib/internal/app/user"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
)

// Options tunes per-connection behaviour.
type Options struct {
	// MessageRate is the sustained number of inbound messages per second a connection may send.
	// Zero disables the limit.
	MessageRate float64

	// MessageBurst is the bucket size of the per-connection limiter.
	MessageBurst int
}

// Hub wires the registry, presence tracker, router and broadcaster together and owns the
// lifecycle of every connection. One Hub serves all three kinds of room.
type Hub struct {
	registry    *Registry
	broadcaster *Broadcaster
	presence    *PresenceTracker
	router      *Router
	opts        Options
	logger      zerolog.Logger

	// mu orders OnConnect against Shutdown so no connection registers after the final sweep.
	mu     sync.RWMutex
	closed bool
}

// NewHub returns a ready Hub. store persists chat messages and may be nil.
func NewHub(store ChatStore, opts Options) *Hub {
	h := &Hub{
		registry: NewRegistry(),
		opts:     opts,
		logger:   logx.Component("collab_hub"),
	}

	h.broadcaster = NewBroadcaster(h.registry, h.OnDisconnect)
	h.presence = NewPresenceTracker(h.registry, h.broadcaster)
	h.router = NewRouter(h.broadcaster, h.presence, store)

	return h
}

// OnConnect registers a new connection for u in room key and announces it. The caller starts
// WritePump and ReadPump afterwards.
func (h *Hub) OnConnect(t Transport, key RoomKey, u user.User) *Connection {
	var limiter *rate.Limiter
	if h.opts.MessageRate > 0 {
		burst := h.opts.MessageBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(h.opts.MessageRate), burst)
	}

	c := newConnection(t, key, u, limiter)

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		c.setCloseFrame(websocket.CloseGoingAway, "server shutting down")
		c.closeSend()
		c.logger.Info().Msg("Connection refused during shutdown")
		return c
	}
	_, created := h.registry.Register(c)
	h.mu.RUnlock()

	if created {
		c.logger.Debug().Msg("Room created")
	}
	c.logger.Info().Msg("Connection registered")

	h.presence.Joined(c)

	return c
}

// OnMessage handles one inbound frame. Errors are reported to the sender only.
func (h *Hub) OnMessage(c *Connection, raw []byte) {
	if !c.allow() {
		c.SendError(errs.NewError(errs.ErrRateLimitExceeded))
		return
	}

	if err := h.router.Dispatch(c, raw); err != nil {
		c.logger.Debug().Int("code", err.Code).Str("error", err.Message).Msg("Rejected inbound message")
		c.SendError(err)
	}
}

// OnDisconnect unregisters c and tells the remaining members. It runs at most once per
// connection, whichever of the read pump, a failed broadcast or Shutdown gets there first.
func (h *Hub) OnDisconnect(c *Connection) {
	c.disconnectOnce.Do(func() {
		removed, deleted := h.registry.Unregister(c)
		c.closeSend()

		if !removed {
			return
		}

		if deleted {
			c.logger.Debug().Msg("Room removed")
		}
		c.logger.Info().Msg("Connection unregistered")

		h.presence.Left(c, deleted)
	})
}

// Publish broadcasts a server-originated message to every member of key.
func (h *Hub) Publish(key RoomKey, msg Message) PublishResult {
	if msg.Room == "" {
		msg.Room = key
	}
	return h.broadcaster.Broadcast(key, msg, nil)
}

// Users returns the distinct usernames present in key.
func (h *Hub) Users(key RoomKey) []string {
	return h.presence.Users(key)
}

// Stats is a snapshot of the relay for the admin dashboard.
type Stats struct {
	Rooms       []RoomStat `json:"rooms"`
	RoomCount   int        `json:"room_count"`
	Connections int        `json:"connections"`
}

// Stats reports the current rooms and connection count.
func (h *Hub) Stats() Stats {
	rooms, conns := h.registry.Stats()
	return Stats{Rooms: rooms, RoomCount: len(rooms), Connections: conns}
}

// Kick closes every connection of username in room key with CloseCodeKicked. The remaining
// members see user_left as for any other disconnect.
func (h *Hub) Kick(key RoomKey, username, reason string) int {
	return h.kickWhere(reason, func(c *Connection) bool {
		return c.Room == key && c.User.Username == username
	})
}

// KickTeam closes connections in the live and canvas rooms of teamID. An empty username
// matches every member, which is what deleting the team needs.
func (h *Hub) KickTeam(teamID, username, reason string) int {
	return h.kickWhere(reason, func(c *Connection) bool {
		kind := c.Room.Kind()
		if kind != KindLive && kind != KindCanvas {
			return false
		}
		return c.Room.TeamID() == teamID && (username == "" || c.User.Username == username)
	})
}

// KickUser closes every connection held by the user with userID, in any room.
func (h *Hub) KickUser(userID, reason string) int {
	return h.kickWhere(reason, func(c *Connection) bool {
		return c.User.ID == userID
	})
}

// KickNonAdmins closes the connections in key whose user is not an admin.
func (h *Hub) KickNonAdmins(key RoomKey, reason string) int {
	return h.kickWhere(reason, func(c *Connection) bool {
		return c.Room == key && !c.User.IsAdmin()
	})
}

func (h *Hub) kickWhere(reason string, match func(*Connection) bool) int {
	kicked := 0
	for _, c := range h.registry.All() {
		if !match(c) {
			continue
		}

		c.logger.Warn().Int("close_code", CloseCodeKicked).Str("reason", reason).Msg("Kicking connection")
		c.setCloseFrame(CloseCodeKicked, reason)
		h.OnDisconnect(c)
		kicked++
	}
	return kicked
}

// Shutdown disconnects every connection and refuses new ones. Each write pump sends a close
// frame and exits.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	conns := h.registry.All()
	for _, c := range conns {
		c.setCloseFrame(websocket.CloseGoingAway, "server shutting down")
		h.OnDisconnect(c)
	}
	h.logger.Info().Int("connections", len(conns)).Msg("Collaboration hub shut down")
}
