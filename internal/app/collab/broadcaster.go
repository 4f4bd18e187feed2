package collab

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"privlib/internal/pkg/logx"
)

// PublishResult summarizes one fan-out.
type PublishResult struct {
	Delivered int `json:"delivered"`
	Dropped   int `json:"dropped"`
}

// Broadcaster fans a message out to the members of a room. Members whose send queue is
// closed or full are skipped and handed to onDrop once the fan-out is complete, so a slow
// client never blocks the others and no lock is held while they are torn down.
type Broadcaster struct {
	registry *Registry
	onDrop   func(*Connection)
	logger   zerolog.Logger
}

// NewBroadcaster returns a broadcaster over registry. onDrop may be nil.
func NewBroadcaster(registry *Registry, onDrop func(*Connection)) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		onDrop:   onDrop,
		logger:   logx.Component("broadcaster"),
	}
}

// Broadcast encodes msg once and enqueues it to every member of key except exclude.
func (b *Broadcaster) Broadcast(key RoomKey, msg Message, exclude *Connection) PublishResult {
	frame, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error().Err(err).Str("room", string(key)).Msg("Failed to marshal broadcast message")
		return PublishResult{}
	}

	return b.BroadcastRaw(key, frame, exclude)
}

// BroadcastRaw enqueues an already encoded frame to every member of key except exclude.
func (b *Broadcaster) BroadcastRaw(key RoomKey, frame []byte, exclude *Connection) PublishResult {
	var (
		result  PublishResult
		dropped []*Connection
	)

	for _, member := range b.registry.MembersOf(key) {
		if exclude != nil && member.ID == exclude.ID {
			continue
		}

		if err := member.enqueue(frame); err != nil {
			member.logger.Warn().Err(err).Msg("Dropping member during broadcast")
			dropped = append(dropped, member)
			continue
		}
		result.Delivered++
	}

	result.Dropped = len(dropped)

	if b.onDrop != nil {
		for _, member := range dropped {
			b.onDrop(member)
		}
	}

	return result
}
