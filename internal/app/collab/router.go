package collab

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"privlib/internal/app/user"
	"privlib/internal/pkg/errs"
)

// chatStoreTimeout bounds a single persistence call made while handling a chat frame.
const chatStoreTimeout = 5 * time.Second

// ChatStore persists global chat messages. Implementations return an errs.CustomError with
// ErrMessageNotFound when deleting an unknown id.
type ChatStore interface {
	SaveChatMessage(ctx context.Context, author user.User, text string) (ChatEntry, error)
	DeleteChatMessage(ctx context.Context, id string) error
}

// route describes where a message type is accepted and how it is relayed.
type route struct {
	kinds    []RoomKind
	required string
	handle   func(r *Router, c *Connection, msg *Message, raw []byte) *errs.CustomError
}

// Router validates inbound frames and turns them into broadcasts.
type Router struct {
	broadcaster *Broadcaster
	presence    *PresenceTracker
	store       ChatStore
	routes      map[MessageType]route
}

// NewRouter returns a router. store may be nil, in which case chat messages are relayed
// without being persisted.
func NewRouter(broadcaster *Broadcaster, presence *PresenceTracker, store ChatStore) *Router {
	r := &Router{
		broadcaster: broadcaster,
		presence:    presence,
		store:       store,
	}

	r.routes = map[MessageType]route{
		TypeJoin:           {kinds: []RoomKind{KindChat, KindLive, KindCanvas}, handle: (*Router).handleJoin},
		TypeContentUpdate:  {kinds: []RoomKind{KindLive}, required: "content", handle: (*Router).relayToOthers},
		TypeCursorPosition: {kinds: []RoomKind{KindLive}, required: "position", handle: (*Router).relayToOthers},
		TypeFileSaved:      {kinds: []RoomKind{KindLive}, handle: (*Router).relayToAll},
		TypeDraw:           {kinds: []RoomKind{KindCanvas}, required: "element", handle: (*Router).relayToOthers},
		TypeCursor:         {kinds: []RoomKind{KindCanvas}, required: "position", handle: (*Router).relayToOthers},
		TypeClear:          {kinds: []RoomKind{KindCanvas}, handle: (*Router).handleClear},
		TypeUndo:           {kinds: []RoomKind{KindCanvas}, required: "elements", handle: (*Router).handleSnapshot},
		TypeRedo:           {kinds: []RoomKind{KindCanvas}, required: "elements", handle: (*Router).handleSnapshot},
		TypeChatMessage:    {kinds: []RoomKind{KindChat}, required: "message", handle: (*Router).handleChat},
		TypeMessageDeleted: {kinds: []RoomKind{KindChat}, required: "message_id", handle: (*Router).handleDelete},
	}

	return r
}

// Dispatch handles one inbound frame from c. A non-nil error is meant for the sender only;
// it never affects the connection or the other members.
func (r *Router) Dispatch(c *Connection, raw []byte) *errs.CustomError {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errs.NewError(errs.ErrInvalidMessageFormat)
	}

	// Chat clients may omit the type.
	if msg.Type == "" && c.Room.Kind() == KindChat {
		msg.Type = TypeChatMessage
	}

	rt, ok := r.routes[msg.Type]
	if !ok || !acceptsKind(rt.kinds, c.Room.Kind()) {
		return errs.NewError(errs.ErrUnsupportedMessageType, string(msg.Type))
	}

	if err := checkScope(c.Room, &msg); err != nil {
		return err
	}

	if rt.required != "" && !hasField(&msg, rt.required) {
		return errs.NewError(errs.ErrMessageFieldMissing, rt.required)
	}

	return rt.handle(r, c, &msg, raw)
}

func acceptsKind(kinds []RoomKind, kind RoomKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// checkScope rejects messages that name a room, team or file other than the connection's own.
func checkScope(key RoomKey, msg *Message) *errs.CustomError {
	if msg.Room != "" && msg.Room != key {
		return errs.NewError(errs.ErrRoomAccessDenied)
	}

	switch key.Kind() {
	case KindChat:
		if msg.TeamID != "" || msg.FileID != "" {
			return errs.NewError(errs.ErrRoomAccessDenied)
		}
	case KindLive:
		if (msg.TeamID != "" && msg.TeamID != key.TeamID()) || (msg.FileID != "" && msg.FileID != key.FileID()) {
			return errs.NewError(errs.ErrRoomAccessDenied)
		}
	case KindCanvas:
		if msg.TeamID != "" && msg.TeamID != key.TeamID() {
			return errs.NewError(errs.ErrRoomAccessDenied)
		}
	}

	return nil
}

func hasField(msg *Message, field string) bool {
	switch field {
	case "content":
		return msg.Content != nil
	case "position":
		return len(msg.Position) > 0 && string(msg.Position) != "null"
	case "element":
		return len(msg.Element) > 0 && string(msg.Element) != "null"
	case "elements":
		return len(msg.Elements) > 0 && string(msg.Elements) != "null"
	case "message":
		return msg.Text != ""
	case "message_id":
		return msg.MessageID != ""
	}
	return true
}

func (r *Router) handleJoin(c *Connection, _ *Message, _ []byte) *errs.CustomError {
	r.broadcaster.Broadcast(c.Room, r.presence.UsersList(c.Room), nil)
	return nil
}

func (r *Router) relayToOthers(c *Connection, _ *Message, raw []byte) *errs.CustomError {
	frame, err := stamp(c, raw)
	if err != nil {
		return err
	}
	r.broadcaster.BroadcastRaw(c.Room, frame, c)
	return nil
}

func (r *Router) relayToAll(c *Connection, _ *Message, raw []byte) *errs.CustomError {
	frame, err := stamp(c, raw)
	if err != nil {
		return err
	}
	r.broadcaster.BroadcastRaw(c.Room, frame, nil)
	return nil
}

// stamp rewrites the sender-controlled identity fields of a relayed frame, keeping every other
// field exactly as the client sent it.
func stamp(c *Connection, raw []byte) ([]byte, *errs.CustomError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, errs.NewError(errs.ErrInvalidMessageFormat)
	}

	username, _ := json.Marshal(c.User.Username)
	room, _ := json.Marshal(string(c.Room))
	fields["username"] = username
	fields["room"] = room

	frame, err := json.Marshal(fields)
	if err != nil {
		return nil, errs.NewError(errs.ErrInvalidMessageFormat)
	}
	return frame, nil
}

func (r *Router) handleClear(c *Connection, _ *Message, _ []byte) *errs.CustomError {
	r.broadcaster.Broadcast(c.Room, Message{
		Type:     TypeClear,
		Username: c.User.Username,
		Room:     c.Room,
		Elements: emptyElements,
	}, nil)
	return nil
}

func (r *Router) handleSnapshot(c *Connection, msg *Message, _ []byte) *errs.CustomError {
	r.broadcaster.Broadcast(c.Room, Message{
		Type:     msg.Type,
		Username: c.User.Username,
		Room:     c.Room,
		Elements: msg.Elements,
	}, nil)
	return nil
}

func (r *Router) handleChat(c *Connection, msg *Message, _ []byte) *errs.CustomError {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return errs.NewError(errs.ErrMessageEmpty)
	}
	if len(text) > MaxChatMessageBytes {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}

	entry, err := r.saveChat(c.User, text)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist chat message")
		return errs.From(err)
	}

	r.broadcaster.Broadcast(c.Room, entry.ChatMessage(), nil)
	return nil
}

func (r *Router) saveChat(author user.User, text string) (ChatEntry, error) {
	if r.store == nil {
		return ChatEntry{
			ID:        uuid.NewString(),
			Username:  author.Username,
			Text:      text,
			Role:      author.Role,
			Timestamp: time.Now().UTC(),
		}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), chatStoreTimeout)
	defer cancel()

	return r.store.SaveChatMessage(ctx, author, text)
}

func (r *Router) handleDelete(c *Connection, msg *Message, _ []byte) *errs.CustomError {
	if !c.User.IsAdmin() {
		return errs.NewError(errs.ErrAdminRequired)
	}

	if r.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), chatStoreTimeout)
		defer cancel()

		if err := r.store.DeleteChatMessage(ctx, msg.MessageID); err != nil {
			var customErr *errs.CustomError
			if !errors.As(err, &customErr) {
				c.logger.Error().Err(err).Str("message_id", msg.MessageID).Msg("Failed to delete chat message")
			}
			return errs.From(err)
		}
	}

	r.broadcaster.Broadcast(c.Room, MessageDeleted(msg.MessageID), nil)
	return nil
}
