/*
Package collab implements the realtime collaboration relay: the global chat room, live text
editing of team files and the shared team canvas.

This file defines room keys and the wire message exchanged with clients.
*/
package collab

import (
	"encoding/json"
	"strings"
	"time"

	"privlib/internal/pkg/errs"
)

// RoomKind distinguishes the three kinds of collaboration scope.
type RoomKind string

const (
	KindChat   RoomKind = "chat"
	KindLive   RoomKind = "live"
	KindCanvas RoomKind = "canvas"
)

const (
	chatRoomKey  = "chat"
	canvasSuffix = "canvas"
)

// RoomKey identifies a room: "chat", "<team_id>:<file_id>" or "<team_id>:canvas".
type RoomKey string

// ChatRoom returns the key of the single global chat room.
func ChatRoom() RoomKey { return chatRoomKey }

// LiveRoom returns the key of the live-editing room for one team file.
func LiveRoom(teamID, fileID string) RoomKey { return RoomKey(teamID + ":" + fileID) }

// CanvasRoom returns the key of a team's canvas room.
func CanvasRoom(teamID string) RoomKey { return RoomKey(teamID + ":" + canvasSuffix) }

// Kind reports which kind of room k addresses.
func (k RoomKey) Kind() RoomKind {
	if k == chatRoomKey {
		return KindChat
	}
	if _, second, ok := strings.Cut(string(k), ":"); ok && second == canvasSuffix {
		return KindCanvas
	}
	return KindLive
}

// TeamID returns the team part of a live or canvas key, or "" for the chat room.
func (k RoomKey) TeamID() string {
	team, _, ok := strings.Cut(string(k), ":")
	if !ok {
		return ""
	}
	return team
}

// FileID returns the file part of a live key, or "".
func (k RoomKey) FileID() string {
	if k.Kind() != KindLive {
		return ""
	}
	_, file, _ := strings.Cut(string(k), ":")
	return file
}

// MessageType is the discriminant of a wire message.
type MessageType string

const (
	TypeJoin           MessageType = "join"
	TypeUserJoined     MessageType = "user_joined"
	TypeUserLeft       MessageType = "user_left"
	TypeUsersList      MessageType = "users_list"
	TypeContentUpdate  MessageType = "content_update"
	TypeCursorPosition MessageType = "cursor_position"
	TypeFileSaved      MessageType = "file_saved"
	TypeDraw           MessageType = "draw"
	TypeCursor         MessageType = "cursor"
	TypeClear          MessageType = "clear"
	TypeUndo           MessageType = "undo"
	TypeRedo           MessageType = "redo"
	TypeChatMessage    MessageType = "message"
	TypeMessageDeleted MessageType = "message_deleted"
	TypeError          MessageType = "error"
)

// MaxChatMessageBytes bounds the text of one chat message.
const MaxChatMessageBytes = 5000

// Message is the flat JSON object exchanged over every realtime endpoint. Kind-specific
// fields are optional; Position, Element and Elements are kept raw because their shape
// belongs to the client (an offset for the editor, a point or stroke for the canvas).
type Message struct {
	Type     MessageType `json:"type,omitempty"`
	Username string      `json:"username,omitempty"`
	Room     RoomKey     `json:"room,omitempty"`
	TeamID   string      `json:"team_id,omitempty"`
	FileID   string      `json:"file_id,omitempty"`

	Content  *string         `json:"content,omitempty"`
	Position json.RawMessage `json:"position,omitempty"`
	Element  json.RawMessage `json:"element,omitempty"`
	Elements json.RawMessage `json:"elements,omitempty"`
	Users    []string        `json:"users,omitempty"`

	// Chat entries.
	ID        string `json:"id,omitempty"`
	Text      string `json:"message,omitempty"`
	Role      string `json:"role,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	MessageID string `json:"message_id,omitempty"`

	// Error replies; Text carries the human-readable message.
	Code int `json:"code,omitempty"`
}

// emptyElements is the canvas state broadcast on clear.
var emptyElements = json.RawMessage("[]")

// ChatEntry is a persisted chat message.
type ChatEntry struct {
	ID        string
	Username  string
	Text      string
	Role      string
	Timestamp time.Time
}

// ChatMessage converts a stored entry into its wire form.
func (e ChatEntry) ChatMessage() Message {
	return Message{
		Type:      TypeChatMessage,
		Username:  e.Username,
		Room:      ChatRoom(),
		ID:        e.ID,
		Text:      e.Text,
		Role:      e.Role,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// errorMessage builds the error reply sent to a single connection.
func errorMessage(room RoomKey, err *errs.CustomError) Message {
	return Message{
		Type: TypeError,
		Room: room,
		Code: err.Code,
		Text: err.Message,
	}
}

// MessageDeleted builds the notice that tells chat clients to purge a message.
func MessageDeleted(messageID string) Message {
	return Message{
		Type:      TypeMessageDeleted,
		Room:      ChatRoom(),
		MessageID: messageID,
	}
}
