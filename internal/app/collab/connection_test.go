package collab

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelayServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		q := r.URL.Query()
		c := h.OnConnect(conn, RoomKey(q.Get("room")), member(q.Get("user")))

		go c.WritePump()
		c.ReadPump(h)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func dial(t *testing.T, srv *httptest.Server, room RoomKey, username string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?room=" + string(room) + "&user=" + username
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

// readUntil reads frames until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ MessageType) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == typ {
			return msg
		}
	}
}

func TestConnection_LiveEditingOverWebSocket(t *testing.T) {
	h := NewHub(nil, Options{})
	srv := newRelayServer(t, h)
	key := LiveRoom("team1", "fileX")

	alice := dial(t, srv, key, "alice")
	readUntil(t, alice, TypeUsersList)

	bob := dial(t, srv, key, "bob")
	joined := readUntil(t, alice, TypeUserJoined)
	assert.Equal(t, "bob", joined.Username)
	readUntil(t, bob, TypeUsersList)

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "content_update", "content": "hello"}))

	got := readUntil(t, bob, TypeContentUpdate)
	require.NotNil(t, got.Content)
	assert.Equal(t, "hello", *got.Content)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, bob.Close())

	left := readUntil(t, alice, TypeUserLeft)
	assert.Equal(t, "bob", left.Username)

	assert.Eventually(t, func() bool {
		return h.Stats().Connections == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConnection_ErrorDoesNotClose(t *testing.T) {
	h := NewHub(nil, Options{})
	srv := newRelayServer(t, h)

	alice := dial(t, srv, ChatRoom(), "alice")
	readUntil(t, alice, TypeUsersList)

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("nope")))
	errMsg := readUntil(t, alice, TypeError)
	assert.NotZero(t, errMsg.Code)

	require.NoError(t, alice.WriteJSON(map[string]any{"message": "still here"}))
	chat := readUntil(t, alice, TypeChatMessage)
	assert.Equal(t, "still here", chat.Text)
	assert.NotEmpty(t, chat.ID)
}

func TestConnection_ShutdownSendsCloseFrame(t *testing.T) {
	h := NewHub(nil, Options{})
	srv := newRelayServer(t, h)

	alice := dial(t, srv, CanvasRoom("t1"), "alice")
	readUntil(t, alice, TypeUsersList)

	h.Shutdown()

	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, _, err := alice.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			assert.ErrorAs(t, err, &closeErr)
			break
		}
	}
}

func TestConnection_KickSendsCloseCode(t *testing.T) {
	h := NewHub(nil, Options{})
	srv := newRelayServer(t, h)
	key := CanvasRoom("t1")

	alice := dial(t, srv, key, "alice")
	readUntil(t, alice, TypeUsersList)
	bob := dial(t, srv, key, "bob")
	readUntil(t, bob, TypeUsersList)

	assert.Equal(t, 1, h.Kick(key, "bob", "removed from team"))

	require.NoError(t, bob.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, _, err := bob.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			require.ErrorAs(t, err, &closeErr)
			assert.Equal(t, CloseCodeKicked, closeErr.Code)
			assert.Equal(t, "removed from team", closeErr.Text)
			break
		}
	}

	left := readUntil(t, alice, TypeUserLeft)
	assert.Equal(t, "bob", left.Username)
}
