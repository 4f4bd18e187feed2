package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privlib/internal/app/collab"
	"privlib/internal/app/db"
	"privlib/internal/app/user"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
)

func (e *testEnv) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(e.handler)
	t.Cleanup(srv.Close)
	return srv
}

func dialRoom(srv *httptest.Server, path, token string) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path + "?" + jwt.QueryTokenKey + "=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if conn != nil {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	}
	return conn, resp, err
}

func mustDial(t *testing.T, srv *httptest.Server, path, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := dialRoom(srv, path, token)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readType(t *testing.T, conn *websocket.Conn, typ collab.MessageType) collab.Message {
	t.Helper()
	for {
		var msg collab.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == typ {
			return msg
		}
	}
}

// expectKicked reads until the server closes conn and checks the close code.
func expectKicked(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var closeErr *websocket.CloseError
			require.True(t, errors.As(err, &closeErr), "expected close frame, got %v", err)
			assert.Equal(t, collab.CloseCodeKicked, closeErr.Code)
			return
		}
	}
}

func TestWS_ChatRespectsSwitch(t *testing.T) {
	env := newTestEnv(t, 0)
	_, admin := env.createUser(t, "root", jwt.RoleAdmin)
	_, alice := env.createUser(t, "alice", jwt.RoleUser)
	srv := env.server(t)

	_, resp, err := dialRoom(srv, "/api/ws/chat", alice)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = dialRoom(srv, "/api/ws/chat", "not-a-token")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	adminConn := mustDial(t, srv, "/api/ws/chat", admin)
	readType(t, adminConn, collab.TypeUsersList)

	require.NoError(t, env.deps.Chat.SetEnabled(context.Background(), true))

	aliceConn := mustDial(t, srv, "/api/ws/chat", alice)
	joined := readType(t, adminConn, collab.TypeUserJoined)
	assert.Equal(t, "alice", joined.Username)

	require.NoError(t, aliceConn.WriteJSON(map[string]string{"message": "  hello all  "}))
	got := readType(t, adminConn, collab.TypeChatMessage)
	assert.Equal(t, "hello all", got.Text)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, user.RoleUser, got.Role)

	entries, err := env.deps.Chat.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, got.ID, entries[0].ID)
}

func TestWS_AdminDeletePublishesToChatRoom(t *testing.T) {
	env := newTestEnv(t, 0)
	_, admin := env.createUser(t, "root", jwt.RoleAdmin)
	srv := env.server(t)

	conn := mustDial(t, srv, "/api/ws/chat", admin)
	readType(t, conn, collab.TypeUsersList)

	entry, err := env.deps.Chat.SaveChatMessage(context.Background(), user.User{Username: "alice", Role: user.RoleUser}, "oops")
	require.NoError(t, err)

	rec := env.do(t, http.MethodDelete, "/api/admin/chat/messages/"+entry.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	deleted := readType(t, conn, collab.TypeMessageDeleted)
	assert.Equal(t, entry.ID, deleted.MessageID)
}

func TestWS_LiveRequiresTeamFile(t *testing.T) {
	env := newTestEnv(t, 0)
	_, alice := env.createUser(t, "alice", jwt.RoleUser)
	_, bob := env.createUser(t, "bob", jwt.RoleUser)
	_, carol := env.createUser(t, "carol", jwt.RoleUser)
	srv := env.server(t)

	team := env.createTeam(t, alice, "Writers")
	other := env.createTeam(t, alice, "Elsewhere")
	env.addMember(t, alice, team.ID, "bob")

	doc := env.uploadOK(t, alice, "doc.txt", []byte("v1"), map[string]string{"team_id": team.ID})
	foreign := env.uploadOK(t, alice, "other.txt", []byte("v1"), map[string]string{"team_id": other.ID})

	livePath := "/api/ws/live/" + team.ID + "/" + doc.ID

	_, resp, err := dialRoom(srv, livePath, carol)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = dialRoom(srv, "/api/ws/live/"+team.ID+"/"+foreign.ID, alice)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = dialRoom(srv, "/api/ws/live/"+team.ID+"/not-a-file", alice)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	aliceConn := mustDial(t, srv, livePath, alice)
	readType(t, aliceConn, collab.TypeUsersList)
	bobConn := mustDial(t, srv, livePath, bob)
	readType(t, bobConn, collab.TypeUsersList)

	require.NoError(t, aliceConn.WriteJSON(map[string]string{"type": "content_update", "content": "v2"}))
	got := readType(t, bobConn, collab.TypeContentUpdate)
	require.NotNil(t, got.Content)
	assert.Equal(t, "v2", *got.Content)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, collab.LiveRoom(team.ID, doc.ID), got.Room)

	stats := env.deps.Hub.Stats()
	assert.Equal(t, 2, stats.Connections)
	require.Len(t, stats.Rooms, 1)
	assert.Equal(t, collab.KindLive, stats.Rooms[0].Kind)
}

func TestWS_CanvasMembersOnly(t *testing.T) {
	env := newTestEnv(t, 0)
	_, alice := env.createUser(t, "alice", jwt.RoleUser)
	_, admin := env.createUser(t, "root", jwt.RoleAdmin)
	srv := env.server(t)

	team := env.createTeam(t, alice, "Artists")

	_, resp, err := dialRoom(srv, "/api/ws/canvas/"+team.ID, admin)
	require.Error(t, err, "admins are not implicit canvas members")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn := mustDial(t, srv, "/api/ws/canvas/"+team.ID, alice)
	readType(t, conn, collab.TypeUsersList)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "content_update", "content": "x"}))
	errMsg := readType(t, conn, collab.TypeError)
	assert.Equal(t, errs.ErrUnsupportedMessageType, errMsg.Code)
}

func TestWS_RemovedMemberIsKicked(t *testing.T) {
	env := newTestEnv(t, 0)
	_, alice := env.createUser(t, "alice", jwt.RoleUser)
	_, bob := env.createUser(t, "bob", jwt.RoleUser)
	srv := env.server(t)

	team := env.createTeam(t, alice, "Writers")
	env.addMember(t, alice, team.ID, "bob")
	doc := env.uploadOK(t, alice, "doc.txt", []byte("v1"), map[string]string{"team_id": team.ID})
	key := collab.LiveRoom(team.ID, doc.ID)

	aliceConn := mustDial(t, srv, "/api/ws/live/"+team.ID+"/"+doc.ID, alice)
	readType(t, aliceConn, collab.TypeUsersList)
	bobConn := mustDial(t, srv, "/api/ws/live/"+team.ID+"/"+doc.ID, bob)
	readType(t, aliceConn, collab.TypeUserJoined)
	bobCanvas := mustDial(t, srv, "/api/ws/canvas/"+team.ID, bob)
	readType(t, bobCanvas, collab.TypeUsersList)

	rec := env.do(t, http.MethodDelete, "/api/teams/"+team.ID+"/members/bob", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	expectKicked(t, bobConn)
	expectKicked(t, bobCanvas)

	left := readType(t, aliceConn, collab.TypeUserLeft)
	assert.Equal(t, "bob", left.Username)
	assert.Equal(t, []string{"alice"}, env.deps.Hub.Users(key))

	// The remaining member keeps relaying.
	require.NoError(t, aliceConn.WriteJSON(map[string]string{"type": "file_saved"}))
	saved := readType(t, aliceConn, collab.TypeFileSaved)
	assert.Equal(t, "alice", saved.Username)
	assert.Eventually(t, func() bool {
		return env.deps.Hub.Stats().Connections == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWS_DeleteTeamKicksEveryone(t *testing.T) {
	env := newTestEnv(t, 0)
	_, alice := env.createUser(t, "alice", jwt.RoleUser)
	srv := env.server(t)

	team := env.createTeam(t, alice, "Artists")
	conn := mustDial(t, srv, "/api/ws/canvas/"+team.ID, alice)
	readType(t, conn, collab.TypeUsersList)

	rec := env.do(t, http.MethodDelete, "/api/teams/"+team.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	expectKicked(t, conn)
	assert.Eventually(t, func() bool {
		return env.deps.Hub.Stats().Connections == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWS_DeletedUserIsKicked(t *testing.T) {
	env := newTestEnv(t, 0)
	_, admin := env.createUser(t, "root", jwt.RoleAdmin)
	bobUser, bob := env.createUser(t, "bob", jwt.RoleUser)
	srv := env.server(t)
	require.NoError(t, env.deps.Chat.SetEnabled(context.Background(), true))

	adminConn := mustDial(t, srv, "/api/ws/chat", admin)
	readType(t, adminConn, collab.TypeUsersList)
	bobConn := mustDial(t, srv, "/api/ws/chat", bob)
	readType(t, adminConn, collab.TypeUserJoined)

	rec := env.do(t, http.MethodDelete, "/api/admin/users/"+db.UUIDString(bobUser.ID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	expectKicked(t, bobConn)
	left := readType(t, adminConn, collab.TypeUserLeft)
	assert.Equal(t, "bob", left.Username)
}

func TestWS_DisablingChatKicksNonAdmins(t *testing.T) {
	env := newTestEnv(t, 0)
	_, admin := env.createUser(t, "root", jwt.RoleAdmin)
	_, alice := env.createUser(t, "alice", jwt.RoleUser)
	srv := env.server(t)
	require.NoError(t, env.deps.Chat.SetEnabled(context.Background(), true))

	adminConn := mustDial(t, srv, "/api/ws/chat", admin)
	readType(t, adminConn, collab.TypeUsersList)
	aliceConn := mustDial(t, srv, "/api/ws/chat", alice)
	readType(t, adminConn, collab.TypeUserJoined)

	rec := env.do(t, http.MethodPost, "/api/admin/chat/toggle", admin, map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	expectKicked(t, aliceConn)
	left := readType(t, adminConn, collab.TypeUserLeft)
	assert.Equal(t, "alice", left.Username)
	assert.Equal(t, []string{"root"}, env.deps.Hub.Users(collab.ChatRoom()))
}
