package collab

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privlib/internal/app/user"
)

func testConn(room RoomKey, username string) *Connection {
	return newConnection(nil, room, user.User{ID: "id-" + username, Username: username, Role: user.RoleUser}, nil)
}

func memberIDs(conns []*Connection) []string {
	ids := make([]string, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestRegistry_RegisterCreatesRoomOnce(t *testing.T) {
	r := NewRegistry()
	key := LiveRoom("team1", "fileX")

	a := testConn(key, "alice")
	b := testConn(key, "bob")

	added, created := r.Register(a)
	assert.True(t, added)
	assert.True(t, created)

	added, created = r.Register(b)
	assert.True(t, added)
	assert.False(t, created)

	added, created = r.Register(a)
	assert.False(t, added, "registering twice is a no-op")
	assert.False(t, created)

	assert.ElementsMatch(t, []string{a.ID, b.ID}, memberIDs(r.MembersOf(key)))
}

func TestRegistry_UnregisterDeletesEmptyRoom(t *testing.T) {
	r := NewRegistry()
	key := CanvasRoom("team1")

	a := testConn(key, "alice")
	b := testConn(key, "bob")
	r.Register(a)
	r.Register(b)

	removed, deleted := r.Unregister(a)
	assert.True(t, removed)
	assert.False(t, deleted)
	assert.True(t, r.HasRoom(key))

	removed, deleted = r.Unregister(b)
	assert.True(t, removed)
	assert.True(t, deleted)
	assert.False(t, r.HasRoom(key))
	assert.Empty(t, r.MembersOf(key))

	removed, deleted = r.Unregister(b)
	assert.False(t, removed, "unregistering an absent connection is a no-op")
	assert.False(t, deleted)
}

func TestRegistry_RandomSequencesMatchNetEffect(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	keys := []RoomKey{ChatRoom(), LiveRoom("t1", "f1"), CanvasRoom("t1")}

	for round := 0; round < 50; round++ {
		r := NewRegistry()
		pool := make([]*Connection, 0, 12)
		for i := 0; i < 12; i++ {
			pool = append(pool, testConn(keys[i%len(keys)], fmt.Sprintf("user%d", i)))
		}

		expected := make(map[RoomKey]map[string]bool)
		for step := 0; step < 100; step++ {
			c := pool[rng.Intn(len(pool))]
			if rng.Intn(2) == 0 {
				r.Register(c)
				if expected[c.Room] == nil {
					expected[c.Room] = make(map[string]bool)
				}
				expected[c.Room][c.ID] = true
			} else {
				r.Unregister(c)
				delete(expected[c.Room], c.ID)
				if len(expected[c.Room]) == 0 {
					delete(expected, c.Room)
				}
			}
		}

		for _, key := range keys {
			want := make([]string, 0)
			for id := range expected[key] {
				want = append(want, id)
			}
			assert.ElementsMatch(t, want, memberIDs(r.MembersOf(key)), "round %d room %s", round, key)
			assert.Equal(t, len(want) > 0, r.HasRoom(key), "room exists iff it has members")
		}
	}
}

func TestRegistry_ConcurrentRegisterUnregister(t *testing.T) {
	r := NewRegistry()
	key := ChatRoom()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := testConn(key, fmt.Sprintf("u%d", i))
			r.Register(c)
			r.MembersOf(key)
			r.Unregister(c)
		}(i)
	}
	wg.Wait()

	assert.False(t, r.HasRoom(key))
	rooms, conns := r.Stats()
	assert.Empty(t, rooms)
	assert.Zero(t, conns)
}

func TestRegistry_StatsSortedByKey(t *testing.T) {
	r := NewRegistry()
	r.Register(testConn(LiveRoom("t2", "f"), "a"))
	r.Register(testConn(ChatRoom(), "b"))
	r.Register(testConn(ChatRoom(), "c"))
	r.Register(testConn(CanvasRoom("t1"), "d"))

	rooms, conns := r.Stats()
	require.Len(t, rooms, 3)
	assert.Equal(t, 4, conns)

	assert.Equal(t, CanvasRoom("t1"), rooms[0].Key)
	assert.Equal(t, KindCanvas, rooms[0].Kind)
	assert.Equal(t, ChatRoom(), rooms[1].Key)
	assert.Equal(t, 2, rooms[1].Connections)
	assert.Equal(t, KindLive, rooms[2].Kind)
}

func TestRoomKey_Parts(t *testing.T) {
	tests := []struct {
		key  RoomKey
		kind RoomKind
		team string
		file string
	}{
		{ChatRoom(), KindChat, "", ""},
		{LiveRoom("team1", "fileX"), KindLive, "team1", "fileX"},
		{CanvasRoom("team1"), KindCanvas, "team1", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.key.Kind())
			assert.Equal(t, tt.team, tt.key.TeamID())
			assert.Equal(t, tt.file, tt.key.FileID())
		})
	}
}
