package room

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/colsen/skelarena/internal/game/protocol"
)

// testDir is an in-memory Directory for room tests.
type testDir struct {
	mu    sync.Mutex
	lobby *Room
	rooms map[string]*Room
	names []string
}

func newTestDir() *testDir {
	return &testDir{
		rooms: make(map[string]*Room),
		names: []string{"Brigan", "Morgan"},
	}
}

func (d *testDir) Lobby() *Room { return d.lobby }

func (d *testDir) FindRoom(name string) (*Room, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rooms[name]
	return r, ok
}

func (d *testDir) AddRoom(r *Room) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.rooms[r.Name()]; ok {
		return fmt.Errorf("room name %q already in use", r.Name())
	}
	d.rooms[r.Name()] = r
	return nil
}

func (d *testDir) RemoveRoom(r *Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if current, ok := d.rooms[r.Name()]; ok && current == r {
		delete(d.rooms, r.Name())
	}
}

func (d *testDir) RoomNameInUse(name string) bool {
	_, ok := d.FindRoom(name)
	return ok
}

func (d *testDir) ReserveName() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.names) == 0 {
		return "", errors.New("name pool exhausted")
	}
	name := d.names[0]
	d.names = d.names[1:]
	return name, nil
}

// drain empties the client's outbound queue without blocking.
func drain(c *Client) []string {
	var lines []string
	for {
		select {
		case line := <-c.Outbound():
			lines = append(lines, line)
		default:
			return lines
		}
	}
}

func containsLineWith(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestRegisterClient_AnnouncesJoin(t *testing.T) {
	dir := newTestDir()
	r := NewChatRoom("den", dir, zap.NewNop())
	dir.AddRoom(r)
	c := NewClient("alice", "conn-a")

	r.RegisterClient(c)

	require.True(t, r.HasMember(c))
	assert.Same(t, r, c.Room())

	lines := drain(c)
	assert.True(t, containsLineWith(lines, string(protocol.EventJoinedRoom)))
	assert.True(t, containsLineWith(lines, "Welcome to the den!"))
	assert.True(t, containsLineWith(lines, string(protocol.EventClientJoined)))
	assert.True(t, containsLineWith(lines, "alice connected"))
}

func TestRegisterClient_DuplicateIsTargetedError(t *testing.T) {
	dir := newTestDir()
	r := NewChatRoom("den", dir, zap.NewNop())
	a := NewClient("alice", "conn-a")
	b := NewClient("bob", "conn-b")
	r.RegisterClient(a)
	r.RegisterClient(b)
	drain(a)
	drain(b)

	err := r.RegisterClient(a)

	require.ErrorIs(t, err, ErrAlreadyMember)
	assert.Equal(t, 2, r.MemberCount())
	assert.True(t, containsLineWith(drain(a), string(protocol.EventValidationError)))
	assert.Empty(t, drain(b), "other members must not see the failure")
}

func TestHandleMessage_BroadcastAndHistory(t *testing.T) {
	dir := newTestDir()
	r := NewChatRoom("den", dir, zap.NewNop())
	a := NewClient("alice", "conn-a")
	b := NewClient("bob", "conn-b")
	r.RegisterClient(a)
	r.RegisterClient(b)
	drain(a)
	drain(b)

	r.HandleMessage(a, "hello there")

	assert.Contains(t, drain(a), "alice: hello there")
	assert.Contains(t, drain(b), "alice: hello there")

	late := NewClient("carol", "conn-c")
	assert.Contains(t, r.History(late), "alice: hello there")
}

func TestHandleMessage_EmptyAndNonMemberIgnored(t *testing.T) {
	dir := newTestDir()
	r := NewChatRoom("den", dir, zap.NewNop())
	a := NewClient("alice", "conn-a")
	r.RegisterClient(a)
	drain(a)

	r.HandleMessage(a, "   ")
	stranger := NewClient("eve", "conn-e")
	r.HandleMessage(stranger, "hi")

	assert.Empty(t, drain(a))
}

func TestSendSystem_UnknownTypeDropped(t *testing.T) {
	dir := newTestDir()
	r := NewChatRoom("den", dir, zap.NewNop())
	a := NewClient("alice", "conn-a")
	r.RegisterClient(a)
	drain(a)

	r.SendSystem(protocol.EventType("bogus"), r.ID(), nil)
	r.SendSystem(protocol.EventValidationError, r.ID(), nil, "a", "b")

	assert.Empty(t, drain(a))
}

func TestHistory_TargetedMessagesStayPrivate(t *testing.T) {
	dir := newTestDir()
	r := NewChatRoom("den", dir, zap.NewNop())
	a := NewClient("alice", "conn-a")
	b := NewClient("bob", "conn-b")
	r.RegisterClient(a)
	r.RegisterClient(b)

	r.SendMessage(Message{Author: a, Text: "psst", Targets: []*Client{b}}, true)

	assert.Contains(t, r.History(b), "alice: psst")
	assert.NotContains(t, r.History(a), "alice: psst")
}

func TestChatRoom_DestroyedWhenEmpty(t *testing.T) {
	dir := newTestDir()
	dir.lobby = NewLobbyRoom(dir, nil, nil, zap.NewNop())
	r := NewChatRoom("den", dir, zap.NewNop())
	dir.AddRoom(r)
	a := NewClient("alice", "conn-a")
	r.RegisterClient(a)

	r.RemoveClient(a)

	_, ok := dir.FindRoom("den")
	assert.False(t, ok, "empty chat room must be removed from the directory")
}

func TestLeaveCommand_ReturnsToLobby(t *testing.T) {
	dir := newTestDir()
	dir.lobby = NewLobbyRoom(dir, nil, nil, zap.NewNop())
	r := NewChatRoom("den", dir, zap.NewNop())
	dir.AddRoom(r)
	a := NewClient("alice", "conn-a")
	r.RegisterClient(a)
	drain(a)

	r.HandleMessage(a, "::leave")

	assert.Same(t, dir.lobby, a.Room())
	assert.True(t, dir.lobby.HasMember(a))
	assert.False(t, r.HasMember(a))
}
