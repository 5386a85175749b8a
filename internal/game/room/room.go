// Package room implements the broadcast substrate: rooms with membership,
// chat history, command dispatch, and the lobby/chat/combat specializations.
package room

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/colsen/skelarena/internal/game/creature"
	"github.com/colsen/skelarena/internal/game/protocol"
)

// Membership registration failures.
var (
	// ErrRoomFull means the room is at its strategy's capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrAlreadyMember means the connection is already registered here.
	ErrAlreadyMember = errors.New("already registered in room")
)

// Kind selects a room's command vocabulary and join/leave behavior.
type Kind string

// Room kinds.
const (
	KindLobby  Kind = "lobby"
	KindChat   Kind = "chat"
	KindCombat Kind = "combat"
)

// Directory is the server-owned registry of active rooms. It is passed to
// rooms as an explicit capability; no component reaches a room list through
// ambient state.
type Directory interface {
	// Lobby returns the singleton lobby room.
	Lobby() *Room
	// FindRoom looks up an active sub-room by display name.
	FindRoom(name string) (*Room, bool)
	// AddRoom registers a newly created sub-room. It fails when the room's
	// name is already taken, atomically with the insertion.
	AddRoom(r *Room) error
	// RemoveRoom drops a destroyed sub-room from the active set.
	RemoveRoom(r *Room)
	// RoomNameInUse reports whether name is taken by an active sub-room.
	RoomNameInUse(name string) bool
	// ReserveName draws a random unused name from the fixed name pool.
	ReserveName() (string, error)
}

// Strategy refines a Room with kind-specific behavior. One Room type plus an
// injected strategy replaces a specialization hierarchy.
type Strategy interface {
	Kind() Kind
	// ChatName is the room's system voice in chat lines.
	ChatName() string
	// Commands is the room's fixed command vocabulary.
	Commands() *CommandSet
	// OnJoin runs after a client is added to membership.
	OnJoin(r *Room, c *Client)
	// OnLeave runs after a client is removed from membership.
	OnLeave(r *Room, c *Client)
	// ShouldDestroy is consulted after each removal.
	ShouldDestroy(r *Room) bool
	// Shutdown stops any background work when the room is destroyed.
	Shutdown(r *Room)
}

// capacityStrategy is implemented by strategies that bound membership.
type capacityStrategy interface {
	Capacity() int
}

// Room is a broadcast domain: a set of member clients, an append-only chat
// log, and a strategy fixing its vocabulary and lifecycle.
type Room struct {
	id       string
	name     string
	strategy Strategy
	dir      Directory
	logger   *zap.Logger

	mu         sync.Mutex
	members    []*Client
	log        []Message
	destroying bool
}

// New creates a room with the given display name and strategy.
//
// Precondition: strategy and logger must be non-nil. dir may be nil only in
// rooms that can never be destroyed or create siblings.
func New(name string, strategy Strategy, dir Directory, logger *zap.Logger) *Room {
	return &Room{
		id:       creature.ShortID(),
		name:     name,
		strategy: strategy,
		dir:      dir,
		logger:   logger,
	}
}

// ID returns the room's unique identifier.
func (r *Room) ID() string { return r.id }

// Name returns the room's display name.
func (r *Room) Name() string { return r.name }

// Kind returns the room kind.
func (r *Room) Kind() Kind { return r.strategy.Kind() }

// ChatName implements Speaker with the room's system voice.
func (r *Room) ChatName() string { return r.strategy.ChatName() }

// Members returns a snapshot of current membership.
func (r *Room) Members() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Client, len(r.members))
	copy(out, r.members)
	return out
}

// MemberCount returns the current membership size.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// HasMember reports whether the client (by connection identity) is a member.
func (r *Room) HasMember(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memberByKeyLocked(c.Key()) != nil
}

// Full reports whether the room is at its membership capacity. Rooms without
// a capacity are never full.
func (r *Room) Full() bool {
	cs, ok := r.strategy.(capacityStrategy)
	if !ok {
		return false
	}
	return r.MemberCount() >= cs.Capacity()
}

func (r *Room) memberByKeyLocked(key string) *Client {
	for _, m := range r.members {
		if m.Key() == key {
			return m
		}
	}
	return nil
}

// admit claims a membership slot. The duplicate and capacity checks are
// atomic with the insertion, so two sessions racing for the last slot can
// never both get in.
func (r *Room) admit(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.memberByKeyLocked(c.Key()) != nil {
		return ErrAlreadyMember
	}
	if cs, ok := r.strategy.(capacityStrategy); ok && len(r.members) >= cs.Capacity() {
		return ErrRoomFull
	}
	r.members = append(r.members, c)
	return nil
}

// finishJoin runs the post-admission half of registration: the client points
// here, receives its joined_room event, and the kind-specific join hook fires.
func (r *Room) finishJoin(c *Client) {
	c.setRoom(r)
	r.SendSystem(protocol.EventJoinedRoom, r.id, []*Client{c}, r.id, r.name, string(r.Kind()))
	r.strategy.OnJoin(r, c)
}

// RegisterClient adds a client to membership, points the client at this room,
// and runs the kind-specific join hook. A duplicate registration or a full
// room is a recoverable protocol error surfaced only to that client.
func (r *Room) RegisterClient(c *Client) error {
	if err := r.admit(c); err != nil {
		r.logger.Warn("rejecting room registration",
			zap.String("room", r.name),
			zap.String("client", c.ID()),
			zap.Error(err),
		)
		r.ValidationError(c, rejectionReason(err, r.name))
		return err
	}
	r.finishJoin(c)
	return nil
}

// rejectionReason renders an admission error as the line the offending client
// sees.
func rejectionReason(err error, name string) string {
	switch {
	case errors.Is(err, ErrRoomFull):
		return fmt.Sprintf("Room %s is full.", name)
	case errors.Is(err, ErrAlreadyMember):
		return "Already registered in this room"
	default:
		return err.Error()
	}
}

// RemoveClient removes a client by connection identity and runs the
// kind-specific leave hook. For sub-rooms the room destroys itself when the
// strategy says so (empty membership, or no living fighter for combat rooms).
// Removing a non-member is a no-op.
func (r *Room) RemoveClient(c *Client) {
	r.mu.Lock()
	found := false
	for i, m := range r.members {
		if m.Key() == c.Key() {
			r.members = append(r.members[:i], r.members[i+1:]...)
			found = true
			break
		}
	}
	destroying := r.destroying
	r.mu.Unlock()
	if !found {
		return
	}

	r.strategy.OnLeave(r, c)

	if !destroying && r.strategy.ShouldDestroy(r) {
		r.destroy()
	}
}

// destroy shuts the room down, removes it from the active set, and returns
// any remaining members to the lobby.
func (r *Room) destroy() {
	r.mu.Lock()
	if r.destroying {
		r.mu.Unlock()
		return
	}
	r.destroying = true
	r.mu.Unlock()

	r.strategy.Shutdown(r)
	if r.dir != nil {
		r.dir.RemoveRoom(r)
	}
	r.logger.Info("room destroyed",
		zap.String("room", r.name),
		zap.String("kind", string(r.Kind())),
	)

	if r.dir == nil {
		return
	}
	for _, m := range r.Members() {
		if err := Transfer(m, r.dir.Lobby()); err != nil {
			r.logger.Warn("could not return member to lobby",
				zap.String("room", r.name),
				zap.String("client", m.ID()),
				zap.Error(err),
			)
		}
	}
}

// HandleMessage routes one inbound chat line from a member. Empty input is a
// no-op; a command-marker prefix dispatches through the room's vocabulary;
// anything else becomes a logged chat broadcast.
func (r *Room) HandleMessage(c *Client, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if !r.HasMember(c) {
		r.logger.Warn("message from client not registered in room",
			zap.String("room", r.name),
			zap.String("client", c.ID()),
		)
		return
	}

	if protocol.IsCommand(text) {
		verb, args := protocol.ParseCommand(text)
		r.strategy.Commands().Dispatch(r, c, verb, args)
		return
	}

	r.SendMessage(Message{Author: c, Text: text}, true)
}

// SendMessage fans an authored chat line out to the resolved target set and
// appends it to the room log when logIt is set. History replay only ever
// shows logged, authored chat.
//
// Precondition: msg.Author must be non-nil.
func (r *Room) SendMessage(msg Message, logIt bool) {
	targets := msg.Targets
	if len(targets) == 0 {
		targets = r.Members()
	}
	r.deliver(msg.Line(), targets)

	if logIt {
		r.mu.Lock()
		r.log = append(r.log, msg)
		r.mu.Unlock()
	}
}

// SendText fans a bare, authorless text line out to targets (or all members
// when targets is empty). Raw text is never logged.
func (r *Room) SendText(text string, targets []*Client) {
	if len(targets) == 0 {
		targets = r.Members()
	}
	r.deliver(protocol.FormatChat("", text), targets)
}

// SendSystem fans a system message out to targets (or all members when
// targets is empty). A type outside the fixed vocabulary, or an arity
// violation, is logged and dropped; it must never crash the room. System
// messages are never logged to history.
func (r *Room) SendSystem(typ protocol.EventType, emitter string, targets []*Client, args ...any) {
	msg := protocol.NewSystemMessage(emitter, typ, args...)
	if err := msg.Validate(); err != nil {
		r.logger.Error("dropping invalid system message",
			zap.String("room", r.name),
			zap.Error(err),
		)
		return
	}
	if len(targets) == 0 {
		targets = r.Members()
	}
	r.deliver(msg.Encode(), targets)
}

// ValidationError sends a validation_error system message to the single
// client responsible. Failures are never broadcast to uninvolved members.
func (r *Room) ValidationError(c *Client, reason string) {
	r.SendSystem(protocol.EventValidationError, r.id, []*Client{c}, reason)
}

func (r *Room) deliver(line string, targets []*Client) {
	for _, t := range targets {
		if err := t.Send(line); err != nil {
			r.logger.Debug("dropping line for client",
				zap.String("room", r.name),
				zap.String("client", t.ID()),
				zap.Error(err),
			)
		}
	}
}

// History returns the replayable chat lines visible to the given client.
func (r *Room) History(c *Client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []string
	for _, m := range r.log {
		if m.visibleTo(c) {
			lines = append(lines, m.Line())
		}
	}
	return lines
}

// Transfer moves a client from its current room into another. The destination
// slot is claimed before the client leaves its current room, so a failed
// transfer leaves the client exactly where it was, with nothing announced on
// either side. The leave hook still completes before the join hook runs.
func Transfer(c *Client, to *Room) error {
	if err := to.admit(c); err != nil {
		return err
	}
	if from := c.Room(); from != nil {
		from.RemoveClient(c)
	}
	to.finishJoin(c)
	return nil
}

// announceJoin is the default join hook: a welcome line, the visible history,
// a presence event, and a logged "connected" chat line.
func announceJoin(r *Room, c *Client) {
	r.SendMessage(Message{Author: r, Text: "Welcome to the " + r.Name() + "! Here's what happened before you came:"}, false)
	for _, line := range r.History(c) {
		r.SendText(line, []*Client{c})
	}
	r.SendSystem(protocol.EventClientJoined, r.id, nil, c.ID(), c.Username())
	r.SendMessage(Message{Author: r, Text: c.Username() + " connected"}, true)
}

// announceLeave is the default leave hook: a presence event and a logged
// "disconnected" chat line.
func announceLeave(r *Room, c *Client) {
	r.SendSystem(protocol.EventClientLeft, r.id, nil, c.ID(), c.Username())
	r.SendMessage(Message{Author: r, Text: c.Username() + " disconnected"}, true)
}
