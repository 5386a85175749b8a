package room

import (
	"fmt"

	"go.uber.org/zap"
)

// RoomFactory creates a sub-room with the given display name. The lobby calls
// it for create and skeleton; the server wires in the concrete constructors.
type RoomFactory func(name string) *Room

// lobbyStrategy is the entry room every client lands in after registration.
// Its vocabulary creates and joins sub-rooms; the lobby itself is never
// destroyed.
type lobbyStrategy struct {
	dir       Directory
	newChat   RoomFactory
	newCombat RoomFactory
	commands  *CommandSet
}

// NewLobbyRoom builds the singleton lobby.
//
// Precondition: dir, newChat, and newCombat must be non-nil.
func NewLobbyRoom(dir Directory, newChat, newCombat RoomFactory, logger *zap.Logger) *Room {
	s := &lobbyStrategy{dir: dir, newChat: newChat, newCombat: newCombat}
	s.commands = NewCommandSet(
		Command{Name: "join", MinArgs: 1, MaxArgs: 1, Help: "join an existing room by name", Run: s.join},
		Command{Name: "create", MinArgs: 0, MaxArgs: 1, Help: "create a chat room, optionally named", Run: s.create},
		Command{Name: "skeleton", MinArgs: 0, MaxArgs: 1, Help: "enter a skeleton fight, optionally named", Run: s.skeleton},
	)
	return New("Lobby", s, dir, logger)
}

func (s *lobbyStrategy) Kind() Kind              { return KindLobby }
func (s *lobbyStrategy) ChatName() string        { return "Lobby" }
func (s *lobbyStrategy) Commands() *CommandSet   { return s.commands }
func (s *lobbyStrategy) OnJoin(r *Room, c *Client)  { announceJoin(r, c) }
func (s *lobbyStrategy) OnLeave(r *Room, c *Client) { announceLeave(r, c) }
func (s *lobbyStrategy) ShouldDestroy(*Room) bool   { return false }
func (s *lobbyStrategy) Shutdown(*Room)             {}

func (s *lobbyStrategy) join(r *Room, c *Client, args []string) {
	name := args[0]
	target, ok := s.dir.FindRoom(name)
	if !ok {
		r.ValidationError(c, fmt.Sprintf("There is no room with name %s.", name))
		return
	}
	s.enter(r, c, target)
}

func (s *lobbyStrategy) create(r *Room, c *Client, args []string) {
	name, ok := s.reserve(r, c, args)
	if !ok {
		return
	}
	s.open(r, c, s.newChat(name))
}

func (s *lobbyStrategy) skeleton(r *Room, c *Client, args []string) {
	if len(args) == 1 {
		if target, ok := s.dir.FindRoom(args[0]); ok {
			if target.Kind() != KindCombat {
				r.ValidationError(c, fmt.Sprintf("Room %s is not a skeleton fight.", args[0]))
				return
			}
			s.enter(r, c, target)
			return
		}
	}
	name, ok := s.reserve(r, c, args)
	if !ok {
		return
	}
	s.open(r, c, s.newCombat(name))
}

// enter moves the issuer into target. Capacity is enforced by the transfer
// itself, so a concurrent session grabbing the last slot surfaces here as a
// full room and the issuer stays in the lobby.
func (s *lobbyStrategy) enter(r *Room, c *Client, target *Room) {
	if err := Transfer(c, target); err != nil {
		r.ValidationError(c, rejectionReason(err, target.Name()))
	}
}

// open publishes a freshly built sub-room and moves its creator in. Losing
// the name to a concurrent creator between reserve and here tears the
// unpublished room down again.
func (s *lobbyStrategy) open(r *Room, c *Client, sub *Room) {
	if err := s.dir.AddRoom(sub); err != nil {
		sub.destroy()
		r.ValidationError(c, fmt.Sprintf("Room name %s is taken, choose another.", sub.Name()))
		return
	}
	s.enter(r, c, sub)
}

// reserve resolves the room name for a creation command: the explicit argument
// when one was given and free, or a random pool name otherwise.
func (s *lobbyStrategy) reserve(r *Room, c *Client, args []string) (string, bool) {
	if len(args) == 1 {
		name := args[0]
		if s.dir.RoomNameInUse(name) {
			r.ValidationError(c, fmt.Sprintf("Room name %s is taken, choose another.", name))
			return "", false
		}
		return name, true
	}
	name, err := s.dir.ReserveName()
	if err != nil {
		r.ValidationError(c, "No room names left, provide one explicitly.")
		return "", false
	}
	return name, true
}
