package room

import "go.uber.org/zap"

// chatStrategy is a plain user-created broadcast room. It lives while it has
// members and is destroyed when the last one leaves.
type chatStrategy struct {
	commands *CommandSet
}

// NewChatRoom builds a chat sub-room with the given display name.
func NewChatRoom(name string, dir Directory, logger *zap.Logger) *Room {
	s := &chatStrategy{}
	s.commands = NewCommandSet(
		Command{Name: "leave", MinArgs: 0, MaxArgs: 0, Help: "return to the lobby", Run: leaveToLobby},
	)
	return New(name, s, dir, logger)
}

func (s *chatStrategy) Kind() Kind              { return KindChat }
func (s *chatStrategy) ChatName() string        { return "Chat" }
func (s *chatStrategy) Commands() *CommandSet   { return s.commands }
func (s *chatStrategy) OnJoin(r *Room, c *Client)  { announceJoin(r, c) }
func (s *chatStrategy) OnLeave(r *Room, c *Client) { announceLeave(r, c) }
func (s *chatStrategy) ShouldDestroy(r *Room) bool { return r.MemberCount() == 0 }
func (s *chatStrategy) Shutdown(*Room)             {}

func leaveToLobby(r *Room, c *Client, _ []string) {
	if r.dir == nil {
		return
	}
	if err := Transfer(c, r.dir.Lobby()); err != nil {
		r.logger.Warn("could not return to lobby",
			zap.String("room", r.Name()),
			zap.String("client", c.ID()),
			zap.Error(err),
		)
	}
}
