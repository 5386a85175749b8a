package room

import "github.com/colsen/skelarena/internal/game/protocol"

// Speaker is anything that can author a chat line: a Client, or a Room acting
// as its system voice.
type Speaker interface {
	ChatName() string
}

// Message is an authored chat broadcast. An empty target list means "all
// current room members".
//
// Invariant: chat broadcasts always carry an author. Authorless text goes
// through Room.SendText and is never logged; system events use SystemMessage,
// never the chat path.
type Message struct {
	Author  Speaker
	Text    string
	Targets []*Client
}

// Line renders the message as its wire line.
func (m Message) Line() string {
	author := ""
	if m.Author != nil {
		author = m.Author.ChatName()
	}
	return protocol.FormatChat(author, m.Text)
}

// visibleTo reports whether the message appears in history replay for the
// given client: untargeted messages always do, targeted ones only when the
// list contains this client. The match is on the current Client value, so
// lines targeted at a previous session of the same name stay invisible after
// reconnecting; that is long-standing documented behavior, kept as is.
func (m Message) visibleTo(c *Client) bool {
	if len(m.Targets) == 0 {
		return true
	}
	for _, t := range m.Targets {
		if t == c {
			return true
		}
	}
	return false
}
