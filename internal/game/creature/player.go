package creature

import (
	"sync"

	"github.com/colsen/skelarena/internal/game/protocol"
)

// Player is a client-controlled creature. Its actions are invoked by command
// handlers instead of a simulation loop; rejected attempts emit ply_notify
// rather than changing state.
type Player struct {
	*Creature

	// OwnerID is the connection-level client id controlling this player.
	// Combat rooms use it to route ply_notify privately.
	OwnerID string
}

// NewPlayer constructs a player creature for the client with the given id.
//
// Precondition: tmpl must be validated; name and ownerID must be non-empty.
func NewPlayer(tmpl *Template, name, ownerID string, guard sync.Locker, sink Sink) *Player {
	return &Player{
		Creature: NewCreature(name, tmpl.MaxHealth, tmpl.Damage, tmpl.ActionDuration(), guard, sink),
		OwnerID:  ownerID,
	}
}

// Attack begins an attack action. Requires the player alive, a living target,
// and the idle state; otherwise a ply_notify event carries the reason and no
// state change occurs. Acquires the fight guard.
func (p *Player) Attack() {
	p.Guard().Lock()
	defer p.Guard().Unlock()
	if !p.ready() || p.State() != StateIdle {
		p.emit(protocol.EventPlayerNotify, "Can't attack now!")
		return
	}
	_ = p.BeginAttack()
}

// Defend begins a defense action under the same preconditions as Attack.
// Acquires the fight guard.
func (p *Player) Defend() {
	p.Guard().Lock()
	defer p.Guard().Unlock()
	if !p.ready() || p.State() != StateIdle {
		p.emit(protocol.EventPlayerNotify, "Can't defend now!")
		return
	}
	_ = p.BeginDefense()
}

// ready reports whether the player may act at all. Caller must hold the guard.
func (p *Player) ready() bool {
	return p.Alive() && p.Target() != nil && p.Target().Alive()
}
