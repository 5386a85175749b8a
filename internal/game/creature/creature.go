// Package creature implements the combat entities: the finite-state Creature
// core, the autonomous Skeleton, and the client-controlled Player.
package creature

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/colsen/skelarena/internal/game/protocol"
)

// State is the creature's finite-state value.
type State string

// Creature states. StateDead is terminal: reachable from every other state,
// unreachable from.
const (
	StateIdle      State = "idle"
	StateAttacking State = "attacking"
	StateDefending State = "defending"
	StateDead      State = "dead"
)

// Sink receives every event a creature emits. Injected at construction; a
// combat room installs itself as the sink and turns events into broadcasts.
type Sink interface {
	CreatureEvent(src *Creature, typ protocol.EventType, args ...any)
}

// Creature is a finite-state combat entity.
//
// Invariant: all transition methods must be called with the guard held. The
// guard is shared by every creature in the same fight so that any sequence of
// transitions and damage application is atomic with respect to the others.
type Creature struct {
	uid        string
	name       string
	alive      bool
	maxHealth  int
	health     int
	damage     int
	actionTime time.Duration

	defending bool
	target    *Creature
	state     State

	guard sync.Locker
	sink  Sink
	timer *ActionTimer
}

// NewCreature constructs an idle, living creature.
//
// Precondition: name must be non-empty; maxHealth and damage must be > 0.
// guard may be nil, in which case the creature gets a private mutex.
// sink may be nil (events are dropped).
func NewCreature(name string, maxHealth, damage int, actionTime time.Duration, guard sync.Locker, sink Sink) *Creature {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	return &Creature{
		uid:        ShortID(),
		name:       name,
		alive:      true,
		maxHealth:  maxHealth,
		health:     maxHealth,
		damage:     damage,
		actionTime: actionTime,
		state:      StateIdle,
		guard:      guard,
		sink:       sink,
	}
}

// ShortID returns an 8-character unique identifier.
func ShortID() string {
	return uuid.NewString()[:8]
}

// UID returns the creature's unique identifier.
func (c *Creature) UID() string { return c.uid }

// Name returns the creature's display name.
func (c *Creature) Name() string { return c.name }

// Guard returns the mutex protecting this creature's fight.
func (c *Creature) Guard() sync.Locker { return c.guard }

// Alive reports whether the creature is still alive. Caller must hold the guard.
func (c *Creature) Alive() bool { return c.alive }

// Health returns current health. Caller must hold the guard.
func (c *Creature) Health() int { return c.health }

// MaxHealth returns the health ceiling.
func (c *Creature) MaxHealth() int { return c.maxHealth }

// Damage returns the amount applied to the target when an attack lands.
func (c *Creature) Damage() int { return c.damage }

// State returns the current finite-state value. Caller must hold the guard.
func (c *Creature) State() State { return c.state }

// Defending reports whether the defense flag is set. Caller must hold the guard.
func (c *Creature) Defending() bool { return c.defending }

// Target returns the current target, which may be nil. Caller must hold the guard.
func (c *Creature) Target() *Creature { return c.target }

// SetTarget points the creature at a new target. The target is a reference,
// never owned: it may leave the fight independently. Caller must hold the guard.
func (c *Creature) SetTarget(t *Creature) { c.target = t }

func (c *Creature) emit(typ protocol.EventType, args ...any) {
	if c.sink != nil {
		c.sink.CreatureEvent(c, typ, args...)
	}
}

// setState changes the finite-state value and announces it. Every state
// change emits creature_changed_state before the transition's own event.
func (c *Creature) setState(s State) {
	c.state = s
	c.emit(protocol.EventCreatureState, string(s))
}

// BeginAttack transitions idle → attacking and schedules the
// action-completion timer. Caller must hold the guard.
//
// Postcondition: on success the creature is attacking and a timer will fire
// ActionComplete after the action time unless interrupted first.
func (c *Creature) BeginAttack() error {
	if c.state != StateIdle {
		return fmt.Errorf("begin_attack: invalid from state %q", c.state)
	}
	c.setState(StateAttacking)
	c.emit(protocol.EventAttackStarted)
	c.scheduleCompletion()
	return nil
}

// BeginDefense transitions idle → defending, sets the defense flag, and
// schedules the action-completion timer. Caller must hold the guard.
func (c *Creature) BeginDefense() error {
	if c.state != StateIdle {
		return fmt.Errorf("begin_defense: invalid from state %q", c.state)
	}
	c.setState(StateDefending)
	c.defending = true
	c.emit(protocol.EventDefenseStarted)
	c.scheduleCompletion()
	return nil
}

// Interrupt cancels an in-flight attack, returning the creature to idle.
// The pending completion timer is cancelled so it can never fire afterwards.
// Caller must hold the guard.
func (c *Creature) Interrupt() error {
	if c.state != StateAttacking {
		return fmt.Errorf("interrupt: invalid from state %q", c.state)
	}
	c.cancelTimer()
	c.setState(StateIdle)
	c.emit(protocol.EventCreatureInterrupted)
	return nil
}

// ActionComplete finishes the in-flight action. From attacking it lands the
// attack on the current target if one is set; from defending it clears the
// defense flag. Any other state is a no-op (a late timer that lost the race
// against an interrupt or death). Caller must hold the guard.
func (c *Creature) ActionComplete() {
	switch c.state {
	case StateAttacking:
		c.setState(StateIdle)
		c.emit(protocol.EventAttackFinished)
		if c.target != nil {
			c.target.TakeDamage(c.damage)
		}
	case StateDefending:
		c.setState(StateIdle)
		c.defending = false
		c.emit(protocol.EventDefenseStopped)
	}
}

// TakeDamage applies incoming damage. A defending creature blocks it fully.
// Otherwise an in-flight attack is interrupted, health drops, and the
// creature dies when health reaches zero or below. Damage to an already-dead
// creature is a no-op. Caller must hold the guard.
func (c *Creature) TakeDamage(dmg int) {
	if !c.alive {
		return
	}
	if c.defending {
		c.emit(protocol.EventCreatureBlocked)
		return
	}
	if c.state == StateAttacking {
		_ = c.Interrupt()
	}
	c.emit(protocol.EventCreatureTookDamage, dmg)
	c.health -= dmg
	c.emit(protocol.EventCreatureHealth, c.health)
	if c.health <= 0 {
		c.alive = false
		c.Die()
	}
}

// Die moves the creature to the terminal dead state from any other state,
// cancelling any pending action timer. Idempotent. Caller must hold the guard.
func (c *Creature) Die() {
	if c.state == StateDead {
		return
	}
	c.cancelTimer()
	c.alive = false
	c.setState(StateDead)
	c.emit(protocol.EventCreatureDeath)
}

// Release cancels any pending action timer without emitting events. Used when
// a creature leaves a fight mid-action. Caller must hold the guard.
func (c *Creature) Release() {
	c.cancelTimer()
}

// scheduleCompletion arms the action-completion timer. The handle identity
// check under the guard makes cancellation race-free: a timer that fires
// after being superseded or cancelled finds c.timer pointing elsewhere and
// does nothing.
func (c *Creature) scheduleCompletion() {
	var t *ActionTimer
	t = StartActionTimer(c.actionTime, func() {
		c.guard.Lock()
		defer c.guard.Unlock()
		if c.timer != t {
			return
		}
		c.timer = nil
		c.ActionComplete()
	})
	c.timer = t
}

func (c *Creature) cancelTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// FullReport returns the positional state snapshot used by ui_setup_creature:
// uid, name, alive, maxHealth, health, state, and the target's name when a
// target is held. Caller must hold the guard.
func (c *Creature) FullReport() []string {
	rep := protocol.Stringify(c.uid, c.name, c.alive, c.maxHealth, c.health, string(c.state))
	if c.target != nil {
		rep = append(rep, c.target.name)
	}
	return rep
}

// String implements fmt.Stringer for logging.
func (c *Creature) String() string {
	return strings.Join([]string{c.uid, c.name, string(c.state)}, "/")
}
