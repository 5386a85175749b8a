package room

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/colsen/skelarena/internal/game/creature"
	"github.com/colsen/skelarena/internal/game/protocol"
)

// CombatOptions configures a skeleton-fight room.
type CombatOptions struct {
	// SkeletonTemplate and PlayerTemplate are the validated creature stats.
	SkeletonTemplate *creature.Template
	PlayerTemplate   *creature.Template
	// Capacity bounds membership.
	Capacity int
	// Tick is the skeleton's decision interval; IdleWait its interval while
	// no living target exists.
	Tick     time.Duration
	IdleWait time.Duration
	// Rand drives the skeleton's choices. Nil means math/rand.
	Rand creature.Source
}

// combatStrategy runs a skeleton fight. It owns the fight mutex shared by
// every creature in the room, the skeleton's simulation loop, and the mapping
// from player creatures back to their controlling clients. It is also the
// creature event sink: transitions inside the fight become system message
// broadcasts here.
//
// Lock order: fight before Room.mu, never the reverse. Broadcasts are queue
// writes and take no locks of their own.
type combatStrategy struct {
	dir    Directory
	opts   CombatOptions
	logger *zap.Logger

	room     *Room
	commands *CommandSet

	fight    sync.Mutex
	skeleton *creature.Skeleton
	players  map[*creature.Creature]*Client
	cancel   context.CancelFunc
}

// NewCombatRoom builds a skeleton-fight sub-room and starts its skeleton's
// simulation loop. The skeleton is named after the room.
//
// Precondition: opts templates must be validated; Capacity, Tick, and
// IdleWait must be > 0.
func NewCombatRoom(name string, dir Directory, opts CombatOptions, logger *zap.Logger) *Room {
	s := &combatStrategy{
		dir:     dir,
		opts:    opts,
		logger:  logger,
		players: make(map[*creature.Creature]*Client),
	}
	s.commands = NewCommandSet(
		Command{Name: "leave", MinArgs: 0, MaxArgs: 0, Help: "run from the fight", Run: leaveToLobby},
		Command{Name: "attack", MinArgs: 0, MaxArgs: 0, Help: "attack the skeleton", Run: s.attack},
		Command{Name: "defend", MinArgs: 0, MaxArgs: 0, Help: "block the next hit", Run: s.defend},
	)

	tmpl := *opts.SkeletonTemplate
	tmpl.Name = name
	s.skeleton = creature.NewSkeleton(&tmpl, &s.fight, s, opts.Rand, opts.Tick, opts.IdleWait)

	s.room = New(name, s, dir, logger)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.skeleton.Run(ctx)

	return s.room
}

func (s *combatStrategy) Kind() Kind            { return KindCombat }
func (s *combatStrategy) ChatName() string      { return "Spooky voice" }
func (s *combatStrategy) Commands() *CommandSet { return s.commands }
func (s *combatStrategy) Capacity() int         { return s.opts.Capacity }

// OnJoin creates the joiner's player creature, wires it into the fight, and
// sends the joiner a ui_setup_creature snapshot of every living combatant.
func (s *combatStrategy) OnJoin(r *Room, c *Client) {
	player := creature.NewPlayer(s.opts.PlayerTemplate, c.Username(), c.ID(), &s.fight, s)
	c.SetPlayer(player)

	s.fight.Lock()
	player.SetTarget(s.skeleton.Creature)
	s.skeleton.AddTarget(player.Creature)
	s.players[player.Creature] = c
	reports := s.liveReportsLocked()
	s.fight.Unlock()

	r.SendSystem(protocol.EventClientJoined, r.ID(), nil, c.ID(), c.Username())
	r.SendMessage(Message{Author: r, Text: c.Username() + " entered the skeleton fight!"}, true)
	for _, rep := range reports {
		args := make([]any, len(rep))
		for i, f := range rep {
			args[i] = f
		}
		r.SendSystem(protocol.EventSetupCreature, rep[0], []*Client{c}, args...)
	}
}

// liveReportsLocked snapshots every living combatant, skeleton first. Caller
// must hold the fight mutex.
func (s *combatStrategy) liveReportsLocked() [][]string {
	var reports [][]string
	if s.skeleton.Alive() {
		reports = append(reports, s.skeleton.FullReport())
	}
	for cr := range s.players {
		if cr.Alive() {
			reports = append(reports, cr.FullReport())
		}
	}
	return reports
}

// OnLeave unwires the leaver's player creature from the fight. A pending
// action timer is released so it can never fire into a dismantled fight.
func (s *combatStrategy) OnLeave(r *Room, c *Client) {
	player := c.Player()
	if player == nil {
		return
	}
	c.SetPlayer(nil)

	s.fight.Lock()
	s.skeleton.RemoveTarget(player.Creature)
	delete(s.players, player.Creature)
	player.Release()
	s.fight.Unlock()

	r.SendSystem(protocol.EventClientLeft, r.ID(), nil, c.ID(), c.Username())
	r.SendMessage(Message{Author: r, Text: c.Username() + " ran from the fight!"}, true)
}

// ShouldDestroy reports whether the fight is over: nobody left, or no member
// still fields a living player creature. Spectating a finished fight is not a
// thing; the room collapses and survivors' remains return to the lobby.
func (s *combatStrategy) ShouldDestroy(r *Room) bool {
	if r.MemberCount() == 0 {
		return true
	}
	s.fight.Lock()
	defer s.fight.Unlock()
	for cr := range s.players {
		if cr.Alive() {
			return false
		}
	}
	return true
}

// Shutdown stops the skeleton's loop and releases its pending timer.
func (s *combatStrategy) Shutdown(*Room) {
	s.cancel()
	s.fight.Lock()
	s.skeleton.Release()
	s.fight.Unlock()
}

func (s *combatStrategy) attack(_ *Room, c *Client, _ []string) {
	if p := c.Player(); p != nil {
		p.Attack()
	}
}

func (s *combatStrategy) defend(_ *Room, c *Client, _ []string) {
	if p := c.Player(); p != nil {
		p.Defend()
	}
}

// CreatureEvent implements creature.Sink. Called with the fight mutex held,
// so it must not reacquire it; broadcasts only enqueue lines. ply_notify is
// routed privately to the owning client; ai_new_target rewrites its creature
// argument to a uid before hitting the wire; everything else is broadcast
// as a system message from the emitting creature.
func (s *combatStrategy) CreatureEvent(src *creature.Creature, typ protocol.EventType, args ...any) {
	switch typ {
	case protocol.EventPlayerNotify:
		owner, ok := s.players[src]
		if !ok || len(args) != 1 {
			s.logger.Warn("player notice without owning client",
				zap.String("room", s.room.Name()),
				zap.String("creature", src.UID()),
			)
			return
		}
		s.room.SendText(protocol.Stringify(args[0])[0], []*Client{owner})
		return
	case protocol.EventAINewTarget:
		if len(args) == 1 {
			if target, ok := args[0].(*creature.Creature); ok {
				args[0] = target.UID()
			}
		}
	}
	s.room.SendSystem(typ, src.UID(), nil, args...)
}
