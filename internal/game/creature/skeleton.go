package creature

import (
	"context"
	"sync"
	"time"

	"github.com/colsen/skelarena/internal/game/protocol"
)

// Skeleton is the autonomous creature driving a combat room. On top of the
// Creature core it owns a candidate target pool (the players currently in its
// room) distinct from its single current target, and a simulation loop that
// issues transitions until the skeleton dies.
type Skeleton struct {
	*Creature

	pool     []*Creature
	rng      Source
	tick     time.Duration
	idleWait time.Duration
}

// NewSkeleton constructs a skeleton from a template.
//
// Precondition: tmpl must be validated; tick and idleWait must be > 0.
// rng may be nil, defaulting to math/rand.
func NewSkeleton(tmpl *Template, guard sync.Locker, sink Sink, rng Source, tick, idleWait time.Duration) *Skeleton {
	if rng == nil {
		rng = NewMathSource()
	}
	return &Skeleton{
		Creature: NewCreature(tmpl.Name, tmpl.MaxHealth, tmpl.Damage, tmpl.ActionDuration(), guard, sink),
		rng:      rng,
		tick:     tick,
		idleWait: idleWait,
	}
}

// AddTarget appends a candidate to the target pool. Caller must hold the guard.
func (s *Skeleton) AddTarget(c *Creature) {
	s.pool = append(s.pool, c)
}

// RemoveTarget drops a candidate from the pool and clears the current target
// if it pointed at the departing creature. Caller must hold the guard.
func (s *Skeleton) RemoveTarget(c *Creature) {
	for i, t := range s.pool {
		if t == c {
			s.pool = append(s.pool[:i], s.pool[i+1:]...)
			break
		}
	}
	if s.Target() == c {
		s.SetTarget(nil)
	}
}

// Targets returns the candidate pool. Caller must hold the guard.
func (s *Skeleton) Targets() []*Creature {
	return s.pool
}

// Run executes the simulation loop until the skeleton dies or ctx is
// cancelled. Each cycle runs atomically under the fight guard; the waits
// between cycles are the loop's only suspension points.
func (s *Skeleton) Run(ctx context.Context) {
	s.Guard().Lock()
	s.emit(protocol.EventCreatureStart)
	s.Guard().Unlock()

	for {
		s.Guard().Lock()
		if !s.Alive() {
			s.Guard().Unlock()
			return
		}
		wait := s.Step()
		s.Guard().Unlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// Step runs one simulation cycle and returns how long to wait before the
// next one. Caller must hold the guard.
//
// Postcondition: the returned wait is the idle interval when no living
// candidate exists, the tick interval otherwise.
func (s *Skeleton) Step() time.Duration {
	if s.Target() == nil || !s.Target().Alive() {
		living := s.livingCandidates()
		if len(living) == 0 {
			return s.idleWait
		}
		next := living[s.rng.Intn(len(living))]
		s.SetTarget(next)
		s.emit(protocol.EventAINewTarget, next)
	}

	if t := s.Target(); t != nil && t.Alive() && s.State() == StateIdle {
		if s.rng.Intn(2) == 0 {
			_ = s.BeginDefense()
		} else {
			_ = s.BeginAttack()
		}
	}
	return s.tick
}

func (s *Skeleton) livingCandidates() []*Creature {
	living := make([]*Creature, 0, len(s.pool))
	for _, c := range s.pool {
		if c.Alive() {
			living = append(living, c)
		}
	}
	return living
}
