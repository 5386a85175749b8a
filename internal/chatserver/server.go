// Package chatserver owns the server-side session protocol: username
// registration, the room directory, and the read/write pumps binding a
// transport connection to a room client.
package chatserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/colsen/skelarena/internal/game/creature"
	"github.com/colsen/skelarena/internal/game/protocol"
	"github.com/colsen/skelarena/internal/game/room"
)

// Conn is the transport-level connection the server speaks over. Implemented
// by the websocket transport; tests substitute in-memory pipes.
type Conn interface {
	// ReadText blocks until the next inbound text line or a connection error.
	ReadText() (string, error)
	// WriteText sends one outbound text line.
	WriteText(string) error
	// Key identifies the underlying connection for membership matching.
	Key() string
}

// Options tunes the game rooms the server creates.
type Options struct {
	// Tick is the skeleton decision interval; IdleWait its interval with no
	// living target.
	Tick     time.Duration
	IdleWait time.Duration
	// CombatCapacity bounds skeleton-fight membership.
	CombatCapacity int
	// Rand drives skeleton decisions and room name draws. Nil means math/rand.
	Rand creature.Source
}

// Server is the room directory plus the session protocol. One Server instance
// backs all connections; every session lands in its lobby after registration.
type Server struct {
	id       string
	logger   *zap.Logger
	opts     Options
	skeleton *creature.Template
	player   *creature.Template

	lobby *room.Room

	mu      sync.Mutex
	rooms   map[string]*room.Room
	clients map[string]*room.Client
	rng     creature.Source
}

// New builds a server around the given creature templates.
//
// Precondition: templates must contain validated skeleton and player entries;
// opts durations and capacity must be > 0.
func New(templates map[string]*creature.Template, opts Options, logger *zap.Logger) (*Server, error) {
	skeleton, ok := templates[creature.TemplateSkeleton]
	if !ok {
		return nil, fmt.Errorf("missing creature template %q", creature.TemplateSkeleton)
	}
	player, ok := templates[creature.TemplatePlayer]
	if !ok {
		return nil, fmt.Errorf("missing creature template %q", creature.TemplatePlayer)
	}
	rng := opts.Rand
	if rng == nil {
		rng = creature.NewMathSource()
	}
	s := &Server{
		id:       creature.ShortID(),
		logger:   logger,
		opts:     opts,
		skeleton: skeleton,
		player:   player,
		rooms:    make(map[string]*room.Room),
		clients:  make(map[string]*room.Client),
		rng:      rng,
	}
	s.lobby = room.NewLobbyRoom(s, s.newChatRoom, s.newCombatRoom, logger)
	return s, nil
}

func (s *Server) newChatRoom(name string) *room.Room {
	return room.NewChatRoom(name, s, s.logger)
}

func (s *Server) newCombatRoom(name string) *room.Room {
	return room.NewCombatRoom(name, s, room.CombatOptions{
		SkeletonTemplate: s.skeleton,
		PlayerTemplate:   s.player,
		Capacity:         s.opts.CombatCapacity,
		Tick:             s.opts.Tick,
		IdleWait:         s.opts.IdleWait,
		Rand:             s.opts.Rand,
	}, s.logger)
}

// Lobby implements room.Directory.
func (s *Server) Lobby() *room.Room { return s.lobby }

// FindRoom implements room.Directory.
func (s *Server) FindRoom(name string) (*room.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[name]
	return r, ok
}

// AddRoom implements room.Directory. The taken-name check is atomic with the
// insertion so two sessions racing to create the same name cannot both win;
// the loser's room is never published.
func (s *Server) AddRoom(r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.Name()]; ok {
		return fmt.Errorf("room name %q already in use", r.Name())
	}
	s.rooms[r.Name()] = r
	return nil
}

// RemoveRoom implements room.Directory. Removal is by identity, so tearing
// down an unpublished room that lost a name race never evicts the room that
// holds the name.
func (s *Server) RemoveRoom(r *room.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.rooms[r.Name()]; ok && current == r {
		delete(s.rooms, r.Name())
	}
}

// RoomNameInUse implements room.Directory.
func (s *Server) RoomNameInUse(name string) bool {
	_, ok := s.FindRoom(name)
	return ok
}

// ReserveName implements room.Directory: a random name from the skeleton
// name pool not currently in use by an active room. Destroyed rooms free
// their names implicitly.
func (s *Server) ReserveName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	free := make([]string, 0, len(s.skeleton.NamePool))
	for _, name := range s.skeleton.NamePool {
		if _, ok := s.rooms[name]; !ok {
			free = append(free, name)
		}
	}
	if len(free) == 0 {
		return "", errors.New("room name pool exhausted")
	}
	return free[s.rng.Intn(len(free))], nil
}

// HandleSession runs one connection's full lifetime: registration, the writer
// pump, lobby entry, and the read loop. Returns when the connection drops,
// registration fails, or ctx is cancelled.
func (s *Server) HandleSession(ctx context.Context, conn Conn) {
	client, err := s.register(conn)
	if err != nil {
		s.logger.Debug("session ended before registration",
			zap.String("conn", conn.Key()),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("client registered",
		zap.String("client", client.ID()),
		zap.String("username", client.Username()),
	)
	defer s.release(client)

	go s.writePump(ctx, client, conn)

	if err := s.lobby.RegisterClient(client); err != nil {
		s.logger.Warn("lobby registration failed",
			zap.String("client", client.ID()),
			zap.Error(err),
		)
		return
	}

	for {
		line, err := conn.ReadText()
		if err != nil {
			s.logger.Debug("read loop ended",
				zap.String("client", client.ID()),
				zap.Error(err),
			)
			return
		}
		if r := client.Room(); r != nil {
			r.HandleMessage(client, line)
		}
	}
}

// register runs the username prompt loop until a valid, unclaimed name
// arrives, then creates and indexes the client.
func (s *Server) register(conn Conn) (*room.Client, error) {
	for {
		if err := s.sendSystem(conn, protocol.EventUsernamePrompt); err != nil {
			return nil, err
		}
		line, err := conn.ReadText()
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(line)

		if reason := validateUsername(name); reason != "" {
			if err := s.sendSystem(conn, protocol.EventUsernameInvalid, reason); err != nil {
				return nil, err
			}
			continue
		}

		s.mu.Lock()
		if _, taken := s.clients[name]; taken {
			s.mu.Unlock()
			if err := s.sendSystem(conn, protocol.EventUsernameInvalid,
				fmt.Sprintf("Username %s is taken.", name)); err != nil {
				return nil, err
			}
			continue
		}
		client := room.NewClient(name, conn.Key())
		s.clients[name] = client
		s.mu.Unlock()

		if err := s.sendSystem(conn, protocol.EventRegistered, client.ID(), name); err != nil {
			s.dropClient(client)
			return nil, err
		}
		return client, nil
	}
}

// validateUsername returns a human-readable rejection reason, or "" when the
// name is acceptable. Names must survive the pipe-delimited wire format and
// the "name: text" chat form unambiguously.
func validateUsername(name string) string {
	if name == "" {
		return "Username must not be empty."
	}
	if strings.Contains(name, protocol.Delim) || strings.Contains(name, ":") {
		return "Username must not contain '|' or ':'."
	}
	return ""
}

func (s *Server) sendSystem(conn Conn, typ protocol.EventType, args ...any) error {
	msg := protocol.NewSystemMessage(s.id, typ, args...)
	if err := msg.Validate(); err != nil {
		return err
	}
	return conn.WriteText(msg.Encode())
}

// writePump drains the client's outbound queue onto the connection. A write
// failure closes the client so the room side stops queueing.
func (s *Server) writePump(ctx context.Context, client *room.Client, conn Conn) {
	for {
		select {
		case line := <-client.Outbound():
			if err := conn.WriteText(line); err != nil {
				client.Close()
				return
			}
		case <-client.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}

// release tears a session down: the client leaves its room (destroying it
// when it was the last fighter), the username frees up, and the send queue
// closes.
func (s *Server) release(client *room.Client) {
	if r := client.Room(); r != nil {
		r.RemoveClient(client)
	}
	s.dropClient(client)
	client.Close()
	s.logger.Info("client disconnected",
		zap.String("client", client.ID()),
		zap.String("username", client.Username()),
	)
}

func (s *Server) dropClient(client *room.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.clients[client.Username()]; ok && current == client {
		delete(s.clients, client.Username())
	}
}

// RoomCount returns the number of active sub-rooms.
func (s *Server) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
