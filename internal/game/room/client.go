package room

import (
	"errors"
	"sync"

	"github.com/colsen/skelarena/internal/game/creature"
)

// Send queue errors.
var (
	// ErrClientGone reports a send to a client whose session has ended.
	ErrClientGone = errors.New("client session closed")
	// ErrSendQueueFull reports a dropped line for a slow client. Room state
	// never blocks on delivery; the line is lost.
	ErrSendQueueFull = errors.New("client send queue full")
)

// defaultQueueSize bounds the per-client outbound queue.
const defaultQueueSize = 64

// Client is a registered connection. It occupies exactly one room at a time
// and carries a Player only while inside a combat room. Outbound lines are
// queued here and drained by the session's writer goroutine, so room-issued
// sends preserve program order per client without blocking room state.
type Client struct {
	id       string
	username string
	key      string

	out       chan string
	done      chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	room   *Room
	player *creature.Player
}

// NewClient creates a registered client.
//
// Precondition: username must be non-empty; key must identify the underlying
// connection (removal matches on it, not on object identity, to tolerate
// reconnection edge cases).
func NewClient(username, key string) *Client {
	return &Client{
		id:       creature.ShortID(),
		username: username,
		key:      key,
		out:      make(chan string, defaultQueueSize),
		done:     make(chan struct{}),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// Username returns the chosen display name.
func (c *Client) Username() string { return c.username }

// ChatName implements Speaker.
func (c *Client) ChatName() string { return c.username }

// Key returns the connection identity used for membership matching.
func (c *Client) Key() string { return c.key }

// Room returns the room the client currently occupies, or nil.
func (c *Client) Room() *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *Client) setRoom(r *Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = r
}

// Player returns the combat player bound to this client, or nil outside
// combat rooms.
func (c *Client) Player() *creature.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// SetPlayer binds or clears the client's combat player.
func (c *Client) SetPlayer(p *creature.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = p
}

// Send queues a wire line for delivery. Never blocks: a full queue drops the
// line and reports ErrSendQueueFull.
func (c *Client) Send(line string) error {
	select {
	case <-c.done:
		return ErrClientGone
	default:
	}
	select {
	case c.out <- line:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Outbound exposes the send queue to the session's writer goroutine.
func (c *Client) Outbound() <-chan string { return c.out }

// Done is closed when the client's session ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close ends the client's session. Safe to call multiple times.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
