package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn wraps a websocket connection with text-frame line semantics. Reads are
// single-goroutine (the session loop); writes are serialized by a mutex so the
// registration path and the writer pump never interleave frames.
type Conn struct {
	raw *websocket.Conn
	mu  sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps an upgraded websocket connection.
//
// Precondition: raw must be a valid, open websocket connection.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw *websocket.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ReadText blocks until the next inbound text frame.
//
// Postcondition: Returns the frame payload as a string, or an error when the
// connection closed or a non-text frame arrived.
func (c *Conn) ReadText() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	msgType, payload, err := c.raw.ReadMessage()
	if err != nil {
		return "", err
	}
	if msgType != websocket.TextMessage {
		return "", fmt.Errorf("unexpected websocket frame type %d", msgType)
	}
	return string(payload), nil
}

// WriteText sends one text frame.
//
// Postcondition: The line is written as a single text frame.
func (c *Conn) WriteText(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.raw.WriteMessage(websocket.TextMessage, []byte(line))
}

// Key returns the remote address as the connection identity.
func (c *Conn) Key() string {
	return c.raw.RemoteAddr().String()
}

// Close closes the underlying websocket connection.
//
// Postcondition: The connection is closed and no longer usable.
func (c *Conn) Close() error {
	return c.raw.Close()
}
