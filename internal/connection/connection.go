// Package connection wraps one transport endpoint with independent
// send/recv locking: SOCK_STREAM is full-duplex, so a simultaneous send and
// receive from distinct goroutines is legal and must not block on each
// other. Grounded in the original source's transport/connection.cpp
// (separate transmitMutex/receiveMutex) and in minimega's own send-lock
// idiom -- internal/minitunnel's Tunnel.sendLock and pkg/miniclient.Conn.lock
// both serialize encodes onto a shared net.Conn the same way.
package connection

import (
	"sync"

	"github.com/rs/xid"

	"github.com/bitboom/rmi/internal/message"
	"github.com/bitboom/rmi/internal/transport"
)

// Connection owns one transport endpoint and serializes sends and receives
// independently.
type Connection struct {
	t   *transport.Transport
	tag xid.ID

	sendMu sync.Mutex
	recvMu sync.Mutex
}

// New wraps an already-connected transport. tag is a process-local,
// globally-unique identifier used only to correlate log lines for this
// connection across accept, dispatch, and close -- it never goes on the
// wire and plays no part in matching requests to replies.
func New(t *transport.Transport) *Connection {
	return &Connection{t: t, tag: xid.New()}
}

// Fd returns the underlying descriptor, for reactor registration.
func (c *Connection) Fd() int { return c.t.Fd() }

// Tag returns the connection's debug-log correlation id.
func (c *Connection) Tag() string { return c.tag.String() }

// Close closes the underlying transport; safe to call more than once.
func (c *Connection) Close() error {
	return c.t.Close()
}

// Send encodes m onto the transport under the send mutex.
func (c *Connection) Send(m *message.Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	return message.Encode(c.t, m)
}

// Recv decodes one message from the transport under the recv mutex.
func (c *Connection) Recv() (*message.Message, error) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	return message.Decode(c.t)
}

// Request sends m then receives the reply, without holding both mutexes at
// once. This is client-side: Request alone does not guarantee that a
// concurrent Request on the same Connection won't interleave its own
// send/recv with this one -- callers (the Client facade) must serialize
// whole round-trips with their own outer lock, since the protocol does not
// multiplex replies by id.
func (c *Connection) Request(m *message.Message) (*message.Message, error) {
	if err := c.Send(m); err != nil {
		return nil, err
	}
	return c.Recv()
}
