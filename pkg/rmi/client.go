package rmi

import (
	"fmt"
	"sync"

	"github.com/bitboom/rmi/internal/connection"
	"github.com/bitboom/rmi/internal/message"
	"github.com/bitboom/rmi/internal/transport"
	"github.com/bitboom/rmi/pkg/rmierr"
)

// Client dials one Server and performs typed method calls against it. A
// Client serializes whole request/reply round-trips with its own lock,
// since the wire protocol does not multiplex replies by request id --
// mirroring pkg/miniclient.Conn's single enc/dec lock around one net.Conn.
type Client struct {
	conn *connection.Connection

	mu sync.Mutex
}

// Dial connects to a Server listening at path.
func Dial(path string) (*Client, error) {
	t, err := transport.Connect(path)
	if err != nil {
		return nil, err
	}

	return &Client{conn: connection.New(t)}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call invokes the remote method named signature with args, decodes the
// single typed reply into result, and reports any remote-side error as a Go
// error. result must be a pointer, or nil if the method returns nothing the
// caller cares about.
func (c *Client) Call(signature string, args []any, result any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := message.New(message.MethodCall, signature)
	if err := req.Pack(args...); err != nil {
		return fmt.Errorf("rmi: pack request %q: %w", signature, err)
	}

	reply, err := c.conn.Request(req)
	if err != nil {
		return fmt.Errorf("rmi: request %q: %w", signature, err)
	}

	switch reply.Header.Type {
	case message.ErrorType:
		var reason string
		if err := reply.Unpack(&reason); err != nil {
			return fmt.Errorf("%w: %q: malformed error reply: %v", rmierr.ErrTransport, signature, err)
		}
		return fmt.Errorf("rmi: remote error from %q: %s", signature, reason)
	case message.Reply:
		if result == nil {
			return nil
		}
		return reply.Unpack(result)
	default:
		return fmt.Errorf("%w: %q: unexpected reply type %v", rmierr.ErrTransport, signature, reply.Header.Type)
	}
}

// Invoke is a generic convenience wrapper over Call for methods with a
// single typed return value.
func Invoke[R any](c *Client, signature string, args ...any) (R, error) {
	var result R
	err := c.Call(signature, args, &result)
	return result, err
}
