// Package transport implements a connection-oriented Unix domain stream
// socket: a listener/accept/connect lifecycle plus blocking length-exact
// read and write with EINTR/EAGAIN retry.
//
// minimega's own Unix-socket users (internal/ron, pkg/miniclient,
// cmd/minimega/command_socket.go) reach for net.Listen("unix", ...) and
// net.Dial("unix", ...) and let the runtime netpoller absorb EINTR/EAGAIN
// silently. This layer needs that retry loop, the close-on-exec guarantee,
// and the abstract-namespace path rewrite to be named, testable behavior,
// so it goes one level below net and drives the raw socket with
// golang.org/x/sys/unix instead -- the same dependency rockstar-0000-aistore
// and runZeroInc-conniver already pull in for OS-level socket/netlink work.
package transport

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/bitboom/rmi/pkg/rmierr"
)

// maxPathLen mirrors sizeof(sockaddr_un::sun_path) on Linux.
const maxPathLen = 108

const backlog = 100

// Transport is one connected stream endpoint. It is move-only in spirit:
// copying a Transport and using both copies concurrently to Close is a
// misuse this package does not guard against, matching the source's
// move-only Socket.
type Transport struct {
	fd     int
	closed bool
}

// Listener is a bound, listening stream socket.
type Listener struct {
	fd   int
	path string
}

func sockaddrUnix(path string) (*unix.SockaddrUnix, error) {
	if len(path) == 0 || len(path) >= maxPathLen {
		return nil, fmt.Errorf("%w: path length %d exceeds sockaddr_un capacity", rmierr.ErrBadPath, len(path))
	}

	name := path
	if strings.HasPrefix(path, "@") {
		// Abstract namespace: rewrite the leading '@' to a NUL byte.
		name = "\x00" + path[1:]
	}

	return &unix.SockaddrUnix{Name: name}, nil
}

// Open creates a listener bound to path and begins listening with a backlog
// of at least 100. A leading '@' selects the abstract namespace; otherwise
// any pre-existing file at path is removed before bind.
func Open(path string) (*Listener, error) {
	addr, err := sockaddrUnix(path)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: socket: %v", rmierr.ErrTransport, err)
	}

	if !strings.HasPrefix(path, "@") {
		// Ignore ENOENT: there may be nothing to remove.
		_ = os.Remove(path)
	}

	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: bind %s: %v", rmierr.ErrTransport, path, err)
	}

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: listen %s: %v", rmierr.ErrTransport, path, err)
	}

	return &Listener{fd: fd, path: path}, nil
}

// Fd returns the listening descriptor, for reactor registration.
func (l *Listener) Fd() int { return l.fd }

// Path returns the path the listener was opened on.
func (l *Listener) Path() string { return l.path }

// Accept blocks until a peer connects, returning a new connected endpoint.
func (l *Listener) Accept() (*Transport, error) {
	for {
		fd, _, err := unix.Accept4(l.fd, unix.SOCK_CLOEXEC)
		if err == nil {
			return &Transport{fd: fd}, nil
		}
		if err == unix.EINTR {
			continue
		}
		return nil, fmt.Errorf("%w: accept: %v", rmierr.ErrTransport, err)
	}
}

// Close stops listening and, for non-abstract paths, leaves the bound file
// in place for the caller to remove (mirroring ron's explicit CloseUnix /
// commandSocketRemove split between closing the fd and unlinking the path).
func (l *Listener) Close() error {
	if err := unix.Close(l.fd); err != nil {
		return fmt.Errorf("%w: close listener: %v", rmierr.ErrTransport, err)
	}
	return nil
}

// Connect dials a listener at path, applying the same path rules Open does.
func Connect(path string) (*Transport, error) {
	addr, err := sockaddrUnix(path)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: socket: %v", rmierr.ErrTransport, err)
	}

	for {
		err := unix.Connect(fd, addr)
		if err == nil {
			break
		}
		if err == unix.EINTR {
			continue
		}
		unix.Close(fd)
		return nil, fmt.Errorf("%w: connect %s: %v", rmierr.ErrTransport, path, err)
	}

	return &Transport{fd: fd}, nil
}

// Fd returns the connection's descriptor, for reactor registration.
func (t *Transport) Fd() int { return t.fd }

// Close closes the descriptor iff still owned; a second Close is a no-op,
// preventing a double-close on the underlying fd.
func (t *Transport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	if err := unix.Close(t.fd); err != nil {
		return fmt.Errorf("%w: close: %v", rmierr.ErrTransport, err)
	}
	return nil
}

// ReadFull blocks until exactly len(p) bytes have been read into p,
// retrying on EINTR/EAGAIN. A read of zero bytes before p is full means the
// peer closed mid-frame.
func (t *Transport) ReadFull(p []byte) error {
	var total int
	for total < len(p) {
		n, err := unix.Read(t.fd, p[total:])
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return fmt.Errorf("%w: read: %v", rmierr.ErrTransport, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: got %d of %d bytes", rmierr.ErrPeerClosed, total, len(p))
		}
		total += n
	}
	return nil
}

// WriteFull blocks until exactly len(p) bytes have been written from p,
// retrying on EINTR/EAGAIN.
func (t *Transport) WriteFull(p []byte) error {
	var total int
	for total < len(p) {
		n, err := unix.Write(t.fd, p[total:])
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return fmt.Errorf("%w: write: %v", rmierr.ErrTransport, err)
		}
		total += n
	}
	return nil
}
