// Package rmi exposes the Client and Server facades applications use
// directly: Server binds a listening path and a method registry together
// and drives a reactor loop; Client dials a path and performs typed
// round-trip calls against it.
package rmi

import (
	"sync"

	"github.com/bitboom/rmi/internal/connection"
	"github.com/bitboom/rmi/internal/functor"
	"github.com/bitboom/rmi/internal/message"
	"github.com/bitboom/rmi/internal/reactor"
	"github.com/bitboom/rmi/internal/rmimetrics"
	"github.com/bitboom/rmi/internal/transport"
	"github.com/bitboom/rmi/pkg/archive"
	"github.com/bitboom/rmi/pkg/rmilog"
)

// Server binds a unix socket path, a method registry, and a reactor loop.
// One Server serves one path; Listen and Start must be called in that
// order, Start typically on its own goroutine since it blocks until Stop.
type Server struct {
	registry *functor.Registry
	reactor  *reactor.Reactor

	mu       sync.Mutex
	listener *transport.Listener
	conns    map[int]*connection.Connection
}

// NewServer creates a Server with an empty method registry and a fresh
// reactor. Call Expose to register methods, then Listen and Start.
func NewServer() (*Server, error) {
	r, err := reactor.New()
	if err != nil {
		return nil, err
	}

	return &Server{
		registry: functor.NewRegistry(),
		reactor:  r,
		conns:    make(map[int]*connection.Connection),
	}, nil
}

// Expose registers f under name, replacing any existing binding for name.
func (s *Server) Expose(name string, f functor.AbstractFunctor) {
	s.registry.Expose(name, f)
	rmimetrics.RegistrySize.Set(float64(s.registry.Len()))
}

// Listen opens path and registers its listening descriptor with the
// reactor. A leading '@' in path selects the abstract socket namespace.
func (s *Server) Listen(path string) error {
	ln, err := transport.Open(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	if err := s.reactor.Add(ln.Fd(), s.onAccept, nil); err != nil {
		ln.Close()
		return err
	}

	rmilog.Info("rmi: listening on %v", path)
	return nil
}

// Start runs the reactor loop, blocking until Stop is called or the loop
// returns an error. Callers that need Listen to continue accepting while
// doing other work should run Start on its own goroutine.
func (s *Server) Start() error {
	return s.reactor.Run()
}

// Stop closes every open connection, closes the listener, and signals the
// reactor loop to return from Start. Safe to call from any goroutine.
func (s *Server) Stop() {
	s.mu.Lock()
	conns := make([]*connection.Connection, 0, len(s.conns))
	for fd, c := range s.conns {
		conns = append(conns, c)
		s.reactor.Remove(fd)
		delete(s.conns, fd)
	}
	ln := s.listener
	s.listener = nil
	s.mu.Unlock()

	for _, c := range conns {
		rmimetrics.ConnectionsActive.Dec()
		c.Close()
	}

	if ln != nil {
		s.reactor.Remove(ln.Fd())
		ln.Close()
	}

	s.reactor.Stop()
}

// Close releases the reactor's epoll and eventfd descriptors. Call after
// Start has returned.
func (s *Server) Close() error {
	return s.reactor.Close()
}

func (s *Server) onAccept() {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return
	}

	t, err := ln.Accept()
	if err != nil {
		rmilog.Error("rmi: accept: %v", err)
		return
	}

	c := connection.New(t)
	rmilog.Debug("rmi: accepted connection %s (fd %d)", c.Tag(), c.Fd())

	s.mu.Lock()
	s.conns[c.Fd()] = c
	s.mu.Unlock()

	rmimetrics.ConnectionsAccepted.Inc()
	rmimetrics.ConnectionsActive.Inc()

	onEvent := func() { s.onReadable(c) }
	onError := func() { s.dropConnection(c) }

	if err := s.reactor.Add(c.Fd(), onEvent, onError); err != nil {
		rmilog.Error("rmi: register connection %s: %v", c.Tag(), err)
		s.dropConnection(c)
	}
}

func (s *Server) onReadable(c *connection.Connection) {
	req, err := c.Recv()
	if err != nil {
		s.dropConnection(c)
		return
	}

	reply := s.dispatch(req)
	if err := c.Send(reply); err != nil {
		rmilog.Error("rmi: connection %s: send reply for %q: %v", c.Tag(), req.Signature, err)
		s.dropConnection(c)
	}
}

func (s *Server) dispatch(req *message.Message) *message.Message {
	rmimetrics.CallsDispatched.WithLabelValues(req.Signature).Inc()

	f, err := s.registry.Lookup(req.Signature)
	if err != nil {
		rmimetrics.CallsFailed.WithLabelValues(req.Signature).Inc()
		return errorReply(req.Signature, err)
	}

	out, err := f.Invoke(req.Archive)
	if err != nil {
		rmimetrics.CallsFailed.WithLabelValues(req.Signature).Inc()
		return errorReply(req.Signature, err)
	}

	reply := message.New(message.Reply, req.Signature)
	archive.AppendArchive(reply.Archive, out)
	return reply
}

func errorReply(signature string, cause error) *message.Message {
	reply := message.New(message.ErrorType, signature)
	if err := reply.Pack(cause.Error()); err != nil {
		rmilog.Error("rmi: pack error reply for %q: %v", signature, err)
	}
	return reply
}

func (s *Server) dropConnection(c *connection.Connection) {
	s.mu.Lock()
	_, tracked := s.conns[c.Fd()]
	delete(s.conns, c.Fd())
	s.mu.Unlock()

	if tracked {
		rmimetrics.ConnectionsActive.Dec()
		rmilog.Debug("rmi: dropping connection %s (fd %d)", c.Tag(), c.Fd())
	}

	s.reactor.Remove(c.Fd())
	c.Close()
}
