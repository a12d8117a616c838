// Package reactor implements a single-threaded readiness-multiplexing event
// loop: a registry of fd -> (on-readable, optional on-error) callbacks, an
// in-band wakeup descriptor, and a run/stop lifecycle. Grounded directly in
// original_source's src/event/mainloop.cpp and src/event/eventfd.hxx,
// translated from epoll_wait/epoll_ctl plus eventfd(2) C calls to their
// golang.org/x/sys/unix equivalents -- the same package minimega's sibling
// examples (rockstar-0000-aistore, runZeroInc-conniver) already depend on
// for OS-level work that plain net/os can't reach.
package reactor

import (
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bitboom/rmi/pkg/rmierr"
	"github.com/bitboom/rmi/pkg/rmilog"
)

const maxEvents = 64

// OnEvent is invoked when fd becomes readable.
type OnEvent func()

// OnError is invoked on HUP/RDHUP in place of OnEvent, if registered.
type OnError func()

type handler struct {
	onEvent OnEvent
	onError OnError
}

// Reactor is one epoll-backed event loop. Exactly one per server, run on a
// single goroutine by convention (the loop itself does not spawn
// goroutines; nothing prevents a caller from calling Run on any goroutine,
// but only one call to Run should be outstanding at a time).
type Reactor struct {
	epfd int

	mu       sync.Mutex
	handlers map[int]handler

	wakeupFd int
	stopped  bool
}

// New creates a reactor backed by a fresh epoll instance and wakeup
// eventfd.
func New() (*Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("%w: epoll_create1: %v", rmierr.ErrTransport, err)
	}

	wakeupFd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("%w: eventfd: %v", rmierr.ErrTransport, err)
	}

	return &Reactor{
		epfd:     epfd,
		handlers: make(map[int]handler),
		wakeupFd: wakeupFd,
	}, nil
}

// Add registers fd with the reactor under the registry mutex and arms
// readable + hang-up notifications on the epoll instance. Duplicate
// registration fails with ErrAlreadyRegistered.
func (r *Reactor) Add(fd int, onEvent OnEvent, onError OnError) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[fd]; ok {
		return fmt.Errorf("%w: fd %d", rmierr.ErrAlreadyRegistered, fd)
	}

	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLHUP | unix.EPOLLRDHUP,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("%w: epoll_ctl add fd %d: %v", rmierr.ErrTransport, fd, err)
	}

	r.handlers[fd] = handler{onEvent: onEvent, onError: onError}
	return nil
}

// Remove unregisters fd; removing an absent fd is a no-op.
func (r *Reactor) Remove(fd int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[fd]; !ok {
		return
	}

	delete(r.handlers, fd)
	unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// Run installs the internal wakeup handler and loops, blocking in
// epoll_wait until at least one event, dispatching each under a brief
// registry-mutex hold to copy out the callback pair (never held during
// callback execution), until Stop is called.
func (r *Reactor) Run() error {
	r.mu.Lock()
	r.stopped = false
	r.mu.Unlock()

	if err := r.Add(r.wakeupFd, r.onWakeup, nil); err != nil {
		return err
	}

	events := make([]unix.EpollEvent, maxEvents)

	for {
		r.mu.Lock()
		stopped := r.stopped
		r.mu.Unlock()
		if stopped {
			return nil
		}

		n, err := unix.EpollWait(r.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("%w: epoll_wait: %v", rmierr.ErrTransport, err)
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			hup := events[i].Events&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0

			r.mu.Lock()
			h, ok := r.handlers[fd]
			r.mu.Unlock()
			if !ok {
				continue
			}

			r.dispatch(fd, h, hup)
		}
	}
}

func (r *Reactor) dispatch(fd int, h handler, hup bool) {
	defer func() {
		if rec := recover(); rec != nil {
			rmilog.Error("reactor: callback for fd %d panicked: %v", fd, rec)
		}
	}()

	if hup {
		if h.onError != nil {
			h.onError()
		}
		return
	}

	h.onEvent()
}

func (r *Reactor) onWakeup() {
	var buf [8]byte
	unix.Read(r.wakeupFd, buf[:])

	r.Remove(r.wakeupFd)

	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

// Stop signals the wakeup eventfd; safe to call from any goroutine.
func (r *Reactor) Stop() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	unix.Write(r.wakeupFd, buf[:])
}

// Close releases the epoll instance and the wakeup eventfd.
func (r *Reactor) Close() error {
	unix.Close(r.wakeupFd)
	return unix.Close(r.epfd)
}
