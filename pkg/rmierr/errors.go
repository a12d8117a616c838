// Package rmierr collects the sentinel error kinds shared across the
// runtime as a taxonomy. The transport, message, reactor, functor and
// archive layers wrap one of these with fmt.Errorf("...: %w", ...) so
// callers can test with errors.Is. Two kinds of error wrap none of them:
// the archive's errors for a value or target of a type it cannot encode,
// and the error Client.Call returns for an error reply from the server,
// which carries the server-side error only as text.
package rmierr

import "errors"

var (
	// ErrBadPath: transport path too long or malformed.
	ErrBadPath = errors.New("rmi: bad path")
	// ErrTransport: underlying socket call failed unrecoverably.
	ErrTransport = errors.New("rmi: transport error")
	// ErrPeerClosed: remote end closed mid-frame.
	ErrPeerClosed = errors.New("rmi: peer closed")
	// ErrShortRead: archive exhausted during unpack.
	ErrShortRead = errors.New("rmi: short read")
	// ErrAlreadyRegistered: reactor saw duplicate fd registration.
	ErrAlreadyRegistered = errors.New("rmi: already registered")
	// ErrUnknownMethod: server registry has no entry for signature.
	ErrUnknownMethod = errors.New("rmi: unknown method")
	// ErrBadBinding: attempt to bind a functor to a null instance.
	ErrBadBinding = errors.New("rmi: bad binding")
	// ErrInvalidArgument: public API preconditions violated.
	ErrInvalidArgument = errors.New("rmi: invalid argument")
)
