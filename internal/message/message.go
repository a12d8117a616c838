// Package message implements the framed request/reply unit that rides the
// stream transport: a fixed header plus an archive payload, the signature
// packed as the payload's first field. It plays the role minimega's
// internal/meshage/message.go and internal/minitunnel's tunnelMessage play
// for their own protocols, but the wire shape here is a raw binary header
// rather than a gob-encoded struct, to stay wire-compatible with the
// original C++ peer's fixed header layout.
package message

import (
	"fmt"
	"sync/atomic"

	"github.com/bitboom/rmi/pkg/archive"
)

// Type is the message kind carried in the header.
type Type uint32

const (
	Invalid Type = iota
	MethodCall
	Reply
	ErrorType
	Signal
)

func (t Type) String() string {
	switch t {
	case Invalid:
		return "Invalid"
	case MethodCall:
		return "MethodCall"
	case Reply:
		return "Reply"
	case ErrorType:
		return "Error"
	case Signal:
		return "Signal"
	default:
		return fmt.Sprintf("Type(%d)", uint32(t))
	}
}

// Header is the fixed-width prefix of every framed message. Field order and
// width are part of the wire contract: id and type are 4 bytes each,
// native-endian; length is a native size_t (8 bytes on every platform this
// module targets).
type Header struct {
	ID     uint32
	Type   Type
	Length uint64
}

const HeaderSize = 4 + 4 + 8

// sequence is the process-wide monotonically increasing request id
// counter. Ids are informational only on the receive path -- preserved for
// wire compatibility with the source's atomic counter, never used to match
// replies to requests.
var sequence uint32

func nextID() uint32 {
	return atomic.AddUint32(&sequence, 1)
}

// Message is the triple of (header, signature, archive). Signature is
// cached alongside the archive for convenience, but the wire truth is that
// it is the first value packed into Archive.
type Message struct {
	Header    Header
	Signature string
	Archive   *archive.Archive
}

// New builds a message of the given type and signature, with an empty
// argument archive ready for further packing via Pack.
func New(typ Type, signature string) *Message {
	a := archive.New()
	archive.AppendString(a, signature)

	return &Message{
		Header:    Header{Type: typ},
		Signature: signature,
		Archive:   a,
	}
}

// Pack appends args to the message's archive, after the signature that New
// already wrote.
func (m *Message) Pack(args ...any) error {
	return archive.Pack(m.Archive, args...)
}

// Unpack extracts values from the message's archive in order, picking up
// from wherever the cursor sits (typically right after the signature was
// consumed by Decode).
func (m *Message) Unpack(targets ...any) error {
	return archive.Unpack(m.Archive, targets...)
}

// finalize assigns the next sequence id and sets header.length to the
// archive's current size, mirroring Message::enclose's bookkeeping.
func (m *Message) finalize() {
	m.Header.ID = nextID()
	m.Header.Length = uint64(m.Archive.Len())
}
