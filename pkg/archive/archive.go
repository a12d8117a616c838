// Package archive implements the self-describing byte buffer that carries
// typed argument tuples across the wire: a growable buffer with a read
// cursor, in the style minimega's internal/vnc package uses encoding/binary
// to frame fixed-width protocol fields, generalized here to an
// append/extract pair that every RMI message payload is built from.
package archive

import (
	"encoding/binary"
	"fmt"

	"github.com/bitboom/rmi/internal/rmimetrics"
	"github.com/bitboom/rmi/pkg/rmierr"
)

// ErrShortRead is returned when extract is asked for more bytes than remain
// unread in the archive. It is an alias of rmierr.ErrShortRead so callers
// can use errors.Is against either name.
var ErrShortRead = rmierr.ErrShortRead

// Archive is a growable byte buffer with a read cursor. Bytes [0, cursor)
// have been consumed by a prior extract; bytes [cursor, len(buf)) remain.
// Writes always append to the end; reads always advance the cursor. The
// zero value is a valid, empty Archive.
type Archive struct {
	buf    []byte
	cursor int
}

// New returns an empty archive ready for packing.
func New() *Archive {
	return &Archive{}
}

// FromBytes wraps an existing byte slice as an archive ready for unpacking.
// The slice is not copied; callers must not mutate it afterwards.
func FromBytes(b []byte) *Archive {
	return &Archive{buf: b}
}

// Bytes returns the full underlying buffer, including any already-consumed
// prefix. Used when handing the archive to a transport for writing.
func (a *Archive) Bytes() []byte {
	return a.buf
}

// Len returns the number of bytes written so far (consumed or not).
func (a *Archive) Len() int {
	return len(a.buf)
}

// Remaining returns the number of unread bytes.
func (a *Archive) Remaining() int {
	return len(a.buf) - a.cursor
}

// Clone returns an independent copy positioned at the same cursor.
func (a *Archive) Clone() *Archive {
	b := make([]byte, len(a.buf))
	copy(b, a.buf)
	return &Archive{buf: b, cursor: a.cursor}
}

func (a *Archive) save(p []byte) {
	a.buf = append(a.buf, p...)
}

func (a *Archive) load(n int) ([]byte, error) {
	if a.Remaining() < n {
		rmimetrics.ArchiveShortReads.Inc()
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrShortRead, n, a.Remaining())
	}
	p := a.buf[a.cursor : a.cursor+n]
	a.cursor += n
	return p, nil
}

// AppendPrimitive encodes a fixed-width primitive (integers, floats, bool,
// rune) host-endian; peers are expected to agree on representation out of
// band. T is constrained by Primitive.
func AppendPrimitive[T Primitive](a *Archive, v T) {
	var buf [8]byte
	n := sizeOf(v)
	putPrimitive(buf[:n], v)
	a.save(buf[:n])
}

// ExtractPrimitive decodes a fixed-width primitive written by
// AppendPrimitive, advancing the cursor by exactly its width.
func ExtractPrimitive[T Primitive](a *Archive) (T, error) {
	var zero T
	n := sizeOf(zero)
	p, err := a.load(n)
	if err != nil {
		return zero, err
	}
	return getPrimitive[T](p), nil
}

// AppendString writes a size_t-width length prefix (native uint64) followed
// by the raw bytes of s.
func AppendString(a *Archive, s string) {
	AppendPrimitive(a, uint64(len(s)))
	a.save([]byte(s))
}

// ExtractString reads a length-prefixed string written by AppendString.
func ExtractString(a *Archive) (string, error) {
	n, err := ExtractPrimitive[uint64](a)
	if err != nil {
		return "", err
	}
	p, err := a.load(int(n))
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// AppendArchive appends the unread remainder of other into a, mirroring the
// original append_archive/operator<<(Archive&) behavior: the *unconsumed*
// tail of other is drained into a, leaving other's cursor at its own end.
func AppendArchive(a *Archive, other *Archive) {
	a.save(other.buf[other.cursor:])
	other.cursor = len(other.buf)
}

// native is the byte order used for all fixed-width fields: the deployment
// assumption is that sender and receiver share representation, so this uses
// the platform's native order rather than imposing wire-endianness
// negotiation neither side asked for.
var native = binary.NativeEndian
