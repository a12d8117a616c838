package message

import (
	"encoding/binary"
	"fmt"

	"github.com/bitboom/rmi/pkg/archive"
)

// Stream is the minimal length-exact transport a Message needs to encode
// onto or decode from. internal/transport.Transport satisfies this.
type Stream interface {
	WriteFull(p []byte) error
	ReadFull(p []byte) error
}

var native = binary.NativeEndian

// Encode writes the message to t: assigns the next sequence id, sets
// header.length from the archive's current size, writes the fixed header,
// then exactly header.length bytes of archive payload.
func Encode(t Stream, m *Message) error {
	m.finalize()

	var hdr [HeaderSize]byte
	native.PutUint32(hdr[0:4], m.Header.ID)
	native.PutUint32(hdr[4:8], uint32(m.Header.Type))
	native.PutUint64(hdr[8:16], m.Header.Length)

	if err := t.WriteFull(hdr[:]); err != nil {
		return fmt.Errorf("message: write header: %w", err)
	}

	if err := t.WriteFull(m.Archive.Bytes()); err != nil {
		return fmt.Errorf("message: write payload: %w", err)
	}

	return nil
}

// Decode reads one message from t: a header's worth of bytes, then exactly
// header.length bytes of archive payload, then unpacks the first field as
// the signature.
func Decode(t Stream) (*Message, error) {
	var hdr [HeaderSize]byte
	if err := t.ReadFull(hdr[:]); err != nil {
		return nil, fmt.Errorf("message: read header: %w", err)
	}

	m := &Message{
		Header: Header{
			ID:     native.Uint32(hdr[0:4]),
			Type:   Type(native.Uint32(hdr[4:8])),
			Length: native.Uint64(hdr[8:16]),
		},
	}

	payload := make([]byte, m.Header.Length)
	if err := t.ReadFull(payload); err != nil {
		return nil, fmt.Errorf("message: read payload: %w", err)
	}
	m.Archive = archive.FromBytes(payload)

	sig, err := archive.ExtractString(m.Archive)
	if err != nil {
		return nil, fmt.Errorf("message: decode signature: %w", err)
	}
	m.Signature = sig

	return m, nil
}
