package message_test

import (
	"bytes"
	"testing"

	"github.com/bitboom/rmi/internal/message"
	"github.com/bitboom/rmi/pkg/rmierr"
)

// memStream is an in-memory Stream for testing Encode/Decode without a real
// socket, mirroring the net.Pipe-style plumbing minimega's tests use.
type memStream struct {
	buf bytes.Buffer
}

func (m *memStream) WriteFull(p []byte) error {
	m.buf.Write(p)
	return nil
}

func (m *memStream) ReadFull(p []byte) error {
	n, err := m.buf.Read(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return rmierr.ErrShortRead
	}
	return nil
}

func TestEncodeDecodeLengthAccounting(t *testing.T) {
	s := &memStream{}

	m := message.New(message.Signal, "request signature")
	if err := m.Pack(100, true, "request argument"); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	payloadLen := m.Archive.Len()

	if err := message.Encode(s, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	wantBytes := message.HeaderSize + payloadLen
	if s.buf.Len() != wantBytes {
		t.Fatalf("encoded %d bytes, want %d", s.buf.Len(), wantBytes)
	}

	decoded, err := message.Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Header.Type != message.Signal {
		t.Errorf("type = %v, want Signal", decoded.Header.Type)
	}
	if decoded.Signature != "request signature" {
		t.Errorf("signature = %q", decoded.Signature)
	}

	var id int
	var flag bool
	var arg string
	if err := decoded.Unpack(&id, &flag, &arg); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if id != 100 || !flag || arg != "request argument" {
		t.Errorf("got (%v, %v, %q)", id, flag, arg)
	}
}

func TestMultiArgumentRequestReply(t *testing.T) {
	s := &memStream{}

	req := message.New(message.Signal, "request signature")
	if err := req.Pack(100, true, "request argument"); err != nil {
		t.Fatalf("pack request: %v", err)
	}
	if err := message.Encode(s, req); err != nil {
		t.Fatalf("encode request: %v", err)
	}

	decodedReq, err := message.Decode(s)
	if err != nil {
		t.Fatalf("decode request: %v", err)
	}

	var a int
	var b bool
	var c string
	if err := decodedReq.Unpack(&a, &b, &c); err != nil {
		t.Fatalf("unpack request: %v", err)
	}
	if a != 100 || b != true || c != "request argument" {
		t.Fatalf("request mismatch: (%v, %v, %q)", a, b, c)
	}

	resp := message.New(message.Reply, "response signature")
	if err := resp.Pack(300, false, "response argument"); err != nil {
		t.Fatalf("pack reply: %v", err)
	}
	if err := message.Encode(s, resp); err != nil {
		t.Fatalf("encode reply: %v", err)
	}

	decodedResp, err := message.Decode(s)
	if err != nil {
		t.Fatalf("decode reply: %v", err)
	}

	var x int
	var y bool
	var z string
	if err := decodedResp.Unpack(&x, &y, &z); err != nil {
		t.Fatalf("unpack reply: %v", err)
	}
	if x != 300 || y != false || z != "response argument" {
		t.Fatalf("reply mismatch: (%v, %v, %q)", x, y, z)
	}
}
