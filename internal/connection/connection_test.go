package connection_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/bitboom/rmi/internal/connection"
	"github.com/bitboom/rmi/internal/message"
	"github.com/bitboom/rmi/internal/transport"
)

func dialedPair(t *testing.T) (*connection.Connection, *connection.Connection) {
	t.Helper()

	path := fmt.Sprintf("@rmi-connection-test-%d", time.Now().UnixNano()%1e9)

	ln, err := transport.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	accepted := make(chan *transport.Transport, 1)
	go func() {
		srv, err := ln.Accept()
		if err == nil {
			accepted <- srv
		}
	}()

	clientT, err := transport.Connect(path)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	var serverT *transport.Transport
	select {
	case serverT = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("accept did not complete")
	}

	client := connection.New(clientT)
	server := connection.New(serverT)
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})

	return client, server
}

func TestRequestReplyRoundTrip(t *testing.T) {
	client, server := dialedPair(t)

	done := make(chan error, 1)
	go func() {
		req, err := server.Recv()
		if err != nil {
			done <- err
			return
		}
		reply := message.New(message.Reply, req.Signature)
		if err := reply.Pack("pong"); err != nil {
			done <- err
			return
		}
		done <- server.Send(reply)
	}()

	req := message.New(message.MethodCall, "Echo::ping")
	reply, err := client.Request(req)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("server side: %v", err)
	}

	var got string
	if err := reply.Unpack(&got); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got != "pong" {
		t.Errorf("reply = %q, want %q", got, "pong")
	}
}

func TestTagsAreDistinct(t *testing.T) {
	client, server := dialedPair(t)

	if client.Tag() == server.Tag() {
		t.Errorf("expected distinct connection tags, both were %q", client.Tag())
	}
}
