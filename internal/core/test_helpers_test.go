package core

import (
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

// fakeConn records every envelope it is sent.
type fakeConn struct {
	id     string
	mu     sync.Mutex
	closed bool
	sent   []proto.Outbound
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *fakeConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	var out proto.Outbound
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	c.sent = append(c.sent, out)
	return nil
}

func (c *fakeConn) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// drain returns and forgets everything sent so far.
func (c *fakeConn) drain() []proto.Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.sent
	c.sent = nil
	return out
}

// sequentialIDs yields room-1, room-2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return IDGeneratorFunc(func() string {
		n++
		return "room-" + strconv.Itoa(n)
	})
}

var testEpoch = time.UnixMilli(1700000000000)

// newTestHub returns a hub with deterministic ids and a fixed clock.
func newTestHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(sequentialIDs(), nil, nil)
	clock := func() time.Time { return testEpoch }
	hub.now = clock
	hub.membership.now = clock
	hub.rooms.now = clock
	return hub
}

func send(t *testing.T, hub *Hub, conn Conn, in proto.Inbound) {
	t.Helper()

	payload, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal inbound: %v", err)
	}
	hub.HandleMessage(conn, payload)
}

func mustSingle(t *testing.T, conn *fakeConn, typ string) proto.Outbound {
	t.Helper()

	got := conn.drain()
	if len(got) != 1 {
		t.Fatalf("%s: expected exactly one %s envelope, got %+v", conn.id, typ, got)
	}
	if got[0].Type != typ {
		t.Fatalf("%s: expected %s, got %+v", conn.id, typ, got[0])
	}
	return got[0]
}

func mustNothing(t *testing.T, conn *fakeConn) {
	t.Helper()

	if got := conn.drain(); len(got) != 0 {
		t.Fatalf("%s: expected no envelopes, got %+v", conn.id, got)
	}
}

// assertConsistent checks that the registry and room member sets agree and
// that no empty room is stored.
func assertConsistent(t *testing.T, hub *Hub, conns ...*fakeConn) {
	t.Helper()

	for id, room := range hub.rooms.rooms {
		if room.Len() == 0 {
			t.Fatalf("empty room %s left in store", id)
		}
		for connID := range room.members {
			if got := hub.registry.rooms[connID]; got != id {
				t.Fatalf("member %s of %s registered in %q", connID, id, got)
			}
		}
	}
	for _, c := range conns {
		roomID, ok := hub.registry.Room(c)
		if !ok {
			continue
		}
		room, exists := hub.rooms.Get(roomID)
		if !exists {
			t.Fatalf("%s registered in missing room %s", c.id, roomID)
		}
		if _, member := room.Member(c); !member {
			t.Fatalf("%s registered in %s but not a member", c.id, roomID)
		}
	}
}
