package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

// JoinResult carries what a client needs to confirm a create or join.
type JoinResult struct {
	RoomID   string
	Username string
	JoinedAt time.Time
}

// Membership moves connections between rooms. A connection belongs to at
// most one room: create and join always pass through removeFromRoom first.
// It is not safe for concurrent use; the Hub serializes access.
type Membership struct {
	registry *Registry
	rooms    *RoomStore
	router   *Router
	ids      IDGenerator
	metrics  Metrics
	log      *zerolog.Logger
	now      func() time.Time
}

// NewMembership wires a membership manager over shared state.
func NewMembership(registry *Registry, rooms *RoomStore, router *Router, ids IDGenerator, metrics Metrics, logger *zerolog.Logger) *Membership {
	return &Membership{
		registry: registry,
		rooms:    rooms,
		router:   router,
		ids:      ids,
		metrics:  metrics,
		log:      logger,
		now:      time.Now,
	}
}

// CreateRoom places conn alone in a freshly generated room.
func (m *Membership) CreateRoom(conn Conn, username string) (JoinResult, *CoreError) {
	m.switchOut(conn)

	info := MemberInfo{Username: m.username(username), JoinedAt: m.now()}
	roomID := m.ids.NewID()
	if _, err := m.rooms.Create(roomID, conn, info); err != nil {
		if errors.Is(err, ErrRoomExists) {
			m.log.Error().Err(err).Str("room_id", roomID).Msg("room id collision")
		}
		return JoinResult{}, errCreateFailed
	}
	m.registry.SetRoom(conn, roomID)
	m.metrics.RoomCreated()

	m.log.Debug().Str("conn_id", conn.ID()).Str("room_id", roomID).Msg("room created")
	return JoinResult{RoomID: roomID, Username: info.Username, JoinedAt: info.JoinedAt}, nil
}

// JoinRoom moves conn into an existing room and announces it to the others.
// Validation happens before conn leaves its current room.
func (m *Membership) JoinRoom(conn Conn, roomID, username string) (JoinResult, *CoreError) {
	if roomID == "" {
		return JoinResult{}, errRoomIDRequired
	}
	room, ok := m.rooms.Get(roomID)
	if !ok {
		return JoinResult{}, errRoomNotFound
	}
	if info, ok := room.Member(conn); ok {
		return JoinResult{RoomID: roomID, Username: info.Username, JoinedAt: info.JoinedAt}, nil
	}

	m.switchOut(conn)

	info := MemberInfo{Username: m.username(username), JoinedAt: m.now()}
	if !m.rooms.AddMember(roomID, conn, info) {
		return JoinResult{}, errRoomNotFound
	}
	m.registry.SetRoom(conn, roomID)

	m.router.Broadcast(roomID, proto.Outbound{
		Type:     proto.OutboundTypeUserJoined,
		Message:  fmt.Sprintf("%s joined the room", info.Username),
		JoinedAt: info.JoinedAt.UnixMilli(),
	}, conn)

	m.log.Debug().Str("conn_id", conn.ID()).Str("room_id", roomID).Msg("room joined")
	return JoinResult{RoomID: roomID, Username: info.Username, JoinedAt: info.JoinedAt}, nil
}

// LeaveRoom removes conn from its room, if any.
func (m *Membership) LeaveRoom(conn Conn) {
	m.removeFromRoom(conn)
}

// Disconnect cleans up after a connection the transport has torn down.
func (m *Membership) Disconnect(conn Conn) {
	m.removeFromRoom(conn)
	m.registry.Clear(conn)
}

// switchOut leaves the current room ahead of a create or join and tells conn about it.
func (m *Membership) switchOut(conn Conn) {
	roomID, left := m.removeFromRoom(conn)
	if !left {
		return
	}
	m.router.SendTo(conn, proto.Outbound{
		Type:      proto.OutboundTypeRoomLeft,
		Message:   "Left room " + roomID,
		Timestamp: m.now().UnixMilli(),
	})
}

// removeFromRoom is the single exit path out of a room. It is idempotent.
func (m *Membership) removeFromRoom(conn Conn) (string, bool) {
	roomID, ok := m.registry.Room(conn)
	if !ok {
		return "", false
	}
	info, removed := m.rooms.RemoveMember(roomID, conn)
	m.registry.Clear(conn)
	if !removed {
		return roomID, false
	}
	if _, exists := m.rooms.Get(roomID); !exists {
		m.metrics.RoomDeleted()
		m.log.Debug().Str("room_id", roomID).Msg("room deleted")
		return roomID, true
	}

	m.router.Broadcast(roomID, proto.Outbound{
		Type:    proto.OutboundTypeUserLeft,
		Message: fmt.Sprintf("%s left the room", info.Username),
		ClientInfo: &proto.ClientInfo{
			Username: info.Username,
			JoinedAt: info.JoinedAt.UnixMilli(),
		},
		Timestamp: m.now().UnixMilli(),
	}, conn)
	return roomID, true
}

func (m *Membership) username(name string) string {
	if name != "" {
		return name
	}
	return "User_" + strconv.FormatInt(m.now().UnixMilli(), 10)
}
