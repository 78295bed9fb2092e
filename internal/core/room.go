package core

import (
	"fmt"
	"time"
)

// MemberInfo describes a connection's membership in a room.
type MemberInfo struct {
	Username string
	JoinedAt time.Time
}

type member struct {
	conn Conn
	info MemberInfo
}

// Room groups connections exchanging messages.
type Room struct {
	ID        string
	CreatedAt time.Time
	members   map[string]member
}

// Len returns the number of members.
func (r *Room) Len() int {
	return len(r.members)
}

// Member returns the membership of conn, if present.
func (r *Room) Member(conn Conn) (MemberInfo, bool) {
	m, ok := r.members[conn.ID()]
	return m.info, ok
}

// Conns returns a snapshot of the member connections.
func (r *Room) Conns() []Conn {
	conns := make([]Conn, 0, len(r.members))
	for _, m := range r.members {
		conns = append(conns, m.conn)
	}
	return conns
}

// RoomStore owns room lifecycle. A room lives exactly as long as it has members.
// It is not safe for concurrent use; the Hub serializes access.
type RoomStore struct {
	rooms map[string]*Room
	now   func() time.Time
}

// NewRoomStore constructs an empty store.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
		now:   time.Now,
	}
}

// Create registers a new room with conn as its only member.
func (s *RoomStore) Create(roomID string, conn Conn, info MemberInfo) (*Room, error) {
	if _, exists := s.rooms[roomID]; exists {
		return nil, fmt.Errorf("create room %q: %w", roomID, ErrRoomExists)
	}
	room := &Room{
		ID:        roomID,
		CreatedAt: s.now(),
		members:   map[string]member{conn.ID(): {conn: conn, info: info}},
	}
	s.rooms[roomID] = room
	return room, nil
}

// Get looks up a room by id.
func (s *RoomStore) Get(roomID string) (*Room, bool) {
	room, ok := s.rooms[roomID]
	return room, ok
}

// AddMember adds conn to an existing room. It reports false if the room is absent.
func (s *RoomStore) AddMember(roomID string, conn Conn, info MemberInfo) bool {
	room, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	room.members[conn.ID()] = member{conn: conn, info: info}
	return true
}

// RemoveMember drops conn from the room and deletes the room once empty.
// It returns the removed membership, or false if conn was not a member.
func (s *RoomStore) RemoveMember(roomID string, conn Conn) (MemberInfo, bool) {
	room, ok := s.rooms[roomID]
	if !ok {
		return MemberInfo{}, false
	}
	m, ok := room.members[conn.ID()]
	if !ok {
		return MemberInfo{}, false
	}
	delete(room.members, conn.ID())
	if len(room.members) == 0 {
		delete(s.rooms, roomID)
	}
	return m.info, true
}

// Len returns the number of live rooms.
func (s *RoomStore) Len() int {
	return len(s.rooms)
}

// Members returns the total membership across all rooms.
func (s *RoomStore) Members() int {
	total := 0
	for _, room := range s.rooms {
		total += len(room.members)
	}
	return total
}
