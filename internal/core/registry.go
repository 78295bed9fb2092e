package core

// Registry maps a connection to the room it currently belongs to.
// It is not safe for concurrent use; the Hub serializes access.
type Registry struct {
	rooms map[string]string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]string)}
}

// SetRoom records conn as a member of roomID.
func (r *Registry) SetRoom(conn Conn, roomID string) {
	r.rooms[conn.ID()] = roomID
}

// Room returns the room conn is in, if any.
func (r *Registry) Room(conn Conn) (string, bool) {
	roomID, ok := r.rooms[conn.ID()]
	return roomID, ok
}

// Clear forgets conn. Unknown connections are ignored.
func (r *Registry) Clear(conn Conn) {
	delete(r.rooms, conn.ID())
}

// Len returns the number of connections currently assigned to a room.
func (r *Registry) Len() int {
	return len(r.rooms)
}
