package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeRoomIDRequired = "room_id_required"
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeNotInRoom      = "not_in_room"
	ErrCodeRoomGone       = "room_gone"
	ErrCodeEmptyMessage   = "empty_message"
	ErrCodeInternal       = "internal"
)

var (
	// ErrRoomExists is returned when a generated room id collides with a live room.
	ErrRoomExists = errors.New("room already exists")
	// ErrConnClosed is returned by Conn implementations once the peer is gone.
	ErrConnClosed = errors.New("connection closed")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

var (
	errInvalidFormat  = coreError(ErrCodeBadRequest, "Invalid message format.")
	errRoomIDRequired = coreError(ErrCodeRoomIDRequired, "Room id is required.")
	errRoomNotFound   = coreError(ErrCodeRoomNotFound, "Room not found")
	errNotInRoom      = coreError(ErrCodeNotInRoom, "Please join a room first.")
	errRoomGone       = coreError(ErrCodeRoomGone, "Room no longer exists.")
	errEmptyMessage   = coreError(ErrCodeEmptyMessage, "Chat message cant be empty.")
	errCreateFailed   = coreError(ErrCodeInternal, "Could not create room, try again.")
)
