package proto

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type        string `json:"type"`
	RoomID      string `json:"room_id,omitempty"`
	Username    string `json:"username,omitempty"`
	ChatMessage string `json:"chat_message,omitempty"`
}

const (
	InboundTypeCreate = "create"
	InboundTypeJoin   = "join"
	InboundTypeChat   = "chat"
	InboundTypeLeave  = "leave"

	OutboundTypeSystem      = "system"
	OutboundTypeRoomCreated = "room_created"
	OutboundTypeRoomJoined  = "room_joined"
	OutboundTypeUserJoined  = "user_joined"
	OutboundTypeChat        = "chat"
	OutboundTypeRoomLeft    = "room_left"
	OutboundTypeUserLeft    = "user_left"
	OutboundTypeError       = "error"
)

// Outbound is the envelope for messages sent to the client.
// Timestamps are Unix milliseconds.
type Outbound struct {
	Type       string      `json:"type"`
	RoomID     string      `json:"room_id,omitempty"`
	Message    string      `json:"message"`
	Username   string      `json:"username,omitempty"`
	ClientInfo *ClientInfo `json:"client_info,omitempty"`
	Code       string      `json:"code,omitempty"`
	JoinedAt   int64       `json:"joined_at,omitempty"`
	Timestamp  int64       `json:"timestamp,omitempty"`
}

// ClientInfo describes a departing room member.
type ClientInfo struct {
	Username string `json:"username"`
	JoinedAt int64  `json:"joined_at"`
}
