package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

const welcomeMessage = "Welcome to the Chat server!"

// Stats is a point-in-time view of hub state.
type Stats struct {
	Rooms   int `json:"rooms"`
	Members int `json:"members"`
}

// Hub is the single entry point the transport calls for connection events.
// Every call runs to completion under one lock, so each create, join, leave,
// chat and disconnect is atomic with respect to rooms and the registry.
type Hub struct {
	mu         sync.Mutex
	registry   *Registry
	rooms      *RoomStore
	router     *Router
	membership *Membership
	metrics    Metrics
	log        *zerolog.Logger
	now        func() time.Time
}

// NewHub creates a hub with fresh state. Nil arguments fall back to
// uuid room ids, no-op metrics and a disabled logger.
func NewHub(ids IDGenerator, metrics Metrics, logger *zerolog.Logger) *Hub {
	if ids == nil {
		ids = IDGeneratorFunc(uuid.NewString)
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	registry := NewRegistry()
	rooms := NewRoomStore()
	router := NewRouter(rooms, metrics, logger)

	return &Hub{
		registry:   registry,
		rooms:      rooms,
		router:     router,
		membership: NewMembership(registry, rooms, router, ids, metrics, logger),
		metrics:    metrics,
		log:        logger,
		now:        time.Now,
	}
}

// HandleConnect greets a newly accepted connection.
func (h *Hub) HandleConnect(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.metrics.ConnectionOpened()
	h.log.Debug().Str("conn_id", conn.ID()).Msg("connection opened")
	h.router.SendTo(conn, h.system(welcomeMessage))
}

// HandleMessage parses and dispatches one inbound payload.
func (h *Hub) HandleMessage(conn Conn, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var in proto.Inbound
	if err := json.Unmarshal(payload, &in); err != nil {
		h.log.Debug().Err(err).Str("conn_id", conn.ID()).Msg("invalid inbound")
		h.metrics.MessageReceived("invalid")
		h.replyError(conn, errInvalidFormat)
		return
	}

	switch in.Type {
	case proto.InboundTypeCreate:
		h.metrics.MessageReceived(in.Type)
		h.handleCreate(conn, in)
	case proto.InboundTypeJoin:
		h.metrics.MessageReceived(in.Type)
		h.handleJoin(conn, in)
	case proto.InboundTypeChat:
		h.metrics.MessageReceived(in.Type)
		h.handleChat(conn, in)
	case proto.InboundTypeLeave:
		h.metrics.MessageReceived(in.Type)
		h.handleLeave(conn)
	default:
		// Unknown types are ignored so newer clients keep working.
		h.metrics.MessageReceived("unknown")
		h.log.Debug().Str("conn_id", conn.ID()).Str("type", in.Type).Msg("ignoring unknown message type")
	}
}

// HandleClose cleans up after a connection closed by the peer or the server.
func (h *Hub) HandleClose(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Debug().Str("conn_id", conn.ID()).Msg("connection closed")
	h.disconnect(conn)
}

// HandleError cleans up after a transport failure. Nothing is sent back on conn.
func (h *Hub) HandleError(conn Conn, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Warn().Err(err).Str("conn_id", conn.ID()).Msg("connection error")
	h.disconnect(conn)
}

// Stats reports the current number of rooms and members.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	return Stats{Rooms: h.rooms.Len(), Members: h.rooms.Members()}
}

func (h *Hub) disconnect(conn Conn) {
	h.membership.Disconnect(conn)
	h.metrics.ConnectionClosed()
}

func (h *Hub) handleCreate(conn Conn, in proto.Inbound) {
	res, cerr := h.membership.CreateRoom(conn, in.Username)
	if cerr != nil {
		h.replyError(conn, cerr)
		return
	}
	h.router.SendTo(conn, proto.Outbound{
		Type:      proto.OutboundTypeRoomCreated,
		RoomID:    res.RoomID,
		Message:   fmt.Sprintf("Room created successfully. Room id: %s", res.RoomID),
		Username:  res.Username,
		JoinedAt:  res.JoinedAt.UnixMilli(),
		Timestamp: h.now().UnixMilli(),
	})
}

func (h *Hub) handleJoin(conn Conn, in proto.Inbound) {
	res, cerr := h.membership.JoinRoom(conn, in.RoomID, in.Username)
	if cerr != nil {
		h.replyError(conn, cerr)
		return
	}
	h.router.SendTo(conn, proto.Outbound{
		Type:     proto.OutboundTypeRoomJoined,
		RoomID:   res.RoomID,
		Message:  fmt.Sprintf("Room %s joined successfully", res.RoomID),
		Username: res.Username,
		JoinedAt: res.JoinedAt.UnixMilli(),
	})
}

func (h *Hub) handleChat(conn Conn, in proto.Inbound) {
	roomID, ok := h.registry.Room(conn)
	if !ok {
		h.replyError(conn, errNotInRoom)
		return
	}
	room, ok := h.rooms.Get(roomID)
	if !ok {
		h.replyError(conn, errRoomGone)
		return
	}
	info, ok := room.Member(conn)
	if !ok {
		h.replyError(conn, errNotInRoom)
		return
	}
	if strings.TrimSpace(in.ChatMessage) == "" {
		h.replyError(conn, errEmptyMessage)
		return
	}

	h.router.Broadcast(roomID, proto.Outbound{
		Type:      proto.OutboundTypeChat,
		Message:   in.ChatMessage,
		Username:  info.Username,
		Timestamp: h.now().UnixMilli(),
	}, conn)
}

func (h *Hub) handleLeave(conn Conn) {
	h.membership.LeaveRoom(conn)
	h.router.SendTo(conn, proto.Outbound{
		Type:      proto.OutboundTypeRoomLeft,
		Message:   "You have left the room.",
		Timestamp: h.now().UnixMilli(),
	})
}

func (h *Hub) replyError(conn Conn, cerr *CoreError) {
	h.router.SendTo(conn, proto.Outbound{
		Type:      proto.OutboundTypeError,
		Message:   cerr.Message,
		Code:      cerr.Code,
		Timestamp: h.now().UnixMilli(),
	})
}

func (h *Hub) system(msg string) proto.Outbound {
	return proto.Outbound{
		Type:      proto.OutboundTypeSystem,
		Message:   msg,
		Timestamp: h.now().UnixMilli(),
	}
}
