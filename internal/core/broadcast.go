package core

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

// Router delivers outbound envelopes to connections. Delivery is best effort:
// closed or failing recipients are skipped and never retried.
type Router struct {
	rooms   *RoomStore
	metrics Metrics
	log     *zerolog.Logger
}

// NewRouter builds a router over the given room store.
func NewRouter(rooms *RoomStore, metrics Metrics, logger *zerolog.Logger) *Router {
	return &Router{rooms: rooms, metrics: metrics, log: logger}
}

// Broadcast sends msg to every live member of roomID except exclude.
// An absent room is not an error.
func (r *Router) Broadcast(roomID string, msg proto.Outbound, exclude Conn) {
	room, ok := r.rooms.Get(roomID)
	if !ok {
		return
	}
	data, ok := r.encode(msg)
	if !ok {
		return
	}
	for _, conn := range room.Conns() {
		if exclude != nil && conn.ID() == exclude.ID() {
			continue
		}
		r.deliver(conn, data)
	}
}

// SendTo delivers msg to a single connection.
func (r *Router) SendTo(conn Conn, msg proto.Outbound) {
	data, ok := r.encode(msg)
	if !ok {
		return
	}
	r.deliver(conn, data)
}

func (r *Router) encode(msg proto.Outbound) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error().Err(err).Str("type", msg.Type).Msg("encode outbound")
		return nil, false
	}
	return data, true
}

func (r *Router) deliver(conn Conn, data []byte) {
	if !conn.Alive() {
		r.metrics.DeliverySkipped()
		return
	}
	if err := conn.Send(data); err != nil {
		r.log.Debug().Err(err).Str("conn_id", conn.ID()).Msg("skip delivery")
		r.metrics.DeliverySkipped()
		return
	}
	r.metrics.MessageDelivered()
}
