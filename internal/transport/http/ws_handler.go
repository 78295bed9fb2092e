package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to the hub.
type WSHandler struct {
	hub          *core.Hub
	log          *zerolog.Logger
	origins      []string
	readLimit    int64
	sendBuffer   int
	writeTimeout time.Duration
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:          hub,
		log:          logger,
		origins:      cfg.AllowedOrigins,
		readLimit:    cfg.MaxMessageBytes,
		sendBuffer:   cfg.SendBuffer,
		writeTimeout: cfg.WriteTimeout,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     h.origins,
		InsecureSkipVerify: len(h.origins) == 0,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer ws.Close(websocket.StatusInternalError, "internal error")
	if h.readLimit > 0 {
		ws.SetReadLimit(h.readLimit)
	}

	conn := newWSConn(utils.NewID(), ws, h.sendBuffer)
	h.hub.HandleConnect(conn)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- conn.readLoop(ctx, func(data []byte) {
			h.hub.HandleMessage(conn, data)
		})
	}()
	go func() {
		errCh <- conn.writeLoop(ctx, h.writeTimeout)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh
	conn.markClosed()

	status := websocket.StatusNormalClosure
	reason := "closing"
	if isCleanClose(err) {
		h.hub.HandleClose(conn)
	} else {
		h.hub.HandleError(conn, err)
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		} else {
			status = websocket.StatusInternalError
		}
		reason = "connection error"
	}

	ws.Close(status, reason)
}

// isCleanClose reports whether err is an orderly shutdown rather than a fault.
func isCleanClose(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway, websocket.StatusNoStatusRcvd:
		return true
	}
	return false
}
