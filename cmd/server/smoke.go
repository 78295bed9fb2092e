package main

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

func newSmokeCmd() *cobra.Command {
	var (
		addr    string
		text    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Create a room, join it from a second client and relay one message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := runSmoke(ctx, addr, text); err != nil {
				return fmt.Errorf("smoke: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "smoke ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8080/ws", "WebSocket address")
	cmd.Flags().StringVar(&text, "text", "hello from smoke test", "message text to send")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "total timeout for the run")
	return cmd
}

func runSmoke(ctx context.Context, addr, text string) error {
	host, err := smokeDial(ctx, addr)
	if err != nil {
		return err
	}
	defer host.Close(websocket.StatusNormalClosure, "bye")

	guest, err := smokeDial(ctx, addr)
	if err != nil {
		return err
	}
	defer guest.Close(websocket.StatusNormalClosure, "bye")

	if err := wsjson.Write(ctx, host, proto.Inbound{Type: proto.InboundTypeCreate, Username: "smoke-host"}); err != nil {
		return fmt.Errorf("send create: %w", err)
	}
	created, err := expect(ctx, host, proto.OutboundTypeRoomCreated)
	if err != nil {
		return err
	}

	if err := wsjson.Write(ctx, guest, proto.Inbound{Type: proto.InboundTypeJoin, RoomID: created.RoomID, Username: "smoke-guest"}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	if _, err := expect(ctx, guest, proto.OutboundTypeRoomJoined); err != nil {
		return err
	}
	if _, err := expect(ctx, host, proto.OutboundTypeUserJoined); err != nil {
		return err
	}

	if err := wsjson.Write(ctx, host, proto.Inbound{Type: proto.InboundTypeChat, ChatMessage: text}); err != nil {
		return fmt.Errorf("send chat: %w", err)
	}
	chat, err := expect(ctx, guest, proto.OutboundTypeChat)
	if err != nil {
		return err
	}
	if chat.Message != text {
		return fmt.Errorf("relayed %q, want %q", chat.Message, text)
	}
	return nil
}

func smokeDial(ctx context.Context, addr string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if _, err := expect(ctx, conn, proto.OutboundTypeSystem); err != nil {
		conn.Close(websocket.StatusNormalClosure, "bye")
		return nil, err
	}
	return conn, nil
}

func expect(ctx context.Context, conn *websocket.Conn, typ string) (proto.Outbound, error) {
	var out proto.Outbound
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		return out, fmt.Errorf("read %s: %w", typ, err)
	}
	if out.Type != typ {
		return out, fmt.Errorf("expected %s, got %s: %s", typ, out.Type, out.Message)
	}
	return out, nil
}
