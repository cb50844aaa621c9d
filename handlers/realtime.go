// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/livepoll/hub"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size; clients only send join/leave frames
	maxMessageSize = 512
)

type RealtimeHandler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(h *hub.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Polls are public and carry no credentials; any origin may
			// subscribe, matching the CORS policy of the HTTP surface
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws
// Upgrades the connection and pumps messages between the socket and the
// client's hub mailbox until either side goes away.
func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := hub.NewClient()
	slog.Info("realtime client connected", "remote", r.RemoteAddr)

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

// readPump dispatches inbound join/leave frames to the hub. It owns the
// disconnect: when the read side ends, the client leaves every room and
// its mailbox closes, which in turn stops the write pump.
func (h *RealtimeHandler) readPump(conn *websocket.Conn, client *hub.Client) {
	defer func() {
		h.hub.Disconnect(client)
		conn.Close()
		slog.Info("realtime client disconnected", "remote", conn.RemoteAddr().String())
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg hub.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("realtime read error", "error", err)
			}
			return
		}

		switch msg.Type {
		case hub.TypeJoinPoll:
			if msg.PollID == "" {
				h.hub.Send(client, hub.Message{Type: hub.TypeError, Message: "Poll ID is required"})
				continue
			}
			h.hub.Subscribe(client, msg.PollID)
		case hub.TypeLeavePoll:
			if msg.PollID == "" {
				continue
			}
			h.hub.Unsubscribe(client, msg.PollID)
		default:
			h.hub.Send(client, hub.Message{Type: hub.TypeError, Message: "Unknown message type"})
		}
	}
}

// writePump drains the client's mailbox onto the wire and keeps the
// connection alive with pings.
func (h *RealtimeHandler) writePump(conn *websocket.Conn, client *hub.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Messages():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub disconnected the client
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
