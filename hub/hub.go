// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"log/slog"
	"sync"

	"github.com/danielhkuo/livepoll/models"
)

// Message envelope for the realtime channel, both directions.
const (
	TypeJoinPoll   = "joinPoll"
	TypeLeavePoll  = "leavePoll"
	TypeJoinedPoll = "joinedPoll"
	TypePollUpdate = "pollUpdate"
	TypeError      = "error"
)

type Message struct {
	Type    string       `json:"type"`
	PollID  string       `json:"pollId,omitempty"`
	Poll    *models.Poll `json:"poll,omitempty"`
	Message string       `json:"message,omitempty"`
}

// sendBuffer is how many undelivered messages a subscriber may lag before
// it is dropped rather than allowed to block a publish.
const sendBuffer = 16

// Client is one realtime connection's mailbox. The transport layer owns a
// goroutine that drains Messages and writes to the wire.
type Client struct {
	send   chan Message
	closed bool // guarded by the owning hub's mutex
}

func NewClient() *Client {
	return &Client{send: make(chan Message, sendBuffer)}
}

// Messages is the ordered stream of outbound messages for this client.
// The channel closes when the hub disconnects the client.
func (c *Client) Messages() <-chan Message {
	return c.send
}

// Hub maintains poll rooms and fans tally snapshots out to their members.
// All state is guarded by one mutex; publishes enqueue under the lock, so
// every member of a room observes that room's snapshots in publish order.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[*Client]struct{}
	joined map[*Client]map[string]struct{}
}

func New() *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		joined: make(map[*Client]map[string]struct{}),
	}
}

// Subscribe adds the client to the poll's room and acknowledges with a
// joinedPoll message. Idempotent: re-joining a room acks again without
// duplicating membership.
func (h *Hub) Subscribe(c *Client, pollID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.closed {
		return
	}

	room := h.rooms[pollID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[pollID] = room
	}
	room[c] = struct{}{}

	memberships := h.joined[c]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.joined[c] = memberships
	}
	memberships[pollID] = struct{}{}

	h.trySend(c, Message{Type: TypeJoinedPoll, PollID: pollID})
}

// Unsubscribe removes the client from the poll's room. No-op if absent.
func (h *Hub) Unsubscribe(c *Client, pollID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveRoom(c, pollID)
}

// Disconnect removes the client from every room and closes its mailbox.
// Safe to call more than once.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.disconnectLocked(c)
}

// Send queues a one-off message (acks, errors) to a single client.
func (h *Hub) Send(c *Client, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.closed {
		return
	}
	h.trySend(c, msg)
}

// Publish delivers the snapshot to every current member of the poll's
// room. Clients that join afterwards do not receive it - there is no
// replay; reconnecting clients re-fetch poll state over HTTP.
func (h *Hub) Publish(pollID string, poll models.Poll) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := Message{Type: TypePollUpdate, PollID: pollID, Poll: &poll}

	var slow []*Client
	for c := range h.rooms[pollID] {
		if !h.trySend(c, msg) {
			slow = append(slow, c)
		}
	}

	// A full mailbox means the writer is not draining; cut the client
	// loose instead of blocking every other subscriber
	for _, c := range slow {
		slog.Warn("dropping slow realtime subscriber", "poll_id", pollID)
		h.disconnectLocked(c)
	}
}

// RoomSize reports the current number of subscribers for a poll.
func (h *Hub) RoomSize(pollID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.rooms[pollID])
}

// trySend enqueues without blocking. Reports false when the mailbox is full.
// Callers hold h.mu, which is what keeps per-room delivery ordered.
func (h *Hub) trySend(c *Client, msg Message) bool {
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (h *Hub) leaveRoom(c *Client, pollID string) {
	if room := h.rooms[pollID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, pollID)
		}
	}
	if memberships := h.joined[c]; memberships != nil {
		delete(memberships, pollID)
	}
}

func (h *Hub) disconnectLocked(c *Client) {
	if c.closed {
		return
	}
	for pollID := range h.joined[c] {
		if room := h.rooms[pollID]; room != nil {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, pollID)
			}
		}
	}
	delete(h.joined, c)
	c.closed = true
	close(c.send)
}
