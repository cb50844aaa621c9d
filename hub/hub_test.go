// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

func recvMessage(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.Messages():
		if !ok {
			t.Fatal("mailbox closed while waiting for message")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestSubscribeAcks(t *testing.T) {
	h := New()
	c := NewClient()

	h.Subscribe(c, "poll-1")

	msg := recvMessage(t, c)
	if msg.Type != TypeJoinedPoll || msg.PollID != "poll-1" {
		t.Errorf("expected joinedPoll ack for poll-1, got %+v", msg)
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	h := New()
	c := NewClient()

	h.Subscribe(c, "poll-1")
	h.Subscribe(c, "poll-1")

	if got := h.RoomSize("poll-1"); got != 1 {
		t.Errorf("expected room size 1 after double subscribe, got %d", got)
	}
}

func TestPublishReachesOnlyRoomMembers(t *testing.T) {
	h := New()
	member := NewClient()
	other := NewClient()

	h.Subscribe(member, "poll-1")
	h.Subscribe(other, "poll-2")
	recvMessage(t, member) // drain acks
	recvMessage(t, other)

	h.Publish("poll-1", models.Poll{ID: "poll-1", TotalVotes: 1})

	msg := recvMessage(t, member)
	if msg.Type != TypePollUpdate || msg.Poll == nil || msg.Poll.TotalVotes != 1 {
		t.Errorf("expected pollUpdate with totalVotes=1, got %+v", msg)
	}

	select {
	case msg := <-other.Messages():
		t.Errorf("subscriber of another room received %+v", msg)
	default:
	}
}

func TestPublishAfterUnsubscribeNotDelivered(t *testing.T) {
	h := New()
	c := NewClient()

	h.Subscribe(c, "poll-1")
	recvMessage(t, c)
	h.Unsubscribe(c, "poll-1")

	h.Publish("poll-1", models.Poll{ID: "poll-1"})

	select {
	case msg := <-c.Messages():
		t.Errorf("unsubscribed client received %+v", msg)
	default:
	}
}

func TestUnsubscribeAbsentIsNoop(t *testing.T) {
	h := New()
	c := NewClient()

	// Never subscribed; must not panic or alter state
	h.Unsubscribe(c, "poll-1")

	if got := h.RoomSize("poll-1"); got != 0 {
		t.Errorf("expected empty room, got %d", got)
	}
}

func TestDisconnectLeavesAllRooms(t *testing.T) {
	h := New()
	c := NewClient()

	h.Subscribe(c, "poll-1")
	h.Subscribe(c, "poll-2")
	recvMessage(t, c)
	recvMessage(t, c)

	h.Disconnect(c)

	if h.RoomSize("poll-1") != 0 || h.RoomSize("poll-2") != 0 {
		t.Error("disconnected client still present in a room")
	}

	// Mailbox must be closed
	if _, ok := <-c.Messages(); ok {
		t.Error("expected closed mailbox after disconnect")
	}

	// Repeat disconnect and late operations must be safe
	h.Disconnect(c)
	h.Subscribe(c, "poll-3")
	if h.RoomSize("poll-3") != 0 {
		t.Error("disconnected client could re-subscribe")
	}
}

func TestPerRoomPublishOrdering(t *testing.T) {
	h := New()
	c := NewClient()

	h.Subscribe(c, "poll-1")
	recvMessage(t, c)

	const n = 10
	for i := 1; i <= n; i++ {
		h.Publish("poll-1", models.Poll{ID: "poll-1", TotalVotes: i})
	}

	for i := 1; i <= n; i++ {
		msg := recvMessage(t, c)
		if msg.Poll == nil || msg.Poll.TotalVotes != i {
			t.Fatalf("snapshot %d delivered out of order: %+v", i, msg)
		}
	}
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	h := New()
	slow := NewClient()
	healthy := NewClient()

	h.Subscribe(slow, "poll-1")
	h.Subscribe(healthy, "poll-1")
	recvMessage(t, healthy)
	// slow never drains its mailbox; the undrained ack occupies one slot,
	// so it overflows one publish before a fully drained client would

	for i := 0; i < sendBuffer; i++ {
		h.Publish("poll-1", models.Poll{ID: "poll-1", TotalVotes: i})
	}

	if got := h.RoomSize("poll-1"); got != 1 {
		t.Errorf("expected only the healthy subscriber to remain, got room size %d", got)
	}

	// Healthy subscriber is untouched and still ordered
	msg := recvMessage(t, healthy)
	if msg.Type != TypePollUpdate || msg.Poll.TotalVotes != 0 {
		t.Errorf("healthy subscriber lost messages: %+v", msg)
	}
}

func TestConcurrentHubAccess(t *testing.T) {
	h := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			pollID := fmt.Sprintf("poll-%d", n%4)
			c := NewClient()
			h.Subscribe(c, pollID)

			done := make(chan struct{})
			go func() {
				defer close(done)
				for range c.Messages() {
				}
			}()

			for j := 0; j < 25; j++ {
				h.Publish(pollID, models.Poll{ID: pollID, TotalVotes: j})
			}

			h.Unsubscribe(c, pollID)
			h.Disconnect(c)
			<-done
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		pollID := fmt.Sprintf("poll-%d", i)
		if got := h.RoomSize(pollID); got != 0 {
			t.Errorf("expected %s empty after all disconnects, got %d", pollID, got)
		}
	}
}
