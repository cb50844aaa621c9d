// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub implements the realtime broadcast hub: rooms keyed by poll id,
fanning tally snapshots out to subscribed connections.

# Rooms

Each client is a mailbox the transport layer drains:

	h := hub.New()
	c := hub.NewClient()
	h.Subscribe(c, pollID)   // acks with joinedPoll
	h.Unsubscribe(c, pollID) // no-op if absent
	h.Disconnect(c)          // leaves all rooms, closes the mailbox

Subscribe is idempotent. Disconnect is safe to call repeatedly, so both
the read and write side of a connection may trigger it.

# Publishing

	h.Publish(pollID, snapshot)

Delivery is best-effort to the members at the moment of the call; no
replay or backlog. Within one room, every subscriber sees snapshots in
publish order: publishes enqueue while holding the hub lock and each
client's mailbox is drained FIFO.

A client whose mailbox is full is disconnected rather than allowed to
stall the room. Clients that miss updates re-fetch poll state over HTTP.

# Transport

The hub knows nothing about websockets. The handlers package upgrades
connections and pumps between the socket and the client mailbox.
*/
package hub
