// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Live Poll API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - PollHandler: Poll creation, retrieval, and stats
  - VotingHandler: Vote submission through the transaction coordinator
  - RealtimeHandler: Websocket endpoint bridging connections to the hub

# Poll Flow

	POST /polls        → CreatePoll (returns pollId + shareableLink)
	GET  /polls/{id}   → GetPoll
	GET  /polls/{id}/stats → GetStats (compact, humanized preview data)

Polls are immutable after creation except for their tallies.

# Voting Flow

	POST /polls/{id}/vote → SubmitVote

The body carries optionId and fingerprintToken; the voter address comes
from the request itself. SubmitVote delegates to vote.Coordinator and maps
its taxonomy to status codes:

	400 invalid input    403 already voted   404 poll not found
	429 cooldown active  409 write conflict  503 store contention

429 responses carry a Retry-After header with whole seconds remaining.

# Realtime Flow

	GET /ws → Serve (websocket upgrade)

Clients send {"type":"joinPoll","pollId":...} and
{"type":"leavePoll","pollId":...}; the server pushes
{"type":"pollUpdate","poll":...} to every room member when a vote
commits. Read and write pumps follow the usual gorilla/websocket shape
with ping/pong keepalives.
*/
package handlers
