// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Live Poll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, hub)

# Endpoints

Health:

	GET /health

Polls (public):

	POST /polls            - Create poll
	GET  /polls/{id}       - Poll with options and tally
	GET  /polls/{id}/stats - Compact preview stats

Voting (public):

	POST /polls/{id}/vote - Submit one vote

Realtime:

	GET /ws - Websocket channel (joinPoll/leavePoll/pollUpdate)

# Handler Initialization

The router creates handler instances with dependency injection:

	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg, hub)
	realtimeHandler := handlers.NewRealtimeHandler(hub)

The hub is shared: the voting handler publishes committed tallies into it,
the realtime handler subscribes connections to it.
*/
package router
