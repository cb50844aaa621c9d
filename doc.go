// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Live Poll API server.

Live Poll is a realtime polling service: authors create a multiple-choice
poll and share a link; voters cast at most one vote each; every open
viewer sees the tally update live over a websocket.

# Starting the Server

The server requires a database URL via environment variable, .env file,
or CLI flag:

	DATABASE_URL=polls.db go run main.go

Or with flags:

	go run main.go -p 5000 -d polls.db

For postgres:

	go run main.go -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or postgres connection string

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL (-base-url): Frontend base for shareable links
  - VOTE_COOLDOWN_SECONDS (-cooldown): Wait between votes (default: 60)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers plus the websocket endpoint
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - identity: Record ids and best-effort voter identity
  - vote: The vote transaction coordinator and its error taxonomy
  - hub: Poll rooms fanning tally snapshots out to subscribers
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
