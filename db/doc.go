// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL works unchanged on both supported drivers (modernc.org/sqlite and
lib/pq), so the same schema backs development, tests, and production.

# Tables

The schema includes:

  - poll: Question and running vote total
  - option: Ordered options per poll, each with its own counter
  - vote: Append-only ledger of cast votes with identity signals

# Relationships

	poll 1──* option
	poll 1──* vote

Poll foreign keys use ON DELETE CASCADE.

# Uniqueness

Duplicate voting is prevented at the storage layer:

  - vote.(poll_id, voter_ip) (unique)
  - vote.(poll_id, fingerprint_token) (unique)

A conflicting insert fails no matter how requests interleave, which is the
real one-vote-per-identity guarantee. The handler-level duplicate query
exists only to produce a friendlier error message.

# Indexes

Performance indexes on:

  - option.poll_id
  - vote.poll_id
  - vote.(voter_ip, created_at) (cooldown lookup)
*/
package db
