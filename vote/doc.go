// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote implements the vote transaction coordinator.

# Submission

One call commits one vote as a single atomic unit:

	coord := vote.NewCoordinator(db, cfg, hub)
	poll, err := coord.Submit(ctx, vote.Request{
		PollID:           pollID,
		OptionID:         optionID,
		FingerprintToken: token,
		VoterIP:          identity.VoterIP(r),
	})

The transaction performs, in order: poll load, option membership check,
duplicate check (address OR fingerprint, same poll), cooldown check (most
recent vote by this address across all polls), ledger append, and
conditional tally increment. A repeat vote on the same poll is therefore
always "already voted" rather than a rate-limit prompt. Any failure aborts the whole unit - a vote
record never exists without its tally increment, and vice versa.

# One Vote Per Identity

The duplicate query is a best-effort pre-check that produces the friendly
"already voted" message. The guarantee itself comes from the two UNIQUE
constraints on the vote table: when two submissions from the same identity
race, the second insert fails no matter how the reads interleaved. On
postgres the transaction additionally runs at serializable isolation, so
isolation-level aborts surface as retryable conflicts.

# Tally Integrity

Counters only move through the single conditional UPDATE primitive; nothing
reads a tally and writes it back. total_votes therefore always equals the
sum of the option counters outside a transaction.

# Error Taxonomy

All expected failures are *Error values with a Kind:

	KindInvalidInput  KindNotFound   KindForbidden
	KindRateLimited   KindConflict   KindUnavailable

RateLimited errors carry RetryAfter, the whole seconds left in the
cooldown window. Conflict and Unavailable are safe to retry with backoff.
Anything else is an unexpected store failure, logged and wrapped.

# Broadcast

On commit the updated snapshot goes to the configured Broadcaster. Publish
is fire-and-forget; it can never fail or roll back the vote.
*/
package vote
