// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity derives best-effort voter identities and record identifiers.

# Identifiers

Polls, options, and votes all use random UUIDs:

	id := identity.NewID()
	if !identity.ValidID(id) { ... }

ValidID accepts only the canonical hyphenated form, so malformed ids are
rejected before any database work.

# Voter Address

VoterIP extracts the voter's network address from a request:

	ip := identity.VoterIP(r)

Takes the first entry of the X-Forwarded-For chain (load balancers),
falls back to the direct connection address, and finally to the
"unknown" sentinel. This is a heuristic, not authentication.

# Fingerprint Tokens

Fingerprint tokens are opaque, client-generated, and persisted client-side
so repeat visits reuse them. Fingerprint trims and validates one:

	token, ok := identity.Fingerprint(req.FingerprintToken)

The (address, token) pair is the voter identity used for duplicate-vote
and cooldown checks. Either signal matching an existing vote for the same
poll blocks a new vote.
*/
package identity
