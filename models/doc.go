// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options (string array)
  - SubmitVoteRequest: optionId, fingerprintToken

# Response Types

Types for JSON responses:

  - CreatePollResponse: pollId, shareableLink, poll
  - SubmitVoteResponse: message, poll
  - PollStatsResponse: compact stats for link previews
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Poll: question, ordered options, running tally
  - Option: option text with vote count
  - Vote: immutable ledger record (identity fields never serialized)

# Wire Format

Poll and vote payloads use camelCase JSON field names (totalVotes,
voteCount, createdAt) to match the frontend contract.

# Validation Limits

	QuestionMinLen = 5     QuestionMaxLen = 500
	OptionMinLen   = 1     OptionMaxLen   = 200
	MinOptions     = 2     MaxOptions     = 10
*/
package models
