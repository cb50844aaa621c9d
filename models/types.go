// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll validation limits
const (
	QuestionMinLen = 5
	QuestionMaxLen = 500
	OptionMinLen   = 1
	OptionMaxLen   = 200
	MinOptions     = 2
	MaxOptions     = 10
)

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type SubmitVoteRequest struct {
	OptionID         string `json:"optionId"`
	FingerprintToken string `json:"fingerprintToken"`
}

// Response types

type CreatePollResponse struct {
	PollID        string `json:"pollId"`
	ShareableLink string `json:"shareableLink"`
	Poll          Poll   `json:"poll"`
}

type SubmitVoteResponse struct {
	Message string `json:"message"`
	Poll    Poll   `json:"poll"`
}

type PollStatsResponse struct {
	Question     string `json:"question"`
	TotalVotes   int    `json:"total_votes"`
	VotesDisplay string `json:"votes_display"`
	OptionCount  int    `json:"option_count"`
	CreatedAgo   string `json:"created_ago"`
}

// Domain types

type Poll struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Options    []Option  `json:"options"`
	TotalVotes int       `json:"totalVotes"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"voteCount"`
}

// Vote is the immutable ledger record behind a committed vote.
// Identity fields are never exposed in JSON.
type Vote struct {
	ID               string    `json:"id"`
	PollID           string    `json:"poll_id"`
	OptionID         string    `json:"option_id"`
	VoterIP          string    `json:"-"`
	FingerprintToken string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
