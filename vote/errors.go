// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import "errors"

// Kind classifies a vote submission failure so the transport layer can map
// it to a specific status code and message.
type Kind int

const (
	KindInvalidInput Kind = iota + 1 // malformed ids, missing token, unknown option
	KindNotFound                     // poll does not exist
	KindForbidden                    // identity already voted on this poll
	KindRateLimited                  // cooldown window still active
	KindConflict                     // lost a race with a concurrent transaction; retryable
	KindUnavailable                  // could not acquire the transaction in time; retryable
)

// Error is a classified vote submission failure. RetryAfter is the whole
// number of seconds the caller must wait; it is set only for KindRateLimited.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter int
}

func (e *Error) Error() string { return e.Message }

// AsError unwraps err into a classified *Error if it is one.
func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func invalidInput(msg string) *Error { return &Error{Kind: KindInvalidInput, Message: msg} }
func notFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func unavailable(msg string) *Error  { return &Error{Kind: KindUnavailable, Message: msg} }

func rateLimited(waitSeconds int, msg string) *Error {
	return &Error{Kind: KindRateLimited, Message: msg, RetryAfter: waitSeconds}
}
