// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// UnknownIP is the sentinel voter address when no usable address is present.
const UnknownIP = "unknown"

// NewID returns a fresh random identifier for a poll, option, or vote.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether s is a well-formed canonical identifier.
// Rejects the alternate forms uuid.Parse tolerates (braces, URN prefix,
// missing hyphens) so stored ids have exactly one representation.
func ValidID(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.String() == s
}

// VoterIP derives the best-effort voter address for a request: the first
// entry of the X-Forwarded-For chain if present, otherwise the direct
// connection address, otherwise UnknownIP.
func VoterIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if i := strings.IndexByte(xff, ','); i >= 0 {
			first = xff[:i]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	// Strip port from RemoteAddr if present
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			addr = addr[:i]
			break
		}
	}
	if addr == "" {
		return UnknownIP
	}
	return addr
}

// Fingerprint normalizes a client-supplied fingerprint token. Returns the
// trimmed token and false if nothing usable remains.
func Fingerprint(token string) (string, bool) {
	token = strings.TrimSpace(token)
	return token, token != ""
}
