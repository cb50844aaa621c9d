// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"net/http/httptest"
	"testing"
)

func TestNewIDIsValid(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if !ValidID(id) {
			t.Fatalf("NewID produced invalid id: %q", id)
		}
		if seen[id] {
			t.Fatalf("NewID produced duplicate id: %q", id)
		}
		seen[id] = true
	}
}

func TestValidIDRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"not-a-uuid",
		"12345",
		"550e8400-e29b-41d4-a716",                       // truncated
		"550E8400-E29B-41D4-A716-446655440000",          // uppercase, non-canonical
		"{550e8400-e29b-41d4-a716-446655440000}",        // braces
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000", // URN form
		"550e8400e29b41d4a716446655440000",              // no hyphens
		"550e8400-e29b-41d4-a716-446655440000 ",         // trailing space
	}
	for _, s := range bad {
		if ValidID(s) {
			t.Errorf("ValidID(%q) = true, want false", s)
		}
	}

	if !ValidID("550e8400-e29b-41d4-a716-446655440000") {
		t.Error("ValidID rejected a canonical UUID")
	}
}

func TestVoterIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "203.0.113.5", "10.0.0.1:443", "203.0.113.5"},
		{"forwarded chain takes first", "203.0.113.5, 70.41.3.18, 150.172.238.178", "10.0.0.1:443", "203.0.113.5"},
		{"forwarded with spaces", "  203.0.113.5 , 70.41.3.18", "10.0.0.1:443", "203.0.113.5"},
		{"no forwarded uses remote", "", "192.0.2.9:51234", "192.0.2.9"},
		{"remote without port", "", "192.0.2.9", "192.0.2.9"},
		{"blank forwarded entry falls through", " , 70.41.3.18", "192.0.2.9:51234", "192.0.2.9"},
		{"nothing at all", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/polls/x/vote", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := VoterIP(r); got != tt.want {
				t.Errorf("VoterIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	if got, ok := Fingerprint("  fp-abc123  "); !ok || got != "fp-abc123" {
		t.Errorf("Fingerprint trimmed = (%q, %v), want (\"fp-abc123\", true)", got, ok)
	}
	if _, ok := Fingerprint("   "); ok {
		t.Error("Fingerprint accepted whitespace-only token")
	}
	if _, ok := Fingerprint(""); ok {
		t.Error("Fingerprint accepted empty token")
	}
}
