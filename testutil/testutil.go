// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/identity"
)

// SetupTestDB creates a fresh sqlite database with the full schema in the
// test's temp directory. A single connection keeps sqlite's writer lock
// from surfacing as SQLITE_BUSY in concurrent tests.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "livepoll_test.db")
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            5000,
		DatabaseURL:     "test.db",
		DatabaseType:    "sqlite",
		BaseURL:         "http://localhost:3000",
		CooldownSeconds: 60,
	}
}

// CreateTestPoll creates a poll with the given option labels and returns
// the poll ID plus option IDs in order.
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, options []string) (pollID string, optionIDs []string) {
	t.Helper()

	pollID = identity.NewID()
	_, err := conn.Exec(`
		INSERT INTO poll (id, question, total_votes, created_at)
		VALUES ($1, $2, 0, $3)
	`, pollID, question, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, label := range options {
		optionID := identity.NewID()
		_, err := conn.Exec(`
			INSERT INTO option (id, poll_id, label, position, vote_count)
			VALUES ($1, $2, $3, $4, 0)
		`, optionID, pollID, label, i)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return pollID, optionIDs
}

// InsertTestVote inserts a vote record directly and bumps the tallies,
// bypassing the coordinator. createdAt lets cooldown tests backdate votes.
func InsertTestVote(t *testing.T, conn *sql.DB, pollID, optionID, voterIP, fingerprint string, createdAt time.Time) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (id, poll_id, option_id, voter_ip, fingerprint_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, identity.NewID(), pollID, optionID, voterIP, fingerprint, createdAt)
	if err != nil {
		t.Fatalf("Failed to insert test vote: %v", err)
	}

	if _, err := conn.Exec(`UPDATE option SET vote_count = vote_count + 1 WHERE id = $1`, optionID); err != nil {
		t.Fatalf("Failed to bump option tally: %v", err)
	}
	if _, err := conn.Exec(`UPDATE poll SET total_votes = total_votes + 1 WHERE id = $1`, pollID); err != nil {
		t.Fatalf("Failed to bump poll tally: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertTallyInvariant verifies total_votes equals the sum of the option
// counters and that each increment matches exactly one ledger record.
func AssertTallyInvariant(t *testing.T, conn *sql.DB, pollID string) {
	t.Helper()

	var total, optionSum, voteCount int
	if err := conn.QueryRow(`SELECT total_votes FROM poll WHERE id = $1`, pollID).Scan(&total); err != nil {
		t.Fatalf("Failed to query poll total: %v", err)
	}
	if err := conn.QueryRow(`SELECT COALESCE(SUM(vote_count), 0) FROM option WHERE poll_id = $1`, pollID).Scan(&optionSum); err != nil {
		t.Fatalf("Failed to sum option counts: %v", err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, pollID).Scan(&voteCount); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}

	if total != optionSum {
		t.Errorf("Tally invariant broken: total_votes=%d, sum(option.vote_count)=%d", total, optionSum)
	}
	if total != voteCount {
		t.Errorf("Ledger mismatch: total_votes=%d, vote records=%d", total, voteCount)
	}
}
