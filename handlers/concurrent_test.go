// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/danielhkuo/livepoll/hub"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/testutil"
)

// Racing submissions from one voter must net exactly one recorded vote.
func TestConcurrentSameVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(conn, cfg, hub.New())

	pollID, optionIDs := testutil.CreateTestPoll(t, conn, "Pick a color", []string{"Red", "Blue"})

	const racers = 10
	codes := make([]int, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.SubmitVote(w, voteRequest(pollID, models.SubmitVoteRequest{
				OptionID:         optionIDs[i%2],
				FingerprintToken: "fp-racer",
			}, "10.0.0.1"))
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	var ok, forbidden int
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusForbidden:
			forbidden++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	if ok != 1 {
		t.Errorf("expected exactly one accepted vote, got %d", ok)
	}
	if forbidden != racers-1 {
		t.Errorf("expected %d rejections, got %d", racers-1, forbidden)
	}

	testutil.AssertTallyInvariant(t, conn, pollID)

	var total int
	if err := conn.QueryRow(`SELECT total_votes FROM poll WHERE id = $1`, pollID).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
}

// Distinct voters submitting concurrently all succeed.
func TestConcurrentDistinctVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.CooldownSeconds = 0 // distinct voters need no pacing here
	handler := NewVotingHandler(conn, cfg, hub.New())

	pollID, optionIDs := testutil.CreateTestPoll(t, conn, "Pick a color", []string{"Red", "Blue", "Green"})

	const voters = 12
	codes := make([]int, voters)
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.SubmitVote(w, voteRequest(pollID, models.SubmitVoteRequest{
				OptionID:         optionIDs[i%3],
				FingerprintToken: fmt.Sprintf("fp-%d", i),
			}, fmt.Sprintf("10.0.1.%d", i)))
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("voter %d got status %d", i, code)
		}
	}

	testutil.AssertTallyInvariant(t, conn, pollID)

	var total int
	if err := conn.QueryRow(`SELECT total_votes FROM poll WHERE id = $1`, pollID).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != voters {
		t.Errorf("expected total %d, got %d", voters, total)
	}
}
