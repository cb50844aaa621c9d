// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/identity"
	"github.com/danielhkuo/livepoll/models"
)

// SubmitTimeout bounds how long one submission may wait on the store before
// failing with KindUnavailable.
const SubmitTimeout = 5 * time.Second

// Broadcaster receives the committed tally snapshot for fan-out. Publish
// must never block the caller; delivery is best-effort.
type Broadcaster interface {
	Publish(pollID string, poll models.Poll)
}

// Coordinator runs vote submissions as single atomic units: validation,
// cooldown and duplicate checks, ledger append, and tally increment either
// all commit or none do.
type Coordinator struct {
	db  *sql.DB
	cfg cliparse.Config
	hub Broadcaster
}

func NewCoordinator(db *sql.DB, cfg cliparse.Config, hub Broadcaster) *Coordinator {
	return &Coordinator{db: db, cfg: cfg, hub: hub}
}

// Request carries one vote submission. VoterIP comes from the identity
// heuristic at the transport layer.
type Request struct {
	PollID           string
	OptionID         string
	FingerprintToken string
	VoterIP          string
}

// Submit validates and commits a single vote, returning the updated poll
// snapshot. All failures arrive as *Error; anything else is an internal
// store failure. On commit the snapshot is also published to the hub -
// broadcast problems never fail the vote.
func (c *Coordinator) Submit(ctx context.Context, req Request) (models.Poll, error) {
	// Validation happens before any mutation
	if !identity.ValidID(req.PollID) {
		return models.Poll{}, invalidInput("Invalid poll ID")
	}
	if !identity.ValidID(req.OptionID) {
		return models.Poll{}, invalidInput("Invalid option ID")
	}
	fp, ok := identity.Fingerprint(req.FingerprintToken)
	if !ok {
		return models.Poll{}, invalidInput("Fingerprint token is required")
	}
	voterIP := req.VoterIP
	if voterIP == "" {
		voterIP = identity.UnknownIP
	}

	ctx, cancel := context.WithTimeout(ctx, SubmitTimeout)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, c.txOptions())
	if err != nil {
		return models.Poll{}, c.classify(err, "begin transaction")
	}
	defer tx.Rollback()

	// Poll must exist
	var pollExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll WHERE id = $1)
	`, req.PollID).Scan(&pollExists)
	if err != nil {
		return models.Poll{}, c.classify(err, "query poll")
	}
	if !pollExists {
		return models.Poll{}, notFound("Poll not found")
	}

	// Option must belong to this poll
	var optionExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM option WHERE id = $1 AND poll_id = $2)
	`, req.OptionID, req.PollID).Scan(&optionExists)
	if err != nil {
		return models.Poll{}, c.classify(err, "query option")
	}
	if !optionExists {
		return models.Poll{}, invalidInput("Invalid option for this poll")
	}

	// Duplicate pre-check, OR semantics across both identity signals.
	// Best-effort for the friendly message; the UNIQUE constraints on the
	// insert below are the actual guarantee. Checked before the cooldown
	// so a repeat vote on the same poll is always "already voted", never
	// a rate-limit prompt inviting a retry that can only fail.
	var alreadyVoted bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote
			WHERE poll_id = $1 AND (voter_ip = $2 OR fingerprint_token = $3)
		)
	`, req.PollID, voterIP, fp).Scan(&alreadyVoted)
	if err != nil {
		return models.Poll{}, c.classify(err, "query duplicate")
	}
	if alreadyVoted {
		return models.Poll{}, forbidden("You have already voted on this poll")
	}

	// Cooldown: most recent vote by this address across any poll
	if c.cfg.CooldownSeconds > 0 {
		var last time.Time
		err = tx.QueryRowContext(ctx, `
			SELECT created_at FROM vote
			WHERE voter_ip = $1
			ORDER BY created_at DESC
			LIMIT 1
		`, voterIP).Scan(&last)
		if err != nil && err != sql.ErrNoRows {
			return models.Poll{}, c.classify(err, "query cooldown")
		}
		if err == nil {
			cooldown := time.Duration(c.cfg.CooldownSeconds) * time.Second
			if elapsed := time.Since(last); elapsed < cooldown {
				wait := int(math.Ceil((cooldown - elapsed).Seconds()))
				return models.Poll{}, rateLimited(wait,
					fmt.Sprintf("Please wait %d seconds before voting again", wait))
			}
		}
	}

	// Append the ledger record
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, poll_id, option_id, voter_ip, fingerprint_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, identity.NewID(), req.PollID, req.OptionID, voterIP, fp, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return models.Poll{}, forbidden("You have already voted on this poll")
		}
		return models.Poll{}, c.classify(err, "insert vote")
	}

	// Tally increment, conditioned on the option still belonging to the
	// poll. Zero matched rows means the store disagrees with what this
	// transaction just read.
	res, err := tx.ExecContext(ctx, `
		UPDATE option SET vote_count = vote_count + 1
		WHERE id = $1 AND poll_id = $2
	`, req.OptionID, req.PollID)
	if err != nil {
		return models.Poll{}, c.classify(err, "increment option tally")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Poll{}, c.classify(err, "increment option tally")
	}
	if affected == 0 {
		return models.Poll{}, conflict("Vote conflicted with a concurrent update")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE poll SET total_votes = total_votes + 1
		WHERE id = $1
	`, req.PollID)
	if err != nil {
		return models.Poll{}, c.classify(err, "increment poll tally")
	}

	// Snapshot read inside the same transaction so the returned tally is
	// exactly the committed one
	snapshot, err := loadPoll(ctx, tx, req.PollID)
	if err != nil {
		return models.Poll{}, c.classify(err, "load snapshot")
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, c.classify(err, "commit")
	}

	if c.hub != nil {
		c.hub.Publish(req.PollID, snapshot)
	}

	return snapshot, nil
}

// txOptions picks the isolation level per driver. SQLite transactions are
// serializable by nature; postgres needs it requested explicitly so that
// racing same-identity submissions cannot both pass the duplicate check.
func (c *Coordinator) txOptions() *sql.TxOptions {
	if c.cfg.DatabaseType == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return nil
}

// classify maps store-level failures onto the retryable taxonomy kinds.
// Anything unrecognized is wrapped and surfaced as an internal error.
func (c *Coordinator) classify(err error, op string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return unavailable("Vote could not be processed in time, please retry")
	case isSerializationFailure(err):
		return conflict("Vote conflicted with a concurrent update, please retry")
	case isBusy(err):
		return unavailable("Store is busy, please retry")
	}
	slog.Error("vote transaction failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation matches the duplicate-key errors of both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// isSerializationFailure matches postgres serializable-isolation aborts
// (SQLSTATE 40001). Safe to retry.
func isSerializationFailure(err error) bool {
	return err != nil && strings.Contains(err.Error(), "could not serialize access")
}

// isBusy matches sqlite lock contention.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// querier is the subset of *sql.DB and *sql.Tx the read helpers need.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadPoll reads a poll and its ordered options.
func loadPoll(ctx context.Context, q querier, pollID string) (models.Poll, error) {
	var poll models.Poll
	err := q.QueryRowContext(ctx, `
		SELECT id, question, total_votes, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &poll.TotalVotes, &poll.CreatedAt)
	if err != nil {
		return models.Poll{}, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, label, vote_count
		FROM option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	defer rows.Close()

	poll.Options = []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.VoteCount); err != nil {
			return models.Poll{}, err
		}
		poll.Options = append(poll.Options, opt)
	}
	return poll, rows.Err()
}

// LoadPoll reads a poll snapshot outside any vote transaction. Used by the
// read-side handlers so snapshots and GET responses share one shape.
func LoadPoll(ctx context.Context, db *sql.DB, pollID string) (models.Poll, error) {
	poll, err := loadPoll(ctx, db, pollID)
	if err == sql.ErrNoRows {
		return models.Poll{}, notFound("Poll not found")
	}
	if err != nil {
		return models.Poll{}, err
	}
	return poll, nil
}
