// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/identity"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/vote"
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate question
	question := strings.TrimSpace(req.Question)
	if len(question) < models.QuestionMinLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Question must be at least 5 characters")
		return
	}
	if len(question) > models.QuestionMaxLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Question cannot exceed 500 characters")
		return
	}

	// Validate options: blank entries are dropped, the rest must be
	// 1-200 chars and unique ignoring case
	seen := make(map[string]bool)
	options := make([]string, 0, len(req.Options))
	for _, raw := range req.Options {
		opt := strings.TrimSpace(raw)
		if opt == "" {
			continue
		}
		if len(opt) > models.OptionMaxLen {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Option text cannot exceed 200 characters")
			return
		}
		key := strings.ToLower(opt)
		if seen[key] {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Duplicate option: "+opt)
			return
		}
		seen[key] = true
		options = append(options, opt)
	}

	if len(options) < models.MinOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll must have at least 2 valid options")
		return
	}
	if len(options) > models.MaxOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll cannot have more than 10 options")
		return
	}

	pollID := identity.NewID()
	createdAt := time.Now()

	// Poll and options are created together or not at all
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, question, total_votes, created_at)
		VALUES ($1, $2, 0, $3)
	`, pollID, question, createdAt)
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	poll := models.Poll{
		ID:         pollID,
		Question:   question,
		Options:    make([]models.Option, 0, len(options)),
		TotalVotes: 0,
		CreatedAt:  createdAt,
	}

	for i, label := range options {
		optionID := identity.NewID()
		_, err = tx.Exec(`
			INSERT INTO option (id, poll_id, label, position, vote_count)
			VALUES ($1, $2, $3, $4, 0)
		`, optionID, pollID, label, i)
		if err != nil {
			slog.Error("failed to insert option", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		poll.Options = append(poll.Options, models.Option{ID: optionID, Text: label, VoteCount: 0})
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit poll creation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:        pollID,
		ShareableLink: h.cfg.BaseURL + "/poll/" + pollID,
		Poll:          poll,
	})
}

// GetPoll handles GET /polls/:id
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if !identity.ValidID(pollID) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid poll ID")
		return
	}

	poll, err := vote.LoadPoll(r.Context(), h.db, pollID)
	if err != nil {
		if verr, ok := vote.AsError(err); ok && verr.Kind == vote.KindNotFound {
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
			return
		}
		slog.Error("failed to load poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// GetStats handles GET /polls/:id/stats
// Returns compact poll data for link previews
func (h *PollHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if !identity.ValidID(pollID) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid poll ID")
		return
	}

	var question string
	var totalVotes int
	var createdAt time.Time
	err := h.db.QueryRow(`
		SELECT question, total_votes, created_at FROM poll WHERE id = $1
	`, pollID).Scan(&question, &totalVotes, &createdAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var optionCount int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM option WHERE poll_id = $1
	`, pollID).Scan(&optionCount)
	if err != nil {
		slog.Error("failed to count options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollStatsResponse{
		Question:     question,
		TotalVotes:   totalVotes,
		VotesDisplay: humanize.Comma(int64(totalVotes)),
		OptionCount:  optionCount,
		CreatedAgo:   humanize.Time(createdAt),
	})
}
