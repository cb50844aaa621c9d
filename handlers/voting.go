// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/identity"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/vote"
)

type VotingHandler struct {
	coord *vote.Coordinator
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, broadcaster vote.Broadcaster) *VotingHandler {
	return &VotingHandler{coord: vote.NewCoordinator(db, cfg, broadcaster)}
}

// SubmitVote handles POST /polls/:id/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.coord.Submit(r.Context(), vote.Request{
		PollID:           pollID,
		OptionID:         req.OptionID,
		FingerprintToken: req.FingerprintToken,
		VoterIP:          identity.VoterIP(r),
	})
	if err != nil {
		writeVoteError(w, err)
		return
	}

	slog.Info("vote submitted", "poll_id", pollID, "option_id", req.OptionID)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Message: "Vote submitted successfully",
		Poll:    poll,
	})
}

// writeVoteError maps the coordinator's taxonomy onto HTTP status codes.
func writeVoteError(w http.ResponseWriter, err error) {
	verr, ok := vote.AsError(err)
	if !ok {
		slog.Error("vote submission failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	switch verr.Kind {
	case vote.KindInvalidInput:
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Message)
	case vote.KindNotFound:
		middleware.ErrorResponse(w, http.StatusNotFound, verr.Message)
	case vote.KindForbidden:
		middleware.ErrorResponse(w, http.StatusForbidden, verr.Message)
	case vote.KindRateLimited:
		w.Header().Set("Retry-After", strconv.Itoa(verr.RetryAfter))
		middleware.ErrorResponse(w, http.StatusTooManyRequests, verr.Message)
	case vote.KindConflict:
		middleware.ErrorResponse(w, http.StatusConflict, verr.Message)
	case vote.KindUnavailable:
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, verr.Message)
	default:
		slog.Error("unclassified vote error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
	}
}
