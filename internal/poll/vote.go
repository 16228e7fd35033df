package poll

import (
	"context"
	"errors"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
	apperrors "github.com/einartakla1/dncs-poll-api/internal/errors"
	"github.com/einartakla1/dncs-poll-api/internal/metrics"
)

// CastVoteRequest bundles all parameters of a vote attempt.
type CastVoteRequest struct {
	PollID        string
	OptionID      int
	VoterToken    string
	ClientAddress string
}

// CastVote is the central state transition: rate-limit, then one atomic
// store operation that deduplicates the voter, gates on status, validates the
// option, and increments its count. The rate limiter runs before any poll
// read to keep store load down under abuse.
func (s *Service) CastVote(ctx context.Context, req CastVoteRequest) (*domain.VoteReceipt, error) {
	start := s.clock.Now()

	if req.PollID == "" {
		return nil, apperrors.ValidationError("pollId is required")
	}
	if req.VoterToken == "" {
		metrics.VotesTotal.WithLabelValues("no_identity").Inc()
		return nil, apperrors.ValidationError("voter identity is required")
	}

	allowed, err := s.limiter.Admit(ctx, req.ClientAddress)
	if err != nil {
		// Fail closed: an unreachable counter store never waves votes through.
		metrics.VotesTotal.WithLabelValues("error").Inc()
		return nil, apperrors.UnavailableError("store unavailable", err).WithField("operation", "rate_limit")
	}
	if !allowed {
		metrics.VotesTotal.WithLabelValues("rate_limited").Inc()
		metrics.RateLimitRejectionsTotal.Inc()
		return nil, apperrors.RateLimitedError("too many requests, please try again later")
	}

	poll, err := s.store.CastVote(ctx, req.PollID, req.OptionID, req.VoterToken)
	if err != nil {
		return nil, mapVoteError(err, req)
	}
	metrics.ObserveStoreOp("cast_vote", nil)
	metrics.VotesTotal.WithLabelValues("ok").Inc()
	metrics.VoteDuration.Observe(s.clock.Now().Sub(start).Seconds())

	receipt := &domain.VoteReceipt{
		Success: true,
		Poll: domain.ReceiptPoll{
			Question:      poll.Question,
			Options:       domain.ProjectOptions(poll.Options, poll.ShowVoteCount),
			ShowVoteCount: poll.ShowVoteCount,
		},
	}
	if poll.ShowVoteCount {
		total := poll.TotalVotes()
		receipt.Poll.TotalVotes = &total
	}
	return receipt, nil
}

func mapVoteError(err error, req CastVoteRequest) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		metrics.VotesTotal.WithLabelValues("already_voted").Inc()
		return apperrors.AlreadyVotedError("already voted").WithField("poll_id", req.PollID)
	case errors.Is(err, domain.ErrPollNotFound):
		metrics.VotesTotal.WithLabelValues("not_found").Inc()
		return apperrors.NotFoundError("poll not found").WithField("poll_id", req.PollID)
	case errors.Is(err, domain.ErrPollNotVotable):
		metrics.VotesTotal.WithLabelValues("not_votable").Inc()
		return apperrors.NotVotableError("poll is not active").WithField("poll_id", req.PollID)
	case errors.Is(err, domain.ErrInvalidOption):
		metrics.VotesTotal.WithLabelValues("invalid_option").Inc()
		return apperrors.InvalidOptionError("invalid option").
			WithField("poll_id", req.PollID).
			WithField("option_id", req.OptionID)
	default:
		metrics.VotesTotal.WithLabelValues("error").Inc()
		return storeFailure("cast_vote", err)
	}
}
