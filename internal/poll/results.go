package poll

import (
	"context"
	"errors"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
	apperrors "github.com/einartakla1/dncs-poll-api/internal/errors"
	"github.com/einartakla1/dncs-poll-api/internal/metrics"
)

// GetResults assembles the public view of a poll. Drafts are never shown to
// public readers. An empty voterToken means an anonymous reader, for whom
// hasVoted is always false. Vote counts are withheld at this boundary when
// the poll hides them; clients never receive numbers they should not show.
func (s *Service) GetResults(ctx context.Context, id, voterToken string) (*domain.PollView, error) {
	if id == "" {
		return nil, apperrors.ValidationError("pollId is required")
	}

	poll, err := s.store.GetPoll(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return nil, apperrors.NotFoundError("poll not found").WithField("poll_id", id)
		}
		return nil, storeFailure("get_poll", err)
	}
	metrics.ObserveStoreOp("get_poll", nil)

	if poll.Status == domain.StatusDraft {
		return nil, apperrors.ForbiddenError("poll is not public").WithField("poll_id", id)
	}

	hasVoted := false
	if voterToken != "" {
		hasVoted, err = s.store.HasVoted(ctx, id, voterToken)
		if err != nil && !errors.Is(err, domain.ErrPollNotFound) {
			return nil, storeFailure("has_voted", err)
		}
	}

	view := &domain.PollView{
		Question:      poll.Question,
		Options:       domain.ProjectOptions(poll.Options, poll.ShowVoteCount),
		HasVoted:      hasVoted,
		Status:        poll.Status,
		IsClosed:      poll.Status == domain.StatusClosed,
		ShowVoteCount: poll.ShowVoteCount,
	}
	if poll.ShowVoteCount {
		total := poll.TotalVotes()
		view.TotalVotes = &total
	}
	return view, nil
}
