package poll

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
	apperrors "github.com/einartakla1/dncs-poll-api/internal/errors"
	"github.com/einartakla1/dncs-poll-api/internal/metrics"
)

// Service implements the poll lifecycle, vote recording, and the public
// results projection. All durable state lives in the Store; the service is
// stateless and safe for concurrent use.
type Service struct {
	store         Store
	limiter       RateLimiter
	clock         clockwork.Clock
	defaultStatus domain.Status
}

func NewService(store Store, limiter RateLimiter, clock clockwork.Clock, defaultStatus domain.Status) *Service {
	return &Service{
		store:         store,
		limiter:       limiter,
		clock:         clock,
		defaultStatus: defaultStatus,
	}
}

// storeFailure wraps an unexpected store error as a 503. Transient store
// failures are never silently swallowed and never retried at this layer.
func storeFailure(operation string, err error) error {
	metrics.ObserveStoreOp(operation, err)
	return apperrors.UnavailableError("store unavailable", err).WithField("operation", operation)
}

func validatePollInput(question string, optionTexts []string) error {
	if question == "" {
		return apperrors.ValidationError("question is required")
	}
	if len(optionTexts) == 0 {
		return apperrors.ValidationError("at least one option is required")
	}
	for i, text := range optionTexts {
		if text == "" {
			return apperrors.ValidationError("option text must not be empty").WithField("index", i)
		}
	}
	return nil
}

// Create validates the input, assigns sequential option ids with zero counts,
// and persists the poll with the deployment's default status.
func (s *Service) Create(ctx context.Context, question string, optionTexts []string, showVoteCount *bool) (*domain.Poll, error) {
	if err := validatePollInput(question, optionTexts); err != nil {
		return nil, err
	}

	options := make([]domain.Option, len(optionTexts))
	for i, text := range optionTexts {
		options[i] = domain.Option{ID: i, Text: text}
	}

	show := true
	if showVoteCount != nil {
		show = *showVoteCount
	}

	poll := domain.Poll{
		ID:            uuid.NewString(),
		Question:      question,
		Options:       options,
		Status:        s.defaultStatus,
		ShowVoteCount: show,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.store.CreatePoll(ctx, poll); err != nil {
		return nil, storeFailure("create_poll", err)
	}
	metrics.ObserveStoreOp("create_poll", nil)
	metrics.PollsCreatedTotal.Inc()

	slog.Info("Poll created", "poll_id", poll.ID, "status", poll.Status, "options", len(poll.Options))
	return &poll, nil
}

// Update replaces the question and option list. Vote counts carry over for
// options whose text is unchanged and reset to zero for new texts; options
// are re-indexed 0..n-1 in the new order. Status is untouched.
func (s *Service) Update(ctx context.Context, id, question string, optionTexts []string) error {
	if id == "" {
		return apperrors.ValidationError("pollId is required")
	}
	if err := validatePollInput(question, optionTexts); err != nil {
		return err
	}

	existing, err := s.store.GetPoll(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return apperrors.NotFoundError("poll not found").WithField("poll_id", id)
		}
		return storeFailure("get_poll", err)
	}

	existing.Question = question
	existing.Options = mergeOptions(existing.Options, optionTexts)

	if err := s.store.UpdatePoll(ctx, *existing); err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return apperrors.NotFoundError("poll not found").WithField("poll_id", id)
		}
		return storeFailure("update_poll", err)
	}
	metrics.ObserveStoreOp("update_poll", nil)

	slog.Info("Poll updated", "poll_id", id, "options", len(optionTexts))
	return nil
}

// mergeOptions maps the new option texts against the existing options by
// exact text match. A best-effort merge: reordering preserves counts, any
// text change loses that option's count.
func mergeOptions(existing []domain.Option, texts []string) []domain.Option {
	merged := make([]domain.Option, len(texts))
	for i, text := range texts {
		merged[i] = domain.Option{ID: i, Text: text}
		for _, old := range existing {
			if old.Text == text {
				merged[i].Votes = old.Votes
				break
			}
		}
	}
	return merged
}

// SetStatus moves a poll to active or closed. Draft is a creation-only state;
// it cannot be re-entered. Idempotent: setting the current status is a no-op.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if id == "" {
		return apperrors.ValidationError("pollId is required")
	}
	if status != domain.StatusActive && status != domain.StatusClosed {
		return apperrors.ValidationError("status must be \"active\" or \"closed\"").WithField("status", string(status))
	}

	if err := s.store.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return apperrors.NotFoundError("poll not found").WithField("poll_id", id)
		}
		return storeFailure("set_status", err)
	}
	metrics.ObserveStoreOp("set_status", nil)
	metrics.StatusChangesTotal.WithLabelValues(string(status)).Inc()

	slog.Info("Poll status changed", "poll_id", id, "status", status)
	return nil
}

// Delete removes the poll record, its voter set, and its index entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ValidationError("pollId is required")
	}

	if err := s.store.DeletePoll(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return apperrors.NotFoundError("poll not found").WithField("poll_id", id)
		}
		return storeFailure("delete_poll", err)
	}
	metrics.ObserveStoreOp("delete_poll", nil)
	metrics.PollsDeletedTotal.Inc()

	slog.Info("Poll deleted", "poll_id", id)
	return nil
}

// List returns all polls in admin shape, newest first, optionally filtered
// by exact status match.
func (s *Service) List(ctx context.Context, statusFilter string) ([]domain.AdminPollView, error) {
	polls, err := s.store.ListPolls(ctx)
	if err != nil {
		return nil, storeFailure("list_polls", err)
	}
	metrics.ObserveStoreOp("list_polls", nil)

	views := make([]domain.AdminPollView, 0, len(polls))
	for i := range polls {
		if statusFilter != "" && string(polls[i].Status) != statusFilter {
			continue
		}
		views = append(views, domain.AdminView(&polls[i]))
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}
