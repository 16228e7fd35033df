package poll

import (
	"context"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
)

// Store is the interface to the external key-value store: poll records, the
// global poll-id index, and per-poll voter-token sets.
//
// Implementations return the sentinel errors from internal/domain for
// expected outcomes (ErrPollNotFound, ErrAlreadyVoted, ErrPollNotVotable,
// ErrInvalidOption); any other error is treated as a store failure.
type Store interface {
	CreatePoll(ctx context.Context, poll domain.Poll) error
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)

	// UpdatePoll overwrites the question and option list of an existing poll.
	UpdatePoll(ctx context.Context, poll domain.Poll) error

	SetStatus(ctx context.Context, id string, status domain.Status) error

	// DeletePoll removes the poll record, its voter set, and its index entry.
	// The index entry goes last so a crash mid-delete leaves the poll
	// undiscoverable rather than listed but gone.
	DeletePoll(ctx context.Context, id string) error

	ListPolls(ctx context.Context) ([]domain.Poll, error)

	// CastVote atomically checks voter-set membership, gates on status,
	// bounds-checks the option, increments its count, and records the voter.
	// Returns the poll as it stands after the vote.
	CastVote(ctx context.Context, id string, optionID int, voterToken string) (*domain.Poll, error)

	HasVoted(ctx context.Context, id, voterToken string) (bool, error)

	// Ping reports whether the store is reachable (readiness probe).
	Ping(ctx context.Context) error
}

// RateLimiter bounds vote attempts per client address within a time window.
type RateLimiter interface {
	// Admit consumes one attempt for the address and reports whether it is
	// still within the window's ceiling. An error means the counter store is
	// unavailable; callers fail closed.
	Admit(ctx context.Context, clientAddress string) (bool, error)
}
