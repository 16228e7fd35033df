package domain

import "errors"

var (
	ErrPollNotFound     = errors.New("poll not found")
	ErrAlreadyVoted     = errors.New("already voted")
	ErrPollNotVotable   = errors.New("poll is not accepting votes")
	ErrInvalidOption    = errors.New("invalid option")
	ErrRateLimited      = errors.New("too many vote attempts")
	ErrNoVoterIdentity  = errors.New("no voter identity")
	ErrStoreUnavailable = errors.New("store unavailable")
)
