package poll

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
)

type memoryPoll struct {
	poll   domain.Poll
	voters map[string]struct{}
}

// MemoryStore is an in-memory Store for unit tests and single-instance local
// development. The mutex gives it the same atomicity the Redis adapter gets
// from its Lua script.
type MemoryStore struct {
	mu    sync.Mutex
	polls map[string]*memoryPoll
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{polls: make(map[string]*memoryPoll)}
}

func clonePoll(p domain.Poll) domain.Poll {
	options := make([]domain.Option, len(p.Options))
	copy(options, p.Options)
	p.Options = options
	return p
}

func (s *MemoryStore) CreatePoll(_ context.Context, poll domain.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[poll.ID] = &memoryPoll{
		poll:   clonePoll(poll),
		voters: make(map[string]struct{}),
	}
	return nil
}

func (s *MemoryStore) GetPoll(_ context.Context, id string) (*domain.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	p := clonePoll(mp.poll)
	return &p, nil
}

func (s *MemoryStore) UpdatePoll(_ context.Context, poll domain.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.polls[poll.ID]
	if !ok {
		return domain.ErrPollNotFound
	}
	mp.poll.Question = poll.Question
	mp.poll.Options = clonePoll(poll).Options
	return nil
}

func (s *MemoryStore) SetStatus(_ context.Context, id string, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	mp.poll.Status = status
	return nil
}

func (s *MemoryStore) DeletePoll(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(s.polls, id)
	return nil
}

func (s *MemoryStore) ListPolls(_ context.Context) ([]domain.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	polls := make([]domain.Poll, 0, len(s.polls))
	for _, mp := range s.polls {
		polls = append(polls, clonePoll(mp.poll))
	}
	return polls, nil
}

func (s *MemoryStore) CastVote(_ context.Context, id string, optionID int, voterToken string) (*domain.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mp, ok := s.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	if _, voted := mp.voters[voterToken]; voted {
		return nil, domain.ErrAlreadyVoted
	}
	if mp.poll.Status != domain.StatusActive {
		return nil, domain.ErrPollNotVotable
	}
	if optionID < 0 || optionID >= len(mp.poll.Options) {
		return nil, domain.ErrInvalidOption
	}

	mp.poll.Options[optionID].Votes++
	mp.voters[voterToken] = struct{}{}

	p := clonePoll(mp.poll)
	return &p, nil
}

func (s *MemoryStore) HasVoted(_ context.Context, id, voterToken string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.polls[id]
	if !ok {
		return false, domain.ErrPollNotFound
	}
	_, voted := mp.voters[voterToken]
	return voted, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

type rateWindow struct {
	count   int
	expires time.Time
}

// MemoryRateLimiter is the in-process counterpart of the Redis rate limiter:
// a fixed window per client address that expires and resets.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	limit   int
	window  time.Duration
	windows map[string]*rateWindow
}

func NewMemoryRateLimiter(clock clockwork.Clock, limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		clock:   clock,
		limit:   limit,
		window:  window,
		windows: make(map[string]*rateWindow),
	}
}

func (l *MemoryRateLimiter) Admit(_ context.Context, clientAddress string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	w, ok := l.windows[clientAddress]
	if !ok || !now.Before(w.expires) {
		w = &rateWindow{expires: now.Add(l.window)}
		l.windows[clientAddress] = w
	}
	w.count++
	return w.count <= l.limit, nil
}
