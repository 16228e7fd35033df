package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
)

const (
	// Redis hash field names for poll records.
	fieldPollID        = "pollId"
	fieldQuestion      = "question"
	fieldOptions       = "options"
	fieldStatus        = "status"
	fieldShowVoteCount = "showVoteCount"
	fieldCreatedAt     = "createdAt"

	// pollIndexKey is the global set of poll ids.
	pollIndexKey = "polls"
)

func pollKey(id string) string   { return "poll:" + id }
func votersKey(id string) string { return "voters:" + id }

// PollStore is the Redis-backed poll store. Poll records are hashes, the
// global index is a set of ids, and each poll has a set of voter tokens.
type PollStore struct {
	rdb *goredis.Client
}

func NewPollStore(rdb *goredis.Client) *PollStore {
	return &PollStore{rdb: rdb}
}

func (s *PollStore) CreatePoll(ctx context.Context, poll domain.Poll) error {
	optionsJSON, err := json.Marshal(poll.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, pollKey(poll.ID), map[string]any{
		fieldPollID:        poll.ID,
		fieldQuestion:      poll.Question,
		fieldOptions:       string(optionsJSON),
		fieldStatus:        string(poll.Status),
		fieldShowVoteCount: strconv.FormatBool(poll.ShowVoteCount),
		fieldCreatedAt:     strconv.FormatInt(poll.CreatedAt.UnixMilli(), 10),
	})
	pipe.SAdd(ctx, pollIndexKey, poll.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist poll: %w", err)
	}
	return nil
}

func (s *PollStore) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	data, err := s.rdb.HGetAll(ctx, pollKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}
	if data[fieldPollID] == "" {
		return nil, domain.ErrPollNotFound
	}
	return decodePoll(data)
}

func (s *PollStore) UpdatePoll(ctx context.Context, poll domain.Poll) error {
	optionsJSON, err := json.Marshal(poll.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	exists, err := s.rdb.Exists(ctx, pollKey(poll.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check poll existence: %w", err)
	}
	if exists == 0 {
		return domain.ErrPollNotFound
	}

	err = s.rdb.HSet(ctx, pollKey(poll.ID),
		fieldQuestion, poll.Question,
		fieldOptions, string(optionsJSON),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	return nil
}

func (s *PollStore) SetStatus(ctx context.Context, id string, status domain.Status) error {
	exists, err := s.rdb.Exists(ctx, pollKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check poll existence: %w", err)
	}
	if exists == 0 {
		return domain.ErrPollNotFound
	}

	if err := s.rdb.HSet(ctx, pollKey(id), fieldStatus, string(status)).Err(); err != nil {
		return fmt.Errorf("failed to set poll status: %w", err)
	}
	return nil
}

func (s *PollStore) DeletePoll(ctx context.Context, id string) error {
	exists, err := s.rdb.Exists(ctx, pollKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check poll existence: %w", err)
	}
	if exists == 0 {
		return domain.ErrPollNotFound
	}

	// Index entry last: a crash mid-delete leaves the poll undiscoverable
	// instead of listed but gone.
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, pollKey(id))
	pipe.Del(ctx, votersKey(id))
	pipe.SRem(ctx, pollIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return nil
}

func (s *PollStore) ListPolls(ctx context.Context) ([]domain.Poll, error) {
	ids, err := s.rdb.SMembers(ctx, pollIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list poll ids: %w", err)
	}

	polls := make([]domain.Poll, 0, len(ids))
	for _, id := range ids {
		data, err := s.rdb.HGetAll(ctx, pollKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load poll %s: %w", id, err)
		}
		// Dangling index entries (crashed deletes) are skipped.
		if data[fieldPollID] == "" {
			continue
		}
		poll, err := decodePoll(data)
		if err != nil {
			return nil, err
		}
		polls = append(polls, *poll)
	}
	return polls, nil
}

func (s *PollStore) HasVoted(ctx context.Context, id, voterToken string) (bool, error) {
	voted, err := s.rdb.SIsMember(ctx, votersKey(id), voterToken).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check voter membership: %w", err)
	}
	return voted, nil
}

func (s *PollStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func decodePoll(data map[string]string) (*domain.Poll, error) {
	var options []domain.Option
	if err := json.Unmarshal([]byte(data[fieldOptions]), &options); err != nil {
		return nil, fmt.Errorf("failed to decode options for poll %s: %w", data[fieldPollID], err)
	}

	// Legacy records may miss status and showVoteCount; they default to
	// active and visible.
	status := domain.Status(data[fieldStatus])
	if !status.Valid() {
		status = domain.StatusActive
	}

	var createdAt time.Time
	if ms, err := strconv.ParseInt(data[fieldCreatedAt], 10, 64); err == nil {
		createdAt = time.UnixMilli(ms).UTC()
	}

	return &domain.Poll{
		ID:            data[fieldPollID],
		Question:      data[fieldQuestion],
		Options:       options,
		Status:        status,
		ShowVoteCount: data[fieldShowVoteCount] != "false",
		CreatedAt:     createdAt,
	}, nil
}
