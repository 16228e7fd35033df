package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
)

// castVoteScript is the vote state transition. It runs the duplicate-voter
// check, poll existence check, status gate, option bounds check, count
// increment, and voter-set insert as one atomic unit, closing the two races
// of a naive client-side sequence: lost increments from concurrent
// read-modify-write, and double votes slipping between a membership check
// and the later insert.
// KEYS: [1]=poll hash, [2]=voter set
// ARGV: [1]=option index, [2]=voter token
var castVoteScript = goredis.NewScript(`
if redis.call('SISMEMBER', KEYS[2], ARGV[2]) == 1 then
  return {'already_voted'}
end
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {'not_found'}
end
local status = redis.call('HGET', KEYS[1], 'status')
if status ~= 'active' then
  return {'not_votable'}
end
local options = cjson.decode(redis.call('HGET', KEYS[1], 'options'))
local idx = tonumber(ARGV[1])
if idx == nil or idx < 0 or idx >= #options then
  return {'invalid_option'}
end
options[idx + 1].votes = options[idx + 1].votes + 1
local encoded = cjson.encode(options)
redis.call('HSET', KEYS[1], 'options', encoded)
redis.call('SADD', KEYS[2], ARGV[2])
local show = redis.call('HGET', KEYS[1], 'showVoteCount')
return {'ok', encoded, redis.call('HGET', KEYS[1], 'question'), show or 'true'}
`)

// CastVote atomically records a vote and returns the poll as it stands
// afterwards. Expected outcomes surface as the domain sentinel errors.
func (s *PollStore) CastVote(ctx context.Context, id string, optionID int, voterToken string) (*domain.Poll, error) {
	result, err := castVoteScript.Run(ctx, s.rdb,
		[]string{pollKey(id), votersKey(id)},
		optionID, voterToken,
	).Result()
	if err != nil {
		return nil, fmt.Errorf("cast vote script failed: %w", err)
	}

	reply, ok := result.([]any)
	if !ok || len(reply) == 0 {
		return nil, fmt.Errorf("cast vote script returned unexpected reply %v", result)
	}

	switch reply[0] {
	case "ok":
		// fallthrough to decoding below
	case "already_voted":
		return nil, domain.ErrAlreadyVoted
	case "not_found":
		return nil, domain.ErrPollNotFound
	case "not_votable":
		return nil, domain.ErrPollNotVotable
	case "invalid_option":
		return nil, domain.ErrInvalidOption
	default:
		return nil, fmt.Errorf("cast vote script returned unknown outcome %v", reply[0])
	}

	if len(reply) < 4 {
		return nil, fmt.Errorf("cast vote script returned short reply %v", reply)
	}
	optionsJSON, _ := reply[1].(string)
	question, _ := reply[2].(string)
	show, _ := reply[3].(string)

	var options []domain.Option
	if err := json.Unmarshal([]byte(optionsJSON), &options); err != nil {
		return nil, fmt.Errorf("failed to decode options after vote: %w", err)
	}

	return &domain.Poll{
		ID:            id,
		Question:      question,
		Options:       options,
		Status:        domain.StatusActive,
		ShowVoteCount: show != "false",
	}, nil
}
