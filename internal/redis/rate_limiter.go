package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// admitScript increments the window counter and starts the expiry on the
// increment that opens the window, so the counter can never get stuck
// without a TTL.
// KEYS: [1]=counter, ARGV: [1]=window in milliseconds
var admitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// VoteRateLimiter bounds vote attempts per client address within a fixed
// window. Addresses are stored as salted one-way hashes; raw end-user IPs
// never hit the store.
type VoteRateLimiter struct {
	rdb    *goredis.Client
	salt   string
	limit  int
	window time.Duration
}

func NewVoteRateLimiter(rdb *goredis.Client, salt string, limit int, window time.Duration) *VoteRateLimiter {
	return &VoteRateLimiter{
		rdb:    rdb,
		salt:   salt,
		limit:  limit,
		window: window,
	}
}

// Admit consumes one attempt for the address. Returns false once the count
// within the live window exceeds the ceiling. Errors mean the counter store
// is down; callers fail closed.
func (l *VoteRateLimiter) Admit(ctx context.Context, clientAddress string) (bool, error) {
	key := "ratelimit:vote:" + hashAddress(clientAddress, l.salt)

	count, err := admitScript.Run(ctx, l.rdb, []string{key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	return count <= int64(l.limit), nil
}

func hashAddress(address, salt string) string {
	sum := sha256.Sum256([]byte(address + salt))
	return hex.EncodeToString(sum[:])
}
