package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// JobLock is a best-effort distributed lock keeping scheduled jobs single-run
// across instances. The token guards against releasing a lock another holder
// has since re-acquired.
type JobLock struct {
	rdb *goredis.Client
}

func NewJobLock(rdb *goredis.Client) *JobLock {
	return &JobLock{rdb: rdb}
}

// releaseScript deletes the lock only when still held by the caller.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func lockKey(job string) string {
	return "job_lock:" + job
}

// Acquire returns a release func when the lock was taken, or ok=false when
// another instance holds it.
func (l *JobLock) Acquire(ctx context.Context, job string, ttl time.Duration) (release func(context.Context) error, ok bool, err error) {
	token := uuid.NewString()

	taken, err := l.rdb.SetNX(ctx, lockKey(job), token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire job lock: %w", err)
	}
	if !taken {
		return nil, false, nil
	}

	release = func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.rdb, []string{lockKey(job)}, token).Err()
	}
	return release, true, nil
}
