package jobs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	sweepTokenPrefix   = "session:token:"
	sweepProfilePrefix = "session:profile:"
)

// NewSessionSweepHandler processes TaskTypeSessionSweep tasks. A session is
// written as a token key plus a profile key; a crash between the two writes
// leaves an orphan that would otherwise linger until its TTL expires.
func NewSessionSweepHandler(logger *slog.Logger, rdb *redis.Client) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := sweepOrphans(ctx, rdb, sweepTokenPrefix, sweepProfilePrefix)
		if err != nil {
			return err
		}
		more, err := sweepOrphans(ctx, rdb, sweepProfilePrefix, sweepTokenPrefix)
		if err != nil {
			return err
		}
		removed += more
		if removed > 0 {
			logger.Info("session sweep removed orphans", slog.Int("count", removed))
		}
		return nil
	}
}

// sweepOrphans deletes keys under prefix whose counterpart under pairPrefix is
// missing.
func sweepOrphans(ctx context.Context, rdb *redis.Client, prefix, pairPrefix string) (int, error) {
	removed := 0
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		deviceID := strings.TrimPrefix(key, prefix)
		exists, err := rdb.Exists(ctx, pairPrefix+deviceID).Result()
		if err != nil {
			return removed, err
		}
		if exists == 0 {
			if err := rdb.Del(ctx, key).Err(); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, iter.Err()
}
