package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/cajaledger/internal/usecase"
)

// RecalcQueue implements usecase.RecalcQueue on a Redis set, so pending
// targets survive restarts and are shared by every replica.
type RecalcQueue struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

// NewRecalcQueue creates a new RecalcQueue.
func NewRecalcQueue(client *redis.Client, logger zerolog.Logger) *RecalcQueue {
	return &RecalcQueue{
		client: client,
		key:    "cajaledger:recalc:pending",
		logger: logger,
	}
}

// Enqueue adds targets to the pending set. Duplicates collapse.
func (q *RecalcQueue) Enqueue(ctx context.Context, targets ...usecase.RecalcTarget) error {
	if len(targets) == 0 {
		return nil
	}

	members := make([]any, 0, len(targets))
	for _, t := range targets {
		members = append(members, t.String())
	}

	return q.client.SAdd(ctx, q.key, members...).Err()
}

// Dequeue pops up to limit targets. Members that no longer parse are
// dropped with a warning.
func (q *RecalcQueue) Dequeue(ctx context.Context, limit int) ([]usecase.RecalcTarget, error) {
	if limit <= 0 {
		n, err := q.client.SCard(ctx, q.key).Result()
		if err != nil {
			return nil, err
		}
		limit = int(n)
	}

	if limit == 0 {
		return []usecase.RecalcTarget{}, nil
	}

	members, err := q.client.SPopN(ctx, q.key, int64(limit)).Result()
	if err != nil {
		return nil, err
	}

	targets := make([]usecase.RecalcTarget, 0, len(members))
	for _, m := range members {
		t, err := usecase.ParseRecalcTarget(m)
		if err != nil {
			q.logger.Warn().Err(err).Str("member", m).Msg("dropping malformed recalculation target")
			continue
		}
		targets = append(targets, t)
	}

	return targets, nil
}

// Len reports how many targets are pending.
func (q *RecalcQueue) Len(ctx context.Context) (int64, error) {
	return q.client.SCard(ctx, q.key).Result()
}
