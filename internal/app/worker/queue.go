package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"potd_board/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// Queue is the Redis-backed poll queue shared by the submission service
// (producer) and the poll worker (consumer).
type Queue struct {
	rdb  *redis.Client
	name string
}

func NewQueue(rdb *redis.Client, name string) *Queue {
	return &Queue{rdb: rdb, name: name}
}

func (q *Queue) EnqueuePoll(ctx context.Context, job model.PollJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal poll job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.name, payload).Err(); err != nil {
		return fmt.Errorf("lpush poll job: %w", err)
	}
	return nil
}

// Dequeue blocks until a job is available or the context is cancelled.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*model.PollJob, error) {
	values, err := q.rdb.BRPop(ctx, timeout, q.name).Result()
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, errors.New("unexpected BRPop reply shape")
	}
	var job model.PollJob
	if err := json.Unmarshal([]byte(values[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal poll job: %w", err)
	}
	return &job, nil
}
