package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oleandr/stride/internal/metrics"
)

const (
	notificationsKey = "notifications"
	queueKey         = "notification_queue"
)

// Queue is the Redis-backed delivery queue. Entries are scored by due
// time, with severity breaking ties so critical interventions surface
// first.
type Queue struct {
	client *redis.Client
	ctx    context.Context
}

func NewQueue(redisAddr string) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Queue{
		client: client,
		ctx:    ctx,
	}, nil
}

func (q *Queue) Enqueue(n *Notification) error {
	payload, err := n.ToJSON()
	if err != nil {
		return err
	}

	if err := q.client.HSet(q.ctx, notificationsKey, n.ID, payload).Err(); err != nil {
		return err
	}

	invertedSeverity := float64(severityRank("critical") - severityRank(n.Severity))
	score := float64(n.DeliverAt.Unix())*1000 + invertedSeverity
	if err := q.client.ZAdd(q.ctx, queueKey, redis.Z{
		Score:  score,
		Member: n.ID,
	}).Err(); err != nil {
		return err
	}

	metrics.RecordNotificationEnqueued(n.Kind, n.Severity)
	q.updateDepth()
	return nil
}

// Dequeue pops the next due notification, or nil when nothing is due.
func (q *Queue) Dequeue() (*Notification, error) {
	now := time.Now().Unix()
	maxScore := float64(now)*1000 + float64(severityRank("critical"))

	results, err := q.client.ZRangeByScore(q.ctx, queueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%f", maxScore),
		Count: 1,
	}).Result()

	if err != nil || len(results) == 0 {
		return nil, err
	}

	id := results[0]
	q.client.ZRem(q.ctx, queueKey, id)
	q.updateDepth()

	payload, err := q.client.HGet(q.ctx, notificationsKey, id).Result()
	if err != nil {
		return nil, err
	}

	return FromJSON(payload)
}

// Requeue pushes a deferred notification back with a new due time,
// used when delivery lands inside quiet hours.
func (q *Queue) Requeue(n *Notification, deliverAt time.Time) error {
	n.DeliverAt = deliverAt
	return q.Enqueue(n)
}

// Ack removes a delivered notification's payload.
func (q *Queue) Ack(id string) error {
	return q.client.HDel(q.ctx, notificationsKey, id).Err()
}

func (q *Queue) Depth() (int, error) {
	depth, err := q.client.ZCard(q.ctx, queueKey).Result()
	return int(depth), err
}

func (q *Queue) updateDepth() {
	if depth, err := q.Depth(); err == nil {
		metrics.UpdateNotificationQueueDepth(depth)
	}
}

func (q *Queue) Close() error {
	return q.client.Close()
}
