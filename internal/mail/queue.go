package mail

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const outboxKey = "mail:outbox"

// Queue is a Redis-list backed outbox. Producers push jobs from request
// handlers; the worker binary pops and delivers them, so HTTP responses
// never wait on SMTP.
type Queue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewQueue wraps a Redis client as a mail queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	return &Queue{client: client, logger: logger}
}

// Send enqueues a message for asynchronous delivery.
func (q *Queue) Send(ctx context.Context, to []string, body string) error {
	if err := ValidateAddresses(to); err != nil {
		return err
	}

	msg := Message{ID: uuid.NewString(), To: to, Body: body}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if err := q.client.LPush(ctx, outboxKey, payload).Err(); err != nil {
		return err
	}
	q.logger.Debug("mail enqueued", zap.String("mail_id", msg.ID), zap.Strings("to", to))
	return nil
}

// Receive blocks until a message is available or the context is done.
func (q *Queue) Receive(ctx context.Context) (*Message, error) {
	for {
		res, err := q.client.BRPop(ctx, 5*time.Second, outboxKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			return nil, err
		}
		// BRPop returns [key, value].
		var msg Message
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			q.logger.Warn("dropping malformed mail job", zap.Error(err))
			continue
		}
		return &msg, nil
	}
}
