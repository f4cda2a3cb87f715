package events

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillsync/internal/models"
)

type RedisBus struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewRedisBus(rdb *redis.Client, logger *logrus.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, ev models.SessionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, SessionChannel(ev.SessionID), payload).Err(); err != nil {
		return err
	}
	if ev.Type != models.EventSessionCompleted {
		return nil
	}
	return b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: CompletedStream,
		Values: map[string]any{
			"session_id": ev.SessionID,
			"user_id":    ev.UserID,
			"ts_unix":    strconv.FormatInt(ev.Timestamp.UTC().Unix(), 10),
		},
	}).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, sessionID string) (<-chan models.SessionEvent, func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	pubsub := b.rdb.Subscribe(ctx, SessionChannel(sessionID))
	// wait for the subscription confirmation so no event published after
	// Subscribe returns is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan models.SessionEvent, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var ev models.SessionEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.logger.WithError(err).WithField("session_id", sessionID).Warn("dropping malformed session event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cancel, nil
}
