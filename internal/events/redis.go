package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"formfitness/internal/logger"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "formfitness:events"

// Redis publishes events on a pub/sub channel so every API instance sees them.
type Redis struct {
	client  *redis.Client
	channel string
}

func NewRedis(client *redis.Client, channel string) *Redis {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Redis{client: client, channel: channel}
}

func (r *Redis) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription.
func (r *Redis) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ctx, cancelCtx := context.WithCancel(ctx)
	out := make(chan Event, subscriberBuffer)

	ps := r.client.Subscribe(ctx, r.channel)
	if _, err := ps.Receive(ctx); err != nil {
		logger.Error("Failed to subscribe to events", "channel", r.channel, "error", err)
		cancelCtx()
		ps.Close()
		close(out)
		return out, func() {}
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelCtx()
			ps.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					logger.Error("Bad event payload", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- e:
				default:
					logger.Warn("Event dropped for slow subscriber", "type", e.Type)
				}
			}
		}
	}()

	return out, cancel
}
