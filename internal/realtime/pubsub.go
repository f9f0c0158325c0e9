package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	eventChannel   = "relief:events"
	publishTimeout = 5 * time.Second
)

// redisPayload is the message published to Redis for cross-instance broadcast.
type redisPayload struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	At    int64           `json:"at"`
}

// PubSub bridges dashboard events across instances via Redis pub/sub.
type PubSub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPubSub creates a Redis pub/sub bridge for dashboard events.
func NewPubSub(client *redis.Client, logger *zap.Logger) *PubSub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PubSub{client: client, logger: logger}
}

// Publish sends an event to the shared channel.
func (p *PubSub) Publish(ctx context.Context, event string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	body, err := json.Marshal(redisPayload{Event: event, Data: raw, At: time.Now().Unix()})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return p.client.Publish(ctx, eventChannel, body).Err()
}

// Subscribe listens on the shared channel and calls handler for each message.
// Runs until the underlying connection closes.
func (p *PubSub) Subscribe(handler func(event string, payload []byte)) error {
	ctx := context.Background()
	pubsub := p.client.Subscribe(ctx, eventChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for msg := range ch {
			var payload redisPayload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				p.logger.Warn("invalid event payload", zap.Error(err))
				continue
			}
			handler(payload.Event, payload.Data)
		}
	}()
	return nil
}
