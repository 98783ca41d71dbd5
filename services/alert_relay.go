package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AlertRelay spreads realtime alerts across API instances through a Redis
// channel. Every instance publishes to the channel and delivers what it
// receives to its own hub.
type AlertRelay struct {
	client  *redis.Client
	channel string
	local   Broadcaster
	log     *zap.Logger
}

type relayEnvelope struct {
	UserID  uint            `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

func NewAlertRelay(client *redis.Client, channel string, local Broadcaster, log *zap.Logger) *AlertRelay {
	return &AlertRelay{client: client, channel: channel, local: local, log: log}
}

// BroadcastAlert publishes to Redis, falling back to the local hub when the
// publish fails.
func (r *AlertRelay) BroadcastAlert(userID uint, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		r.log.Warn("marshal relay payload", zap.Error(err))
		return
	}
	msg, _ := json.Marshal(relayEnvelope{UserID: userID, Payload: raw})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
		r.log.Warn("redis publish failed, delivering locally", zap.Uint("user_id", userID), zap.Error(err))
		r.local.BroadcastAlert(userID, raw)
	}
}

// Start subscribes and returns once the subscription is confirmed. Messages
// are delivered in the background until ctx is done.
func (r *AlertRelay) Start(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var env relayEnvelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					r.log.Warn("bad relay message", zap.Error(err))
					continue
				}
				r.local.BroadcastAlert(env.UserID, env.Payload)
			}
		}
	}()
	return nil
}
