package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// AlertsPubSub notifies subscribers that the alert feed was rebuilt.
type AlertsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewAlertsPubSub(rdb *redis.Client) *AlertsPubSub {
	return &AlertsPubSub{
		rdb:     rdb,
		channel: ChannelAlertsChanged(),
	}
}

type alertsChangedMsg struct {
	Type   string `json:"type"`
	Count  int    `json:"count"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *AlertsPubSub) PublishAlertsChanged(ctx context.Context, count int) error {
	b, _ := json.Marshal(alertsChangedMsg{
		Type:   "alerts_changed",
		Count:  count,
		TsUnix: time.Now().Unix(),
	})

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe blocks, calling handler for every alerts_changed message until
// ctx is done or the subscription closes.
func (p *AlertsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, count int)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(64))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg alertsChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &msg); err == nil &&
				msg.Type == "alerts_changed" {
				handler(ctx, msg.Count)
			}
		}
	}
}
