package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
)

const channelPrefix = "restaurant:"

func channelName(restaurantID int64) string {
	return fmt.Sprintf("%s%d", channelPrefix, restaurantID)
}

// RedisBrokerはHubをプロセス間で橋渡しする。
// PublishはredisのPUBLISH、Runが購読してローカルHubへ流し込む。
type RedisBroker struct {
	rdb *redis.Client
	hub *Hub
	log *slog.Logger
}

func NewRedisBroker(redisURL string, hub *Hub, log *slog.Logger) (*RedisBroker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBroker{rdb: rdb, hub: hub, log: log}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, restaurantID int64, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("realtime: marshal event: %w", err)
	}
	return b.rdb.Publish(ctx, channelName(restaurantID), data).Err()
}

// Runはctxが終わるまで全店舗チャンネルを購読し続ける。goroutineで呼ぶ。
func (b *RedisBroker) Run(ctx context.Context) {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			restaurantID, err := strconv.ParseInt(strings.TrimPrefix(msg.Channel, channelPrefix), 10, 64)
			if err != nil {
				b.log.Warn("realtime: bad channel name", "channel", msg.Channel)
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("realtime: bad payload", "channel", msg.Channel, "error", err)
				continue
			}
			_ = b.hub.Publish(ctx, restaurantID, ev)
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}
