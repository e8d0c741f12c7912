package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
)

const channelPrefix = "room:"

// Publisher carries broadcast frames to every instance's hub.
type Publisher interface {
	Publish(ctx context.Context, roomID uint64, data []byte) error
}

// LocalBus delivers straight into the hub. It serves single-process runs
// and tests.
type LocalBus struct {
	hub *Hub
}

func NewLocalBus(hub *Hub) *LocalBus {
	return &LocalBus{hub: hub}
}

func (b *LocalBus) Publish(_ context.Context, roomID uint64, data []byte) error {
	b.hub.Deliver(roomID, data)
	return nil
}

// RedisBus publishes broadcasts on "room:<id>" and feeds every message
// received on "room:*" into the hub.
type RedisBus struct {
	rdb    *redis.Client
	hub    *Hub
	logger *slog.Logger
}

func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func NewRedisBus(rdb *redis.Client, hub *Hub, logger *slog.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, hub: hub, logger: logger}
}

func ChannelName(roomID uint64) string {
	return channelPrefix + strconv.FormatUint(roomID, 10)
}

func parseChannel(name string) (uint64, bool) {
	if !strings.HasPrefix(name, channelPrefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(name, channelPrefix), 10, 64)
	return id, err == nil && id > 0
}

func (b *RedisBus) Publish(ctx context.Context, roomID uint64, data []byte) error {
	return b.rdb.Publish(ctx, ChannelName(roomID), data).Err()
}

// Run subscribes and pumps messages into the hub until ctx is done.
func (b *RedisBus) Run(ctx context.Context) error {
	pubsub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis psubscribe: %w", err)
	}
	b.logger.Info("[REDIS] subscribed", "pattern", channelPrefix+"*")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				b.logger.Info("[REDIS] pub/sub channel closed")
				return nil
			}
			b.dispatch(msg.Channel, msg.Payload)
		}
	}
}

func (b *RedisBus) dispatch(channel, payload string) {
	roomID, ok := parseChannel(channel)
	if !ok {
		b.logger.Warn("[REDIS] message on unexpected channel", "channel", channel)
		return
	}
	b.hub.Deliver(roomID, []byte(payload))
}
