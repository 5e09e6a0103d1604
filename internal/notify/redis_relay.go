package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRelay publishes events on a Redis channel and delivers events other
// processes published into a local Registry.
type RedisRelay struct {
	log     *zap.Logger
	rdb     *goredis.Client
	channel string
	origin  string
}

// NewRedisRelay connects to addr and verifies the connection with a ping.
func NewRedisRelay(ctx context.Context, addr, channel string, log *zap.Logger) (*RedisRelay, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	if channel == "" {
		channel = "plateplan:plans"
	}
	if log == nil {
		log = zap.NewNop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisRelay{
		log:     log.With(zap.String("component", "redis_relay")),
		rdb:     rdb,
		channel: channel,
		origin:  uuid.NewString(),
	}, nil
}

func (r *RedisRelay) Forward(ctx context.Context, ev Event) error {
	ev.Origin = r.origin
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if err := r.rdb.Publish(ctx, r.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Listen subscribes to the channel and delivers foreign events into reg
// until ctx is cancelled.
func (r *RedisRelay) Listen(ctx context.Context, reg *Registry) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				r.handlePayload(reg, m.Payload)
			}
		}
	}()
	return nil
}

func (r *RedisRelay) handlePayload(reg *Registry, payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		r.log.Warn("bad redis plan event payload", zap.Error(err))
		return
	}
	if ev.Origin == r.origin {
		return
	}
	reg.Deliver(ev)
}

func (r *RedisRelay) Close() error {
	return r.rdb.Close()
}
