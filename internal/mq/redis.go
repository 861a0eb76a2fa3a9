package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/reefdive/apiserver/config"
)

const redisPollTimeout = 5 * time.Second

// RedisClient uses a Redis list per channel as a simple work queue:
// LPUSH to publish, BRPOP to consume.
type RedisClient struct {
	client *redis.Client
}

type redisEnvelope struct {
	ID         string            `json:"id"`
	Data       []byte            `json:"data"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisClient{client: client}, nil
}

// Publish pushes a message onto the channel's list.
func (r *RedisClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("redis channel is required")
	}

	envelope := redisEnvelope{ID: uuid.NewString(), Data: data, Attributes: attrs}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	if err := r.client.LPush(ctx, queueKey(channel), payload).Err(); err != nil {
		return "", err
	}
	return envelope.ID, nil
}

// Subscribe pops messages until ctx is done. A popped message is gone from
// Redis whatever the handler returns.
func (r *RedisClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("redis channel is required")
	}
	key := queueKey(channel)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := r.client.BRPop(ctx, redisPollTimeout, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("redis brpop: %w", err)
		}
		// BRPOP answers with [key, value].
		if len(result) != 2 {
			continue
		}

		var envelope redisEnvelope
		if err := json.Unmarshal([]byte(result[1]), &envelope); err != nil {
			continue
		}
		_ = handler(ctx, Message{
			ID:         envelope.ID,
			Data:       envelope.Data,
			Attributes: envelope.Attributes,
		})
	}
}

// Close closes the Redis connection pool.
func (r *RedisClient) Close() error {
	return r.client.Close()
}

func queueKey(channel string) string {
	return "reefdive:queue:" + channel
}
