package mq

import (
	"context"
	"fmt"
	"strings"

	"github.com/reefdive/apiserver/config"
)

// Open connects the broker named by cfg.Notify.Backend.
func Open(ctx context.Context, cfg config.Config) (*MQ, error) {
	var (
		backend Backend
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Notify.Backend)) {
	case "rabbitmq":
		backend, err = NewRabbitMQClient(cfg.RabbitMQ)
	case "pubsub":
		backend, err = NewPubSubClient(ctx, cfg.PubSub)
	case "redis":
		backend, err = NewRedisClient(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported message queue backend %q", cfg.Notify.Backend)
	}
	if err != nil {
		return nil, err
	}
	return New(backend), nil
}
