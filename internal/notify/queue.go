package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reefdive/apiserver/internal/mq"
	"go.uber.org/zap"
)

// QueueNotifier hands notifications to a message queue; a Worker delivers them.
type QueueNotifier struct {
	queue   *mq.MQ
	channel string
}

// NewQueueNotifier creates a Notifier that publishes JSON notifications on channel.
func NewQueueNotifier(queue *mq.MQ, channel string) *QueueNotifier {
	return &QueueNotifier{queue: queue, channel: channel}
}

func (q *QueueNotifier) Notify(ctx context.Context, n Notification) error {
	_, err := q.queue.PublishJSON(ctx, q.channel, n, map[string]string{"kind": string(n.Kind)})
	if err != nil {
		return fmt.Errorf("publish %s: %w", n.Kind, err)
	}
	return nil
}

// Worker consumes queued notifications and passes them to a sink.
type Worker struct {
	queue   *mq.MQ
	channel string
	sink    Notifier
	logger  *zap.Logger
}

// NewWorker creates a Worker that consumes channel and delivers to sink.
func NewWorker(queue *mq.MQ, channel string, sink Notifier, logger *zap.Logger) *Worker {
	return &Worker{queue: queue, channel: channel, sink: sink, logger: logger}
}

// Run blocks until ctx is done or the subscription fails.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("notification worker started", zap.String("channel", w.channel))
	return w.queue.Subscribe(ctx, w.channel, w.handle)
}

func (w *Worker) handle(ctx context.Context, msg mq.Message) error {
	var n Notification
	if err := json.Unmarshal(msg.Data, &n); err != nil {
		w.logger.Warn("dropping malformed notification", zap.String("message_id", msg.ID), zap.Error(err))
		return err
	}
	if err := w.sink.Notify(ctx, n); err != nil {
		w.logger.Error("notification delivery failed",
			zap.String("message_id", msg.ID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err),
		)
		return err
	}
	return nil
}
