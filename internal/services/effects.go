package services

import (
	"context"

	"github.com/reefdive/apiserver/internal/metrics"
	"github.com/reefdive/apiserver/internal/notify"
	"go.uber.org/zap"
)

// bestEffort runs the side effects that follow a committed write. Failures
// are logged and counted, never returned.
type bestEffort struct {
	notifier notify.Notifier
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func (b bestEffort) notify(ctx context.Context, n notify.Notification) {
	if b.notifier == nil {
		return
	}
	if err := b.notifier.Notify(ctx, n); err != nil {
		b.failed(string(n.Kind), err)
	}
}

func (b bestEffort) failed(kind string, err error) {
	b.logger.Warn("best-effort side effect failed", zap.String("kind", kind), zap.Error(err))
	b.metrics.NotificationsFailed.WithLabelValues(kind).Inc()
}
