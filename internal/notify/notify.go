// Package notify delivers the emails that follow bookings, contact
// inquiries and medical forms. Delivery is best effort and at most once:
// callers log a failed Notify and carry on.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Kind names the event a notification reports.
type Kind string

const (
	KindBookingConfirmation Kind = "booking_confirmation"
	KindContactInquiry      Kind = "contact_inquiry"
	KindMedicalForm         Kind = "medical_form_received"
)

// Notification is a rendered email plus the data it was built from.
type Notification struct {
	Kind    Kind              `json:"kind"`
	To      string            `json:"to"`
	Subject string            `json:"subject"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
}

// Notifier sends a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// LogNotifier stands in for an email provider and only logs what it would send.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns a Notifier that only logs what it would send.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	l.logger.Info("notification",
		zap.String("kind", string(n.Kind)),
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
	)
	return nil
}
