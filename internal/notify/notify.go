// Package notify is the seam to the notification scheduler. Calls are fire
// and forget: callers log failures and carry on.
package notify

import (
	"context"

	"finledger/internal/amqp"
)

type Notifier interface {
	Schedule(ctx context.Context) error
	Cancel(ctx context.Context) error
}

// Noop is used when no notification transport is configured.
type Noop struct{}

func (Noop) Schedule(context.Context) error { return nil }
func (Noop) Cancel(context.Context) error   { return nil }

// Publisher is satisfied by *amqp.Client.
type Publisher interface {
	PublishNotification(ctx context.Context, action string) error
}

// AMQPNotifier forwards requests as messages on the broker.
type AMQPNotifier struct {
	pub Publisher
}

func NewAMQPNotifier(pub Publisher) *AMQPNotifier {
	return &AMQPNotifier{pub: pub}
}

func (n *AMQPNotifier) Schedule(ctx context.Context) error {
	return n.pub.PublishNotification(ctx, amqp.ActionSchedule)
}

func (n *AMQPNotifier) Cancel(ctx context.Context) error {
	return n.pub.PublishNotification(ctx, amqp.ActionCancel)
}

var (
	_ Notifier  = Noop{}
	_ Notifier  = (*AMQPNotifier)(nil)
	_ Publisher = (*amqp.Client)(nil)
)
