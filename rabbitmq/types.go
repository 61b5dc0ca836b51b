// SPDX-License-Identifier: GPL-3.0-only

package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Config names the topology shared by the mail publisher and the worker.
type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	Queue      string
}

// publishChannel is the subset of *amqp.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}
