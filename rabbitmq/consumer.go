// SPDX-License-Identifier: GPL-3.0-only

package rabbitmq

import (
	"context"
	"fmt"

	"authrelay-server/commons"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one message body. A non-nil error rejects the delivery
// without requeueing it.
type Handler func(ctx context.Context, body []byte) error

type Consumer struct {
	cfg     Config
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewConsumer declares the exchange and a durable queue bound to it.
func NewConsumer(cfg Config) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("channel: %w", err)
	}
	c := &Consumer{cfg: cfg, conn: conn, channel: ch}

	if err := ch.Qos(1, 0, false); err != nil {
		c.Close()
		return nil, fmt.Errorf("qos: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}

	queue, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}

	if err := ch.QueueBind(queue.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("queue bind failed (exchange '%s'): %w", cfg.Exchange, err)
	}

	c.cfg.Queue = queue.Name
	commons.Logger.Infof("Queue ready: %s (exchange=%s, key=%s)", queue.Name, cfg.Exchange, cfg.RoutingKey)
	return c, nil
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	msgs, err := c.channel.ConsumeWithContext(ctx, c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				commons.Logger.Warn("Message channel closed")
				return nil
			}
			settle(ctx, msg, handle)
		}
	}
}

func settle(ctx context.Context, msg amqp.Delivery, handle Handler) {
	if err := handle(ctx, msg.Body); err != nil {
		commons.Logger.Errorf("Message handling failed, rejecting: %v", err)
		if err := msg.Nack(false, false); err != nil {
			commons.Logger.Errorf("Nack failed: %v", err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		commons.Logger.Errorf("Ack failed: %v", err)
	}
}

func (c *Consumer) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
