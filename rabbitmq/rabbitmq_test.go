// SPDX-License-Identifier: GPL-3.0-only

package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *fakeAcknowledger) Reject(uint64, bool) error { return nil }

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{cfg: Config{Exchange: "mail", RoutingKey: "mail.outbound"}, ch: ch}

	require.NoError(t, p.Publish(context.Background(), []byte(`{"to":"a@x.com"}`)))

	assert.Equal(t, "mail", ch.exchange)
	assert.Equal(t, "mail.outbound", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.JSONEq(t, `{"to":"a@x.com"}`, string(ch.msg.Body))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	p := &Publisher{ch: &fakeChannel{err: amqp.ErrClosed}}

	err := p.Publish(context.Background(), []byte("{}"))
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestSettle(t *testing.T) {
	ack := &fakeAcknowledger{}
	settle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("ok")}, func(context.Context, []byte) error {
		return nil
	})
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)

	nack := &fakeAcknowledger{}
	settle(context.Background(), amqp.Delivery{Acknowledger: nack}, func(context.Context, []byte) error {
		return errors.New("smtp down")
	})
	assert.False(t, nack.acked)
	assert.True(t, nack.nacked)
	assert.False(t, nack.requeue)
}
