// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"

	"authrelay-server/commons"

	"gopkg.in/gomail.v2"
)

func validate(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("'to' field is required")
	}
	if msg.Subject == "" {
		return fmt.Errorf("'subject' field is required")
	}
	return nil
}

type SMTPMailer struct {
	dialer      *gomail.Dialer
	defaultFrom string
}

// NewSMTPMailer builds a mailer for host:port. Port 465 uses implicit TLS,
// other ports upgrade with STARTTLS when the server offers it.
func NewSMTPMailer(host string, port int, username, password, defaultFrom string) *SMTPMailer {
	dialer := gomail.NewDialer(host, port, username, password)
	dialer.TLSConfig = &tls.Config{
		ServerName: host,
	}
	return &SMTPMailer{dialer: dialer, defaultFrom: defaultFrom}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(msg); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = m.defaultFrom
	}

	message := gomail.NewMessage()
	message.SetHeader("From", from)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", msg.Text)

	commons.Logger.Debugf("Sending email via SMTP to %s", msg.To)
	if err := m.dialer.DialAndSend(message); err != nil {
		commons.Logger.Error("Failed to send email via SMTP: ", err)
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	commons.Logger.Info("Email sent successfully via SMTP")
	return nil
}

// QueueMailer hands messages to the mail worker through RabbitMQ. A nil
// error means the broker accepted the message, not that it was delivered.
type QueueMailer struct {
	publisher Publisher
}

func NewQueueMailer(publisher Publisher) *QueueMailer {
	return &QueueMailer{publisher: publisher}
}

func (m *QueueMailer) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	if err := m.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("failed to queue email: %w", err)
	}

	commons.Logger.Debugf("Email to %s queued", msg.To)
	return nil
}

// MockMailer logs and records messages instead of sending them. Set Err to
// make every Send fail.
type MockMailer struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (m *MockMailer) Send(ctx context.Context, msg Message) error {
	commons.Logger.Info("=== MOCK EMAIL NOTIFICATION ===")
	commons.Logger.Infof("From: %s", msg.From)
	commons.Logger.Infof("To: %s", msg.To)
	commons.Logger.Infof("Subject: %s", msg.Subject)
	commons.Logger.Info("=== EMAIL MOCK COMPLETE ===")

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

// Last returns the most recent message, if any.
func (m *MockMailer) Last() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return Message{}, false
	}
	return m.sent[len(m.sent)-1], true
}
