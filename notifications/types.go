// SPDX-License-Identifier: GPL-3.0-only

package notifications

import "context"

// Message is a plain-text email. It is also the JSON payload carried by the
// mail queue.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Mailer sends one message. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type NotificationProviders string

const (
	SMTP  NotificationProviders = "smtp"
	Queue NotificationProviders = "queue"
	Mock  NotificationProviders = "mock"
)

// Publisher is the queue side used by QueueMailer.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}
