// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"context"
	"fmt"

	"authrelay-server/commons"
	"authrelay-server/config"
	"authrelay-server/metrics"
)

// NewMailer builds the mailer selected by cfg.MailProvider. publisher is
// only used by the queue provider and may be nil otherwise.
func NewMailer(cfg *config.Config, publisher Publisher, m *metrics.Metrics) (Mailer, error) {
	provider := NotificationProviders(cfg.MailProvider)

	var mailer Mailer
	switch provider {
	case SMTP:
		mailer = NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.SenderPassword, cfg.SenderEmail)
	case Queue:
		if publisher == nil {
			return nil, fmt.Errorf("queue mail provider needs a publisher")
		}
		mailer = NewQueueMailer(publisher)
	case Mock:
		commons.Logger.Warn("Mock email notifications enabled, messages will not be delivered")
		mailer = &MockMailer{}
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", provider)
	}

	commons.Logger.Infof("Mail provider: %s", provider)
	return WithMetrics(mailer, provider, m), nil
}

type instrumented struct {
	next     Mailer
	provider NotificationProviders
	metrics  *metrics.Metrics
}

// WithMetrics counts every Send by provider and outcome.
func WithMetrics(next Mailer, provider NotificationProviders, m *metrics.Metrics) Mailer {
	if m == nil {
		return next
	}
	return &instrumented{next: next, provider: provider, metrics: m}
}

func (i *instrumented) Send(ctx context.Context, msg Message) error {
	err := i.next.Send(ctx, msg)
	i.metrics.ObserveMail(string(i.provider), err)
	if err != nil {
		commons.Logger.Errorf("Failed to dispatch email:\n- provider=%s\n- error=%v", i.provider, err)
	}
	return err
}
