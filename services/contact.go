// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"fmt"

	"authrelay-server/metrics"
	"authrelay-server/notifications"

	"github.com/asaskevich/govalidator"
)

const (
	msgInvalidContactEmail = "Please enter a valid email address"
	contactSubjectPrefix   = "Contact Us Form Submission: "
)

// ContactRelay forwards contact form submissions to a fixed inbox.
type ContactRelay struct {
	mailer    notifications.Mailer
	recipient string
	metrics   *metrics.Metrics
}

func NewContactRelay(mailer notifications.Mailer, recipient string, m *metrics.Metrics) *ContactRelay {
	return &ContactRelay{mailer: mailer, recipient: recipient, metrics: m}
}

func (r *ContactRelay) ContactUs(ctx context.Context, name, subject, email, description string) (err error) {
	defer func() { observe(r.metrics, "contact_us", err) }()

	if name == "" || subject == "" || email == "" || description == "" {
		return ValidationError(msgFillAllFields)
	}
	if !govalidator.IsEmail(email) {
		return ValidationError(msgInvalidContactEmail)
	}

	msg := notifications.Message{
		From:    email,
		To:      r.recipient,
		Subject: contactSubjectPrefix + subject,
		Text: fmt.Sprintf("Name: %s\nEmail: %s\nSubject: %s\nDescription: %s",
			name, email, subject, description),
	}
	if err := r.mailer.Send(ctx, msg); err != nil {
		return ServerError(err)
	}
	return nil
}
