// SPDX-License-Identifier: GPL-3.0-only

// Command mailworker drains the outbound mail queue and delivers each
// message over SMTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"authrelay-server/commons"
	"authrelay-server/config"
	"authrelay-server/notifications"
	"authrelay-server/rabbitmq"
)

func main() {
	args := os.Args[1:]

	cfg, err := config.Load(commons.FlagValue(args, "--env-file"))
	if err != nil {
		commons.Logger.Fatal("Invalid configuration: ", err)
	}
	commons.InitLogger(cfg.LogLevel)

	if cfg.AMQPURL == "" {
		commons.Logger.Fatal("AMQP_URL is required to run the mail worker")
	}

	consumer, err := rabbitmq.NewConsumer(rabbitmq.Config{
		URL:        cfg.AMQPURL,
		Exchange:   cfg.MailExchange,
		RoutingKey: cfg.MailRoutingKey,
		Queue:      cfg.MailQueue,
	})
	if err != nil {
		commons.Logger.Fatalf("Consumer init failed: %v", err)
	}
	defer consumer.Close()

	mailer := notifications.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.SenderPassword, cfg.SenderEmail)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commons.Logger.Info("Mail worker is running. Press Ctrl+C to exit.")
	if err := consumer.Run(ctx, deliver(mailer)); err != nil {
		commons.Logger.Errorf("Mail worker stopped: %v", err)
		return
	}
	commons.Logger.Info("Mail worker stopped.")
}

// deliver decodes a queued message and hands it to mailer. Undecodable
// bodies are rejected like failed deliveries.
func deliver(mailer notifications.Mailer) rabbitmq.Handler {
	return func(ctx context.Context, body []byte) error {
		var msg notifications.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}
		return mailer.Send(ctx, msg)
	}
}
