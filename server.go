// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"os"

	"authrelay-server/commons"
	"authrelay-server/config"
	"authrelay-server/crypto"
	"authrelay-server/db"
	"authrelay-server/handlers"
	"authrelay-server/metrics"
	"authrelay-server/middlewares"
	"authrelay-server/notifications"
	"authrelay-server/passwordcheck"
	"authrelay-server/rabbitmq"
	"authrelay-server/routes"
	"authrelay-server/services"
	"authrelay-server/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

func main() {
	args := os.Args[1:]

	cfg, err := config.Load(commons.FlagValue(args, "--env-file"))
	if err != nil {
		commons.Logger.Fatal("Invalid configuration: ", err)
	}
	commons.InitLogger(cfg.LogLevel)

	debugMode := commons.HasFlag(args, "--debug")
	if debugMode {
		commons.Logger.SetLevel(log.DEBUG)
	}

	conn, err := db.Open(cfg)
	if err != nil {
		commons.Logger.Fatal(err)
	}
	defer db.Close(conn)

	if commons.HasFlag(args, "--migrate-db") {
		commons.Logger.Debug("--migrate-db flag detected, running migrations")
		if err := db.Migrate(conn); err != nil {
			commons.Logger.Fatal(err)
		}
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	var publisher notifications.Publisher
	if notifications.NotificationProviders(cfg.MailProvider) == notifications.Queue {
		p, err := rabbitmq.NewPublisher(rabbitmq.Config{
			URL:        cfg.AMQPURL,
			Exchange:   cfg.MailExchange,
			RoutingKey: cfg.MailRoutingKey,
		})
		if err != nil {
			commons.Logger.Fatal("Failed to connect to mail queue: ", err)
		}
		defer p.Close()
		publisher = p
	}

	mailer, err := notifications.NewMailer(cfg, publisher, m)
	if err != nil {
		commons.Logger.Fatal(err)
	}

	e := newServer(cfg, conn, mailer, m)
	if debugMode {
		e.Logger.Warn("Debug mode is enabled.")
		e.Debug = true
		e.Logger.SetLevel(log.DEBUG)
	}

	e.Logger.Fatal(e.Start(cfg.Addr()))
}

// newServer wires stores, services and handlers into an echo instance.
func newServer(cfg *config.Config, conn *gorm.DB, mailer notifications.Mailer, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Logger.SetLevel(commons.Logger.Level())
	e.Logger.SetHeader(commons.LogHeader)
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(cfg.ExposeInternalErrors)

	e.Use(middlewares.RequestLogger(e.Logger))
	e.Use(middlewares.Metrics(m))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	auth := services.NewAuthService(services.AuthDeps{
		Users:       store.NewUserStore(conn),
		Codes:       store.NewOTPStore(conn),
		Mailer:      mailer,
		Hasher:      crypto.NewCrypto(cfg),
		Policy:      passwordcheck.NewPolicy(cfg),
		SenderEmail: cfg.SenderEmail,
		Metrics:     m,
	})
	contact := services.NewContactRelay(mailer, cfg.ContactRecipient, m)

	routes.RegisterRoutes(e, routes.Handlers{
		Auth:    handlers.NewAuthHandler(auth),
		Contact: handlers.NewContactHandler(contact),
	}, cfg.APIPrefix, m)

	return e
}
