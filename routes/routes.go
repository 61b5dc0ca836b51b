// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"authrelay-server/commons"
	"authrelay-server/handlers"
	"authrelay-server/metrics"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Contact *handlers.ContactHandler
}

// RegisterRoutes mounts the API under prefix. /health is always served and
// /metrics only when m is non-nil.
func RegisterRoutes(e *echo.Echo, h Handlers, prefix string, m *metrics.Metrics) {
	commons.Logger.Debugf("Registering routes under %q", prefix)
	api := e.Group(prefix)
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.POST("/auth/verify-otp", h.Auth.VerifyOTP)
	api.POST("/auth/set-new-password", h.Auth.SetNewPassword)
	api.POST("/contact-us", h.Contact.ContactUs)

	e.GET("/health", handlers.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	commons.Logger.Info("Routes registered successfully")
}
