// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ContactService interface {
	ContactUs(ctx context.Context, name, subject, email, description string) error
}

type ContactHandler struct {
	contact ContactService
}

func NewContactHandler(contact ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// ContactUs godoc
// @Summary      Send a contact form message
// @Description  Relays the submission by email to the operator inbox.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contactRequest  body  ContactRequest  true  "Contact form payload"
// @Success      200 {object} GenericResponse  "Message sent"
// @Failure      400 {object} ErrorResponse    "Missing fields or invalid email"
// @Failure      500 {object} ErrorResponse    "Internal server error"
// @Router       /api/contact-us [post]
func (h *ContactHandler) ContactUs(c echo.Context) error {
	logger := c.Logger()

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid contact request payload: ", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	if err := h.contact.ContactUs(c.Request().Context(), req.Name, req.Subject, req.Email, req.Description); err != nil {
		logger.Warnf("Contact relay failed: %v", err)
		return toHTTPError(err, http.StatusUnauthorized)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "Your message has been sent successfully"})
}
