// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"context"
	"net/http"

	"authrelay-server/models"

	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, userID, otp string) error
	SetNewPassword(ctx context.Context, userID, password, confirmPassword string) error
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user account with a lowercased email and hashed password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registerRequest  body  RegisterRequest  true  "Register request payload"
// @Success      201 {object} UserEnvelope     "User created"
// @Failure      400 {object} ErrorResponse    "Missing fields, invalid email, weak password or duplicate email"
// @Failure      500 {object} ErrorResponse    "Internal server error"
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	logger := c.Logger()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid register request payload: ", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	user, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		logger.Warnf("Register failed: %v", err)
		return toHTTPError(err, http.StatusUnauthorized)
	}

	return c.JSON(http.StatusCreated, UserEnvelope{User: NewUserResponse(user)})
}

// Login godoc
// @Summary      Login a user
// @Description  Checks the email and password and returns the user.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body  LoginRequest  true  "Login request payload"
// @Success      200 {object} UserEnvelope     "Login successful"
// @Failure      400 {object} ErrorResponse    "Missing fields or invalid email"
// @Failure      401 {object} ErrorResponse    "Invalid email or password"
// @Failure      500 {object} ErrorResponse    "Internal server error"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	logger := c.Logger()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid login request payload: ", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		logger.Warnf("Login failed: %v", err)
		return toHTTPError(err, http.StatusUnauthorized)
	}

	return c.JSON(http.StatusOK, UserEnvelope{User: NewUserResponse(user)})
}

// ForgotPassword godoc
// @Summary      Request a password reset code
// @Description  Replaces the user's reset codes with a new one and emails it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        forgotPasswordRequest  body  ForgotPasswordRequest  true  "Forgot password payload"
// @Success      200 {object} GenericResponse  "OTP sent"
// @Failure      400 {object} ErrorResponse    "Missing or invalid email"
// @Failure      404 {object} ErrorResponse    "No user with this email"
// @Failure      500 {object} ErrorResponse    "Internal server error"
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	logger := c.Logger()

	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid forgot-password request payload: ", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		logger.Warnf("Forgot password failed: %v", err)
		return toHTTPError(err, http.StatusUnauthorized)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "OTP sent to your email address"})
}

// VerifyOTP godoc
// @Summary      Verify a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        verifyOTPRequest  body  VerifyOTPRequest  true  "Verify OTP payload"
// @Success      200 {object} GenericResponse  "OTP verified"
// @Failure      400 {object} ErrorResponse    "Missing or invalid OTP"
// @Failure      500 {object} ErrorResponse    "Internal server error"
// @Router       /api/auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	logger := c.Logger()

	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid verify-otp request payload: ", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	if err := h.auth.VerifyOTP(c.Request().Context(), req.UserID, req.OTP); err != nil {
		logger.Warnf("OTP verification failed: %v", err)
		return toHTTPError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "OTP verified successfully"})
}

// SetNewPassword godoc
// @Summary      Set a new password
// @Description  Overwrites the user's password. No prior OTP verification is checked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        setNewPasswordRequest  body  SetNewPasswordRequest  true  "Set new password payload"
// @Success      200 {object} GenericResponse  "Password updated"
// @Failure      400 {object} ErrorResponse    "Missing fields, weak password or mismatch"
// @Failure      404 {object} ErrorResponse    "User not found"
// @Failure      500 {object} ErrorResponse    "Internal server error"
// @Router       /api/auth/set-new-password [post]
func (h *AuthHandler) SetNewPassword(c echo.Context) error {
	logger := c.Logger()

	var req SetNewPasswordRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid set-new-password request payload: ", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	if err := h.auth.SetNewPassword(c.Request().Context(), req.UserID, req.Password, req.ConfirmPassword); err != nil {
		logger.Warnf("Set new password failed: %v", err)
		return toHTTPError(err, http.StatusUnauthorized)
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "Password updated successfully"})
}
