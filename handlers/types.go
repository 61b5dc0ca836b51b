// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"time"

	"authrelay-server/models"
)

// swagger:model RegisterRequest
type RegisterRequest struct {
	// Display name
	// required: true
	Name string `json:"name" example:"Ann"`
	// User's email address, stored lowercased
	// required: true
	Email string `json:"email" example:"ann@example.com"`
	// User's password
	// required: true
	Password string `json:"password" example:"Abc123!@"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// User's email address
	Email string `json:"email" example:"ann@example.com"`
	// User's password
	Password string `json:"password" example:"Abc123!@"`
}

// swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	// Address of the account to reset
	Email string `json:"email" example:"ann@example.com"`
}

// swagger:model VerifyOTPRequest
type VerifyOTPRequest struct {
	UserID string `json:"userId" example:"3f0c7a8e-5f7e-4d59-9d2c-8c1b0e6b2a11"`
	// Six digit code received by email
	OTP string `json:"otp" example:"482913"`
}

// swagger:model SetNewPasswordRequest
type SetNewPasswordRequest struct {
	UserID          string `json:"userId" example:"3f0c7a8e-5f7e-4d59-9d2c-8c1b0e6b2a11"`
	Password        string `json:"password" example:"New123!@"`
	ConfirmPassword string `json:"confirm_password" example:"New123!@"`
}

// swagger:model ContactRequest
type ContactRequest struct {
	Name        string `json:"name" example:"Bob"`
	Subject     string `json:"subject" example:"Billing"`
	Email       string `json:"email" example:"bob@example.com"`
	Description string `json:"description" example:"I was charged twice."`
}

// swagger:model UserResponse
type UserResponse struct {
	ID        string    `json:"id" example:"3f0c7a8e-5f7e-4d59-9d2c-8c1b0e6b2a11"`
	Name      string    `json:"name" example:"Ann"`
	Email     string    `json:"email" example:"ann@example.com"`
	CreatedAt time.Time `json:"createdAt" example:"2025-01-01T12:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" example:"2025-01-01T12:00:00Z"`
}

// swagger:model UserEnvelope
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// swagger:model GenericResponse
type GenericResponse struct {
	// Message indicating successful operation
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error" example:"Please fill all the fields"`
}

// swagger:model HealthResponse
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// NewUserResponse strips the password hash from user.
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
