// SPDX-License-Identifier: GPL-3.0-only

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"authrelay-server/commons"
	"authrelay-server/crypto"
	"authrelay-server/metrics"
	"authrelay-server/models"
	"authrelay-server/notifications"
	"authrelay-server/store"

	"github.com/asaskevich/govalidator"
)

const (
	msgFillAllFields      = "Please fill all the fields"
	msgInvalidEmail       = "Please enter a valid email"
	msgLoginMissing       = "Please provide both email and password"
	msgInvalidCredentials = "Invalid email or password"
	msgEmailExists        = "Email already exists"
	msgForgotMissing      = "Please provide an email address"
	msgNoUserForEmail     = "No user found with this email address"
	msgVerifyMissing      = "Please provide user ID and OTP"
	msgInvalidOTP         = "Invalid OTP"
	msgResetMissing       = "Please provide all required fields"
	msgPasswordsDiffer    = "Passwords do not match"
	msgUserNotFound       = "User not found"

	otpSubject = "Password Reset OTP"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
}

type CodeRepository interface {
	DeleteAllForUser(ctx context.Context, userID string) error
	Create(ctx context.Context, userID, code string) error
	FindByUserAndCode(ctx context.Context, userID, code string) (*models.OneTimeCode, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, encodedHash string) error
}

type PasswordPolicy interface {
	Validate(ctx context.Context, password string) error
}

// AuthDeps are the collaborators of AuthService. GenerateOTP and Metrics are
// optional.
type AuthDeps struct {
	Users       UserRepository
	Codes       CodeRepository
	Mailer      notifications.Mailer
	Hasher      PasswordHasher
	Policy      PasswordPolicy
	GenerateOTP func() (string, error)
	SenderEmail string
	Metrics     *metrics.Metrics
}

type AuthService struct {
	users       UserRepository
	codes       CodeRepository
	mailer      notifications.Mailer
	hasher      PasswordHasher
	policy      PasswordPolicy
	generateOTP func() (string, error)
	senderEmail string
	metrics     *metrics.Metrics
}

func NewAuthService(d AuthDeps) *AuthService {
	gen := d.GenerateOTP
	if gen == nil {
		gen = crypto.GenerateOTP
	}
	return &AuthService{
		users:       d.Users,
		codes:       d.Codes,
		mailer:      d.Mailer,
		hasher:      d.Hasher,
		policy:      d.Policy,
		generateOTP: gen,
		senderEmail: d.SenderEmail,
		metrics:     d.Metrics,
	}
}

// Register creates a user with a lowercased email and a hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (_ *models.User, err error) {
	defer func() { observe(s.metrics, "register", err) }()

	if name == "" || email == "" || password == "" {
		return nil, ValidationError(msgFillAllFields)
	}
	if !govalidator.IsEmail(email) {
		return nil, ValidationError(msgInvalidEmail)
	}
	if err := s.policy.Validate(ctx, password); err != nil {
		return nil, ValidationError(err.Error())
	}

	email = normalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, ServerError(err)
	}
	if existing != nil {
		return nil, ConflictError(msgEmailExists)
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, ServerError(err)
	}

	user := &models.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ConflictError(msgEmailExists)
		}
		return nil, ServerError(err)
	}

	commons.Logger.Infof("User registered: id=%s", user.ID)
	return user, nil
}

// Login returns the user when email and password match. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (_ *models.User, err error) {
	defer func() { observe(s.metrics, "login", err) }()

	if email == "" || password == "" {
		return nil, ValidationError(msgLoginMissing)
	}
	if !govalidator.IsEmail(email) {
		return nil, ValidationError(msgInvalidEmail)
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, ServerError(err)
	}
	if user == nil {
		return nil, AuthError(msgInvalidCredentials)
	}

	if err := s.hasher.VerifyPassword(password, user.Password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return nil, AuthError(msgInvalidCredentials)
		}
		return nil, ServerError(err)
	}
	return user, nil
}

// ForgotPassword replaces the user's codes with a fresh one and mails it to
// the address as submitted. The stored code is kept if the mail fails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (err error) {
	defer func() { observe(s.metrics, "forgot_password", err) }()

	if email == "" {
		return ValidationError(msgForgotMissing)
	}
	if !govalidator.IsEmail(email) {
		return ValidationError(msgInvalidEmail)
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return ServerError(err)
	}
	if user == nil {
		return NotFoundError(msgNoUserForEmail)
	}

	// Not atomic: concurrent requests for one user may each leave a code.
	if err := s.codes.DeleteAllForUser(ctx, user.ID); err != nil {
		return ServerError(err)
	}
	code, err := s.generateOTP()
	if err != nil {
		return ServerError(err)
	}
	if err := s.codes.Create(ctx, user.ID, code); err != nil {
		return ServerError(err)
	}

	msg := notifications.Message{
		From:    s.senderEmail,
		To:      email,
		Subject: otpSubject,
		Text:    fmt.Sprintf("Your OTP for password reset is %s", code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return ServerError(err)
	}

	commons.Logger.Infof("Password reset code issued: user=%s", user.ID)
	return nil
}

// VerifyOTP checks that otp is a stored code of userID. The code is left in
// place.
func (s *AuthService) VerifyOTP(ctx context.Context, userID, otp string) (err error) {
	defer func() { observe(s.metrics, "verify_otp", err) }()

	if otp == "" {
		return ValidationError(msgVerifyMissing)
	}

	record, err := s.codes.FindByUserAndCode(ctx, userID, otp)
	if err != nil {
		return ServerError(err)
	}
	if record == nil {
		return AuthError(msgInvalidOTP)
	}
	return nil
}

// SetNewPassword overwrites the password of userID. It does not require a
// prior VerifyOTP.
func (s *AuthService) SetNewPassword(ctx context.Context, userID, password, confirmPassword string) (err error) {
	defer func() { observe(s.metrics, "set_new_password", err) }()

	if userID == "" || password == "" || confirmPassword == "" {
		return ValidationError(msgResetMissing)
	}
	if err := s.policy.Validate(ctx, password); err != nil {
		return ValidationError(err.Error())
	}
	if password != confirmPassword {
		return ValidationError(msgPasswordsDiffer)
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return ServerError(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return ServerError(err)
	}
	if user == nil {
		return NotFoundError(msgUserNotFound)
	}

	user.Password = hash
	if err := s.users.Save(ctx, user); err != nil {
		return ServerError(err)
	}

	commons.Logger.Infof("Password updated: user=%s", user.ID)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(email)
}

func observe(m *metrics.Metrics, operation string, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = KindOf(err).String()
	}
	m.ObserveOperation(operation, outcome)
}
