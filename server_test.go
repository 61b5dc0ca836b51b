// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"authrelay-server/config"
	"authrelay-server/crypto"
	"authrelay-server/metrics"
	"authrelay-server/notifications"
	"authrelay-server/store"
	"authrelay-server/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	e      *echo.Echo
	conn   *gorm.DB
	mailer *notifications.MockMailer
}

func newTestServer(t *testing.T, expose bool) *testServer {
	t.Helper()

	cfg := &config.Config{
		APIPrefix:              "/api",
		PasswordHasher:         crypto.AlgorithmBcrypt,
		BcryptCost:             4,
		PasswordMinLength:      6,
		PasswordRequireUpper:   true,
		PasswordRequireLower:   true,
		PasswordRequireDigit:   true,
		PasswordRequireSpecial: true,
		SenderEmail:            "noreply@authrelay.test",
		ContactRecipient:       "support@authrelay.test",
		ExposeInternalErrors:   expose,
	}
	conn := testutil.OpenDB(t)
	mailer := &notifications.MockMailer{}
	return &testServer{
		e:      newServer(cfg, conn, mailer, metrics.New()),
		conn:   conn,
		mailer: mailer,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (s *testServer) post(t *testing.T, path, body string) (int, map[string]any) {
	return s.do(t, http.MethodPost, path, body)
}

func TestEndToEndPasswordReset(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	code, body := s.post(t, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"Abc123!@"}`)
	require.Equal(t, http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	userID := user["id"].(string)
	assert.NotEmpty(t, userID)
	assert.Equal(t, "Ann", user["name"])
	assert.Equal(t, "ann@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.Contains(t, user, "createdAt")
	assert.Contains(t, user, "updatedAt")

	code, body = s.post(t, "/api/auth/login", `{"email":"ann@x.com","password":"Abc123!@"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, userID, body["user"].(map[string]any)["id"])

	code, body = s.post(t, "/api/auth/login", `{"email":"ann@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, map[string]any{"error": "Invalid email or password"}, body)

	code, body = s.post(t, "/api/auth/forgot-password", `{"email":"ann@x.com"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "OTP sent to your email address", body["message"])

	codes, err := store.NewOTPStore(s.conn).ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, codes, 1)

	code, body = s.post(t, "/api/auth/verify-otp", `{"userId":"`+userID+`","otp":"`+codes[0].Code+`"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "OTP verified successfully", body["message"])

	code, body = s.post(t, "/api/auth/set-new-password",
		`{"userId":"`+userID+`","password":"New123!@","confirm_password":"New123!@"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Password updated successfully", body["message"])

	code, body = s.post(t, "/api/auth/login", `{"email":"ann@x.com","password":"New123!@"}`)
	require.Equal(t, http.StatusOK, code, body)
}

func TestStatusMapping(t *testing.T) {
	s := newTestServer(t, true)

	code, _ := s.post(t, "/api/auth/register", `{"name":"Ann","email":"ann@x.com","password":"Abc123!@"}`)
	require.Equal(t, http.StatusCreated, code)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		error  string
	}{
		{"register missing fields", "/api/auth/register", `{"name":"Ann"}`, 400, "Please fill all the fields"},
		{"register duplicate", "/api/auth/register", `{"name":"Ann","email":"ANN@x.com","password":"Abc123!@"}`, 400, "Email already exists"},
		{"login unknown email", "/api/auth/login", `{"email":"bob@x.com","password":"Abc123!@"}`, 401, "Invalid email or password"},
		{"forgot unknown email", "/api/auth/forgot-password", `{"email":"bob@x.com"}`, 404, "No user found with this email address"},
		{"verify missing otp", "/api/auth/verify-otp", `{"userId":"x"}`, 400, "Please provide user ID and OTP"},
		{"verify wrong otp", "/api/auth/verify-otp", `{"userId":"x","otp":"123456"}`, 400, "Invalid OTP"},
		{"set mismatch", "/api/auth/set-new-password", `{"userId":"x","password":"New123!@","confirm_password":"Other1!@"}`, 400, "Passwords do not match"},
		{"set unknown user", "/api/auth/set-new-password", `{"userId":"x","password":"New123!@","confirm_password":"New123!@"}`, 404, "User not found"},
		{"contact bad email", "/api/contact-us", `{"name":"Bob","subject":"Hi","email":"bob","description":"x"}`, 400, "Please enter a valid email address"},
		{"malformed json", "/api/auth/login", `{"email":`, 400, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := s.post(t, tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			assert.Equal(t, map[string]any{"error": tt.error}, body)
		})
	}
}

func TestContactUsRelaysMail(t *testing.T) {
	s := newTestServer(t, true)

	code, body := s.post(t, "/api/contact-us", `{"name":"Bob","subject":"Hi","email":"bob@x.com","description":"Hello there"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Your message has been sent successfully", body["message"])

	msg, ok := s.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, "support@authrelay.test", msg.To)
	assert.Equal(t, "Contact Us Form Submission: Hi", msg.Subject)
}

func TestServerErrorMessages(t *testing.T) {
	for _, expose := range []bool{true, false} {
		s := newTestServer(t, expose)
		s.mailer.Err = errors.New("smtp: connection refused")

		code, body := s.post(t, "/api/contact-us", `{"name":"Bob","subject":"Hi","email":"bob@x.com","description":"x"}`)
		assert.Equal(t, http.StatusInternalServerError, code)
		if expose {
			assert.Equal(t, "smtp: connection refused", body["error"])
		} else {
			assert.Equal(t, "Internal server error", body["error"])
		}
	}
}

func TestUnknownRouteAndProbes(t *testing.T) {
	s := newTestServer(t, true)

	code, body := s.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "error")

	code, body = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	s.post(t, "/api/auth/login", `{"email":"","password":""}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `authrelay_auth_operations_total{operation="login",outcome="validation"} 1`)
	assert.Contains(t, rec.Body.String(), `authrelay_http_requests_total{method="POST",route="/api/auth/login",status="400"} 1`)
}
