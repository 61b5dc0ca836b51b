// SPDX-License-Identifier: GPL-3.0-only

package passwordcheck

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"authrelay-server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPolicy() *Policy {
	return NewPolicy(&config.Config{
		PasswordMinLength:      6,
		PasswordRequireUpper:   true,
		PasswordRequireLower:   true,
		PasswordRequireDigit:   true,
		PasswordRequireSpecial: true,
	})
}

func TestRequirement(t *testing.T) {
	assert.Equal(t,
		"Password must be at least 6 characters with uppercase, lowercase, number, and special characters",
		defaultPolicy().Requirement())

	assert.Equal(t, "Password must be at least 8 characters", (&Policy{MinLength: 8}).Requirement())
	assert.Equal(t, "Password must be at least 8 characters with number",
		(&Policy{MinLength: 8, RequireDigit: true}).Requirement())
	assert.Equal(t, "Password must be at least 8 characters with uppercase, and number",
		(&Policy{MinLength: 8, RequireUpper: true, RequireDigit: true}).Requirement())
}

func TestValidate_DefaultPolicy(t *testing.T) {
	policy := defaultPolicy()
	ctx := context.Background()

	valid := []string{"Abc123!@", "aB3$xy", "Pässw0rd!"}
	for _, pw := range valid {
		assert.NoError(t, policy.Validate(ctx, pw), "password %q", pw)
	}

	invalid := []string{
		"",
		"Ab1!",     // too short
		"abc123!@", // no uppercase
		"ABC123!@", // no lowercase
		"Abcdef!@", // no digit
		"Abc12345", // no special
	}
	for _, pw := range invalid {
		err := policy.Validate(ctx, pw)
		require.Error(t, err, "password %q", pw)
		assert.Equal(t, policy.Requirement(), err.Error())
	}
}

func TestValidate_RelaxedPolicy(t *testing.T) {
	policy := &Policy{MinLength: 4}
	assert.NoError(t, policy.Validate(context.Background(), "word"))
	assert.Error(t, policy.Validate(context.Background(), "abc"))
}

func TestValidate_Pwned(t *testing.T) {
	pwned := "Abc123!@"
	sum := sha1.Sum([]byte(pwned))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprintf(w, "0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n%s:42\r\n", hash[5:])
	}))
	t.Cleanup(srv.Close)

	policy := defaultPolicy()
	policy.PwnedEnabled = true
	policy.PwnedURL = srv.URL + "/range/"
	policy.HTTPClient = srv.Client()

	err := policy.Validate(context.Background(), pwned)
	assert.ErrorIs(t, err, ErrPwned)
	assert.Equal(t, "/range/"+hash[:5], gotPath)

	assert.NoError(t, policy.Validate(context.Background(), "Zz9#unique-enough"))
}

func TestValidate_PwnedLookupFailureIsIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	policy := defaultPolicy()
	policy.PwnedEnabled = true
	policy.PwnedURL = srv.URL
	policy.HTTPClient = srv.Client()

	assert.NoError(t, policy.Validate(context.Background(), "Abc123!@"))
}
