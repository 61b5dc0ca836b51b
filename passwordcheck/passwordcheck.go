// SPDX-License-Identifier: GPL-3.0-only

package passwordcheck

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"authrelay-server/commons"
	"authrelay-server/config"
)

var ErrPwned = errors.New("password has been found in data breaches (pwned); choose a different one")

// Policy describes which character classes a password needs. The zero value
// only enforces a minimum length of zero, so build it with NewPolicy.
type Policy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool

	PwnedEnabled bool
	PwnedURL     string
	HTTPClient   *http.Client
}

func NewPolicy(cfg *config.Config) *Policy {
	return &Policy{
		MinLength:      cfg.PasswordMinLength,
		RequireUpper:   cfg.PasswordRequireUpper,
		RequireLower:   cfg.PasswordRequireLower,
		RequireDigit:   cfg.PasswordRequireDigit,
		RequireSpecial: cfg.PasswordRequireSpecial,
		PwnedEnabled:   cfg.PwnedPasswordsEnabled,
		PwnedURL:       cfg.PwnedPasswordsURL,
		HTTPClient:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Requirement renders the policy as a single user-facing sentence.
func (p *Policy) Requirement() string {
	var classes []string
	if p.RequireUpper {
		classes = append(classes, "uppercase")
	}
	if p.RequireLower {
		classes = append(classes, "lowercase")
	}
	if p.RequireDigit {
		classes = append(classes, "number")
	}
	if p.RequireSpecial {
		classes = append(classes, "special characters")
	}

	msg := fmt.Sprintf("Password must be at least %d characters", p.MinLength)
	switch len(classes) {
	case 0:
		return msg
	case 1:
		return msg + " with " + classes[0]
	default:
		return msg + " with " + strings.Join(classes[:len(classes)-1], ", ") + ", and " + classes[len(classes)-1]
	}
}

// Validate returns a user-facing error when password does not satisfy the
// policy. A failing pwned-password lookup is logged and ignored.
func (p *Policy) Validate(ctx context.Context, password string) error {
	if len([]rune(password)) < p.MinLength ||
		(p.RequireUpper && !hasUppercase(password)) ||
		(p.RequireLower && !hasLowercase(password)) ||
		(p.RequireDigit && !hasDigit(password)) ||
		(p.RequireSpecial && !hasSpecialChar(password)) {
		return errors.New(p.Requirement())
	}

	if p.PwnedEnabled {
		pwned, err := p.checkPasswordPwned(ctx, password)
		if err != nil {
			commons.Logger.Error("Error checking pwned passwords: ", err)
		}
		if pwned {
			return ErrPwned
		}
	}

	return nil
}

func (p *Policy) checkPasswordPwned(ctx context.Context, password string) (bool, error) {
	hasher := sha1.New()
	hasher.Write([]byte(password))
	hash := strings.ToUpper(hex.EncodeToString(hasher.Sum(nil)))

	prefix, suffix := hash[:5], hash[5:]
	url := strings.TrimRight(p.PwnedURL, "/") + "/" + prefix

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("HIBP API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("HIBP API returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read HIBP response: %w", err)
	}

	for _, line := range strings.Split(string(body), "\n") {
		if parts := strings.Split(line, ":"); len(parts) == 2 {
			if strings.TrimSpace(parts[0]) == suffix {
				return true, nil
			}
		}
	}
	return false, nil
}

func hasUppercase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasSpecialChar(s string) bool {
	for _, r := range s {
		if unicode.IsSymbol(r) || unicode.IsPunct(r) || r == ' ' {
			return true
		}
	}
	return false
}
