// SPDX-License-Identifier: GPL-3.0-only

package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"authrelay-server/commons"
	"authrelay-server/config"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password verification failed")

const (
	otpMin = 100000
	otpMax = 999999
)

func NewCrypto(cfg *config.Config) *Crypto {
	return &Crypto{
		Algorithm:    cfg.PasswordHasher,
		BcryptCost:   cfg.BcryptCost,
		ArgonTime:    cfg.Argon2Time,
		ArgonMemory:  cfg.Argon2Memory,
		ArgonThreads: cfg.Argon2Threads,
		ArgonKeyLen:  cfg.Argon2KeyLen,
		ArgonSaltLen: cfg.Argon2SaltLen,
	}
}

// HashPassword returns a salted hash using the configured algorithm. Every
// call generates a fresh salt.
func (c *Crypto) HashPassword(password string) (string, error) {
	commons.Logger.Debug("Hashing password with ", c.Algorithm)
	switch c.Algorithm {
	case AlgorithmArgon2id:
		params := &argon2id.Params{
			Memory:      c.ArgonMemory,
			Iterations:  c.ArgonTime,
			Parallelism: c.ArgonThreads,
			SaltLength:  c.ArgonSaltLen,
			KeyLength:   c.ArgonKeyLen,
		}
		return argon2id.CreateHash(password, params)
	case AlgorithmBcrypt, "":
		cost := c.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	default:
		return "", fmt.Errorf("unsupported password hasher: %s", c.Algorithm)
	}
}

// VerifyPassword checks password against encodedHash. The algorithm is taken
// from the hash itself, so hashes written before a PASSWORD_HASHER change
// keep verifying.
func (c *Crypto) VerifyPassword(password, encodedHash string) error {
	commons.Logger.Debug("Verifying password")
	if strings.HasPrefix(encodedHash, "$argon2id$") {
		match, err := argon2id.ComparePasswordAndHash(password, encodedHash)
		if err != nil {
			return err
		}
		if !match {
			return ErrPasswordMismatch
		}
		return nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// GenerateOTP returns a numeric code drawn uniformly from [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}
