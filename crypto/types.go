// SPDX-License-Identifier: GPL-3.0-only

package crypto

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

type Crypto struct {
	Algorithm    string
	BcryptCost   int
	ArgonTime    uint32
	ArgonMemory  uint32
	ArgonThreads uint8
	ArgonKeyLen  uint32
	ArgonSaltLen uint32
}
