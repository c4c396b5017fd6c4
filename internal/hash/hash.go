package hash

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// tokenSeedLength matches the 30-character random seed fed through the hash
// when minting reset tokens.
const tokenSeedLength = 30

const seedAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Hasher is the one-way credential transform. Hashes are opaque; there is no
// decode, only verification against a plaintext candidate.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) bool
}

// Bcrypt implements Hasher on top of golang.org/x/crypto/bcrypt.
type Bcrypt struct{}

// NewBcrypt returns the bcrypt-backed Hasher.
func NewBcrypt() *Bcrypt {
	return &Bcrypt{}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (b *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}

// NewResetToken mints an opaque single-use token by running a random seed
// through the one-way hash. The result is irreversible and non-enumerable; it
// is used purely as a lookup key, never verified against its own structure.
func NewResetToken(h Hasher) (string, error) {
	seed, err := randomSeed(tokenSeedLength)
	if err != nil {
		return "", fmt.Errorf("generate token seed: %w", err)
	}
	token, err := h.Hash(seed)
	if err != nil {
		return "", fmt.Errorf("hash token seed: %w", err)
	}
	return token, nil
}

func randomSeed(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = seedAlphabet[int(b)%len(seedAlphabet)]
	}
	return string(buf), nil
}
