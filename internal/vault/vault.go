// Package vault seals short text fields with a passphrase-derived key.
package vault

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// Prefix marks a sealed value so plaintext rows written before encryption was
// enabled can still be read.
const Prefix = "enc:v1:"

const (
	saltSize  = 16
	keySize   = 32
	nonceSize = 24

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var (
	ErrDecrypt      = errors.New("failed to decrypt journal text")
	ErrEmptyPhrase  = errors.New("passphrase cannot be empty")
	ErrSaltEncoding = errors.New("invalid salt encoding")
)

// Vault holds a derived key.
type Vault struct {
	key [keySize]byte
}

// NewSalt returns a random base64-encoded salt suitable for storing in settings.
func NewSalt() (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// New derives a key from passphrase and a base64 salt with argon2id.
func New(passphrase, salt string) (*Vault, error) {
	if passphrase == "" {
		return nil, ErrEmptyPhrase
	}
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil || len(rawSalt) == 0 {
		return nil, ErrSaltEncoding
	}

	v := &Vault{}
	copy(v.key[:], argon2.IDKey([]byte(passphrase), rawSalt, argonTime, argonMemory, argonThreads, keySize))
	return v, nil
}

// IsSealed reports whether value was produced by Seal.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Seal encrypts plaintext. Empty strings stay empty.
func (v *Vault) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &v.key)
	return Prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a sealed value. Values without the prefix are returned unchanged.
func (v *Vault) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	out, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &v.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(out), nil
}
