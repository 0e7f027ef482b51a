// Package payout reads the payout accounts project owners store with the
// crowdfunding finance component.
//
// The IBAN of a payout is sealed with a key derived from the site secret.
package payout

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyIterations = 4096
	keyLength     = 32
	saltLength    = 16
)

var (
	// ErrNoSecret is returned when sealing or opening without a secret
	ErrNoSecret = errors.New("no secret configured")
	// ErrSealedValue is returned when a sealed value cannot be opened
	ErrSealedValue = errors.New("invalid sealed value")
)

// Payout is the account a project owner wants to be paid out to
type Payout struct {
	ID          int64
	ProjectID   int64
	IBAN        string
	BankAccount string
}

// HasIBAN returns true if the payout carries an IBAN
func (p Payout) HasIBAN() bool {
	return strings.TrimSpace(p.IBAN) != ""
}

func deriveKey(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, keyIterations, keyLength, sha256.New)
}

// Seal encrypts the given plain text with a key derived from secret
//
// The result is base64(salt|nonce|ciphertext).
func Seal(secret, plain string) (string, error) {
	return seal(rand.Reader, secret, plain)
}

func seal(r io.Reader, secret, plain string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(r, salt); err != nil {
		return "", err
	}
	gcm, err := newGCM(secret, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(r, nonce); err != nil {
		return "", err
	}
	out := make([]byte, 0, len(salt)+len(nonce)+len(plain)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a value created with Seal
func Open(secret, sealed string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrSealedValue
	}
	if len(raw) < saltLength {
		return "", ErrSealedValue
	}
	gcm, err := newGCM(secret, raw[:saltLength])
	if err != nil {
		return "", err
	}
	raw = raw[saltLength:]
	if len(raw) < gcm.NonceSize() {
		return "", ErrSealedValue
	}
	plain, err := gcm.Open(nil, raw[:gcm.NonceSize()], raw[gcm.NonceSize():], nil)
	if err != nil {
		return "", ErrSealedValue
	}
	return string(plain), nil
}

func newGCM(secret string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey(secret, salt))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
