// Package cryptox wraps the primitives mapkeeper needs: argon2id password
// secrets and AES-GCM sealing of snapshot documents sent to a mirror.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize   = 16
	keySize    = 32
	secretTag  = "argon2id"
	argonTime  = 1
	argonMem   = 64 * 1024
	argonLanes = 4
)

var (
	ErrMalformedSecret = errors.New("malformed password secret")
	ErrSealedTooShort  = errors.New("sealed data too short")
)

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMem, argonLanes, keySize)
}

// HashSecret derives a salted argon2id secret for password and encodes it as
// "argon2id$<salt>$<key>" with unpadded base64 parts.
func HashSecret(password string) string {
	salt := common.GenerateRandByteArray(saltSize)
	key := deriveKey([]byte(password), salt)
	enc := base64.RawStdEncoding
	return secretTag + "$" + enc.EncodeToString(salt) + "$" + enc.EncodeToString(key)
}

// VerifySecret reports whether password matches a secret produced by
// HashSecret. The comparison runs in constant time.
func VerifySecret(secret, password string) (bool, error) {
	parts := strings.Split(secret, "$")
	if len(parts) != 3 || parts[0] != secretTag {
		return false, ErrMalformedSecret
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedSecret, err)
	}
	want, err := enc.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedSecret, err)
	}

	got := deriveKey([]byte(password), salt)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under key (16, 24 or 32 bytes). The
// random nonce is prepended to the returned ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	n := aesgcm.NonceSize()
	if len(sealed) < n {
		return nil, ErrSealedTooShort
	}

	return aesgcm.Open(nil, sealed[:n], sealed[n:], nil)
}
