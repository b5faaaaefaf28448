// Package crypto seals short secrets, such as the AI provider key, with
// AES-256-GCM before they are written to the settings table.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

var (
	ErrInvalidKeySize     = errors.New("encryption key must be 32 bytes for AES-256")
	ErrEmptySecret        = errors.New("encryption secret is empty")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrDecryptionFailed   = errors.New("decryption failed: authentication error")
)

var (
	hkdfSalt = []byte("aitafsir-credentials-v1")
	hkdfInfo = []byte("settings-encryption")
)

type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor builds an Encryptor from a raw 32-byte key.
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Encryptor{aead: aead}, nil
}

// NewEncryptorFromSecret accepts either a base64-encoded 32-byte key or an
// arbitrary passphrase, which is stretched to a key with HKDF-SHA256.
func NewEncryptorFromSecret(secret string) (*Encryptor, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if key, err := base64.StdEncoding.DecodeString(secret); err == nil && len(key) == KeySize {
		return NewEncryptor(key)
	}
	key, err := DeriveKey([]byte(secret))
	if err != nil {
		return nil, err
	}
	return NewEncryptor(key)
}

// DeriveKey expands secret into a 32-byte key.
func DeriveKey(secret []byte) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, hkdfSalt, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext). An empty
// plaintext seals to an empty string.
func (e *Encryptor) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func (e *Encryptor) Open(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	n := e.aead.NonceSize()
	if len(raw) < n {
		return "", ErrCiphertextTooShort
	}
	plaintext, err := e.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// GenerateKey returns a new random key, base64-encoded.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
