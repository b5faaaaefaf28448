// Package tokenstore keeps the AI provider key encrypted at rest in the
// settings table.
package tokenstore

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/aitafsir/internal/crypto"
	"github.com/mrlokans/aitafsir/internal/entities"
)

const (
	// EnvEncryptionKey is the environment variable for the encryption key
	EnvEncryptionKey = "CREDENTIALS_ENCRYPTION_KEY"

	// DefaultKeyFileName is the default name for the key file
	DefaultKeyFileName = ".aitafsir-key"
)

var ErrEmptyAPIKey = errors.New("api key is empty")

// KV is the settings backend the sealed key is stored in.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

type TokenStore struct {
	kv        KV
	encryptor *crypto.Encryptor
}

type Config struct {
	// EncryptionKey is a base64 32-byte key or a passphrase.
	// If empty, will try to load from environment or key file
	EncryptionKey string

	// KeyFilePath is the path to the encryption key file
	// If empty, defaults to ~/.aitafsir-key
	KeyFilePath string
}

func New(kv KV, cfg Config) (*TokenStore, error) {
	secret, err := resolveEncryptionKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve encryption key: %w", err)
	}

	encryptor, err := crypto.NewEncryptorFromSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}

	return &TokenStore{kv: kv, encryptor: encryptor}, nil
}

// resolveEncryptionKey picks the first of: explicit config, environment,
// existing key file, newly generated key file.
func resolveEncryptionKey(cfg Config) (string, error) {
	if cfg.EncryptionKey != "" {
		return cfg.EncryptionKey, nil
	}

	if envKey := os.Getenv(EnvEncryptionKey); envKey != "" {
		return envKey, nil
	}

	keyFilePath := cfg.KeyFilePath
	if keyFilePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		keyFilePath = filepath.Join(homeDir, DefaultKeyFileName)
	}

	if data, err := os.ReadFile(keyFilePath); err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, nil
		}
	}

	newKey, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate encryption key: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newKey), 0600); err != nil {
		return "", fmt.Errorf("failed to save encryption key to %s: %w", keyFilePath, err)
	}

	log.Printf("Generated new credentials key at %s", keyFilePath)
	return newKey, nil
}

// SaveAPIKey seals and stores key, replacing any previous one.
func (s *TokenStore) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	sealed, err := s.encryptor.Seal(key)
	if err != nil {
		return fmt.Errorf("failed to encrypt api key: %w", err)
	}
	if err := s.kv.Set(entities.SettingKeyAIAPIKey, sealed); err != nil {
		return fmt.Errorf("failed to save api key: %w", err)
	}
	return nil
}

// APIKey returns the stored key. ok is false when none is stored.
func (s *TokenStore) APIKey() (key string, ok bool, err error) {
	sealed, found, err := s.kv.Get(entities.SettingKeyAIAPIKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to load api key: %w", err)
	}
	if !found || sealed == "" {
		return "", false, nil
	}
	key, err = s.encryptor.Open(sealed)
	if err != nil {
		return "", false, fmt.Errorf("failed to decrypt api key: %w", err)
	}
	return key, true, nil
}

func (s *TokenStore) HasAPIKey() bool {
	_, ok, err := s.APIKey()
	return err == nil && ok
}

func (s *TokenStore) ClearAPIKey() error {
	if err := s.kv.Delete(entities.SettingKeyAIAPIKey); err != nil {
		return fmt.Errorf("failed to clear api key: %w", err)
	}
	return nil
}

// SeedAPIKey stores key only when nothing is stored yet. It returns the key
// now in effect.
func (s *TokenStore) SeedAPIKey(key string) (string, error) {
	if stored, ok, err := s.APIKey(); err != nil || ok {
		return stored, err
	}
	if strings.TrimSpace(key) == "" {
		return "", nil
	}
	if err := s.SaveAPIKey(key); err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}
