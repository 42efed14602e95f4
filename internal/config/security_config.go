package config

import (
	"encoding/hex"
	"fmt"
)

type SecurityConfig interface {
	GetEncryptionKey() ([]byte, error)
	GetAPIKey() string
}

const (
	encryptionKeyVar = "ENCRYPTION_KEY"
	apiKeyVar        = "API_KEY"
)

type Security struct{}

var _ SecurityConfig = Security{}

// GetEncryptionKey decodes the hex encoded 256-bit key used to encrypt
// session credentials at rest.
func (Security) GetEncryptionKey() ([]byte, error) {
	key, err := hex.DecodeString(GetEnv(encryptionKeyVar, ""))
	if err != nil {
		return nil, fmt.Errorf("key must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// GetAPIKey returns the shared secret guarding the /internal routes.
// The internal scope is disabled when empty.
func (Security) GetAPIKey() string {
	return GetEnv(apiKeyVar, "")
}
