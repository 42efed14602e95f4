// Package encryption provides the symmetric cipher used to protect
// session credentials at rest. ChaCha20-Poly1305 with a 256-bit key and
// a fresh 96-bit nonce per encryption; the nonce is prepended to the
// sealed bytes and the whole value is hex encoded.
package encryption

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
)

// KeySize is the required key length in bytes (256 bits).
const KeySize = chacha20poly1305.KeySize

type Cipher struct {
	aead cipher.AEAD
}

// New creates a Cipher from a 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("[encryption New] key must be %d bytes, got %d", KeySize, len(key))
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("[encryption New] %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns hex(nonce || ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("[encryption Encrypt] generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Malformed hex, truncated input and failed
// authentication all surface as errors.ErrCrypto - a decrypt failure
// means corruption or tampering and must never be ignored.
func (c *Cipher) Decrypt(ciphertextHex string) (string, error) {
	data, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCrypto, "[encryption Decrypt] decode hex")
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.Wrapf(errors.ErrCrypto, "[encryption Decrypt] ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCrypto, "[encryption Decrypt] open")
	}
	return string(plaintext), nil
}
