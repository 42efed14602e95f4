package errors

import (
	"errors"
	"fmt"
)

// Common error types for the OAuth2 client
var (
	// CSRF state errors. Absent and expired states deliberately share one
	// sentinel so callers cannot distinguish the two cases.
	ErrInvalidOrExpiredState = errors.New("invalid or expired state")

	// Token exchange errors
	ErrRemoteRejected = errors.New("authorization server rejected the request")
	ErrUnreachable    = errors.New("authorization server unreachable")

	// Crypto errors. Raised when ciphertext is malformed or fails
	// authentication - indicates corruption or tampering, never ignorable.
	ErrCrypto = errors.New("decryption failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
