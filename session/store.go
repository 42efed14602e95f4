// Package session persists one encrypted session record per
// authenticated subject in the shared cache.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oauth-client/cache"
	"github.com/jrsteele09/go-oauth-client/encryption"
	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/oauth"
)

const keyPrefix = "session:"

// TokenExchanger is the slice of the oauth client the store needs to
// refresh a stale session.
type TokenExchanger interface {
	Exchange(ctx context.Context, grant oauth.GrantType, credential string) (oauth.TokenResponse, error)
}

// Store reads and writes session records. Writes are last-writer-wins:
// refresh is only ever performed on behalf of the session's own
// requests, so a concurrent double refresh overwrites one valid record
// with another and needs no locking.
type Store struct {
	cache  cache.Cache
	cipher *encryption.Cipher
	tokens TokenExchanger
	now    func() time.Time
}

// NewStore creates a session store over the shared cache.
func NewStore(c cache.Cache, cipher *encryption.Cipher, tokens TokenExchanger) *Store {
	return &Store{
		cache:  c,
		cipher: cipher,
		tokens: tokens,
		now:    time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Save converts a token response into a session record, encrypting both
// tokens, and overwrites whatever record the subject had before.
func (s *Store) Save(ctx context.Context, tokenResponse oauth.TokenResponse) error {
	data, err := s.seal(tokenResponse)
	if err != nil {
		return err
	}

	serialized, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "[session Save] marshal record")
	}
	if err := s.cache.Set(ctx, keyPrefix+data.Username, string(serialized)); err != nil {
		return errors.Wrapf(err, "[session Save] write record")
	}
	return nil
}

// Load returns the subject's session record, refreshing it first when
// the stored access token has expired. A successful Load never hands
// back a token past its expiry: staleness triggers exactly one refresh
// exchange and the refreshed record is persisted before returning.
func (s *Store) Load(ctx context.Context, username string) (Data, error) {
	serialized, ok, err := s.cache.Get(ctx, keyPrefix+username)
	if err != nil {
		return Data{}, errors.Wrapf(err, "[session Load] read record")
	}
	if !ok {
		return Data{}, errors.Wrapf(errors.ErrSessionNotFound, "[session Load] %q", username)
	}

	var data Data
	if err := json.Unmarshal([]byte(serialized), &data); err != nil {
		// An unreadable record is corruption; discard it and force
		// re-authentication rather than pretending nothing was stored.
		s.discard(ctx, username)
		return Data{}, errors.Wrapf(errors.ErrCrypto, "[session Load] corrupt record for %q", username)
	}

	if data.Expiry > s.now().Unix() {
		return data, nil
	}

	return s.refresh(ctx, username, data)
}

// refresh trades the stored refresh token for a new token pair and
// persists the result before returning it.
func (s *Store) refresh(ctx context.Context, username string, stale Data) (Data, error) {
	refreshToken, err := s.cipher.Decrypt(stale.RefreshToken)
	if err != nil {
		// Tampered or corrupt ciphertext is fatal for the session.
		s.discard(ctx, username)
		return Data{}, errors.Wrapf(err, "[session refresh] refresh token for %q", username)
	}

	tokenResponse, err := s.tokens.Exchange(ctx, oauth.GrantRefreshToken, refreshToken)
	if err != nil {
		return Data{}, errors.Wrapf(err, "[session refresh] exchange for %q", username)
	}

	fresh, err := s.seal(tokenResponse)
	if err != nil {
		return Data{}, err
	}
	serialized, err := json.Marshal(fresh)
	if err != nil {
		return Data{}, errors.Wrapf(err, "[session refresh] marshal record")
	}
	if err := s.cache.Set(ctx, keyPrefix+fresh.Username, string(serialized)); err != nil {
		return Data{}, errors.Wrapf(err, "[session refresh] write record")
	}

	log.Debug().Str("username", username).Msg("session refreshed")
	return fresh, nil
}

// AccessToken decrypts the record's access token. Decryption stays lazy:
// nothing is decrypted until a caller actually needs the plaintext.
func (s *Store) AccessToken(data Data) (string, error) {
	token, err := s.cipher.Decrypt(data.AccessToken)
	if err != nil {
		return "", errors.Wrapf(err, "[session AccessToken] %q", data.Username)
	}
	return token, nil
}

// RefreshToken decrypts the record's refresh token.
func (s *Store) RefreshToken(data Data) (string, error) {
	token, err := s.cipher.Decrypt(data.RefreshToken)
	if err != nil {
		return "", errors.Wrapf(err, "[session RefreshToken] %q", data.Username)
	}
	return token, nil
}

// Delete removes the subject's record.
func (s *Store) Delete(ctx context.Context, username string) error {
	if err := s.cache.Delete(ctx, keyPrefix+username); err != nil {
		return errors.Wrapf(err, "[session Delete] %q", username)
	}
	return nil
}

func (s *Store) seal(tokenResponse oauth.TokenResponse) (Data, error) {
	encryptedAccess, err := s.cipher.Encrypt(tokenResponse.AccessToken)
	if err != nil {
		return Data{}, errors.Wrapf(err, "[session seal] access token")
	}
	encryptedRefresh, err := s.cipher.Encrypt(tokenResponse.RefreshToken)
	if err != nil {
		return Data{}, errors.Wrapf(err, "[session seal] refresh token")
	}
	return Data{
		Username:     tokenResponse.Username,
		AccessToken:  encryptedAccess,
		RefreshToken: encryptedRefresh,
		Expiry:       tokenResponse.Expiry,
	}, nil
}

func (s *Store) discard(ctx context.Context, username string) {
	if err := s.cache.Delete(ctx, keyPrefix+username); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("failed to discard corrupt session record")
	}
}
