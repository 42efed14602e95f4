// Package statetoken manages short-lived opaque tokens held in a
// TTL-ranked cache set: CSRF states round-tripped through the
// authorization server, and expiring download links. A token is valid
// iff it is present in the set with a score at or after the current
// wall clock; expiry enforcement is lazy - the comparison happens on
// lookup, no background sweep is required.
package statetoken

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/jrsteele09/go-oauth-client/cache"
	"github.com/jrsteele09/go-oauth-client/internal/errors"
)

// Manager issues and checks tokens in a single named set.
type Manager struct {
	cache    cache.Cache
	set      string
	ttl      time.Duration
	generate func() string
	now      func() time.Time
}

// New creates a Manager for the given set. generate produces new token
// values; CSRF states use RandomToken, download links use uuid.NewString.
func New(c cache.Cache, set string, ttl time.Duration, generate func() string) *Manager {
	return &Manager{
		cache:    c,
		set:      set,
		ttl:      ttl,
		generate: generate,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Issue generates a token and stores it with an expiry score of now+ttl.
func (m *Manager) Issue(ctx context.Context) (string, error) {
	token := m.generate()
	expiry := m.now().Add(m.ttl).Unix()
	if err := m.cache.AddScored(ctx, m.set, token, expiry); err != nil {
		return "", errors.Wrapf(err, "[statetoken Issue] store %q", m.set)
	}
	return token, nil
}

// Consume validates a token and removes it, enforcing single use. The
// removal happens before any downstream work so a replayed token is
// rejected regardless of what the first submission went on to do.
// Absent and expired tokens both return ErrInvalidOrExpiredState so a
// caller cannot probe which of the two it was.
//
// The score check and the removal are two cache calls, not one atomic
// operation. The window only matters for a concurrent double submit of
// the same unguessable token, which is benign.
func (m *Manager) Consume(ctx context.Context, token string) error {
	if err := m.check(ctx, token); err != nil {
		return err
	}
	if err := m.cache.Remove(ctx, m.set, token); err != nil {
		return errors.Wrapf(err, "[statetoken Consume] remove from %q", m.set)
	}
	return nil
}

// Validate checks a token without consuming it. Download links stay
// usable until their TTL runs out.
func (m *Manager) Validate(ctx context.Context, token string) error {
	return m.check(ctx, token)
}

func (m *Manager) check(ctx context.Context, token string) error {
	if token == "" {
		return errors.ErrInvalidOrExpiredState
	}
	score, ok, err := m.cache.ScoreOf(ctx, m.set, token)
	if err != nil {
		return errors.Wrapf(err, "[statetoken check] score lookup in %q", m.set)
	}
	if !ok || score < m.now().Unix() {
		return errors.ErrInvalidOrExpiredState
	}
	return nil
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomToken creates a random URL-safe alphanumeric token of the given
// length.
func RandomToken(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	for i := range b {
		b[i] = tokenAlphabet[int(b[i])%len(tokenAlphabet)]
	}
	return string(b)
}
