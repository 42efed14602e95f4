// Package identity is the local identity binding: which subject, if
// any, the incoming request belongs to. It is an injected capability so
// the auth flow can be exercised without a real browser or HTTP stack.
package identity

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-oauth-client/encryption"
)

const (
	// identityCookieName is the cookie carrying the sealed subject id
	identityCookieName = "identity"

	// defaultMaxAge keeps the binding for three days, matching the login
	// deadline the session records outlive anyway.
	defaultMaxAge = 3 * 24 * 60 * 60
)

// Provider resolves, binds and unbinds the subject identifier of a
// request.
type Provider interface {
	// Current returns the bound subject id, or false when the request is
	// anonymous.
	Current(r *http.Request) (string, bool)

	// Bind attaches the subject id to the response so subsequent requests
	// resolve to it.
	Bind(w http.ResponseWriter, r *http.Request, subject string) error

	// Unbind clears the binding.
	Unbind(w http.ResponseWriter)
}

// CookieProvider seals the subject id with the process cipher into an
// HttpOnly cookie. A cookie that fails to open is treated as anonymous,
// never as an error: a tampered identity cookie earns the attacker
// nothing but a login page.
type CookieProvider struct {
	cipher *encryption.Cipher
	maxAge int
}

var _ Provider = (*CookieProvider)(nil)

// NewCookieProvider creates the cookie-backed identity provider.
func NewCookieProvider(cipher *encryption.Cipher) *CookieProvider {
	return &CookieProvider{cipher: cipher, maxAge: defaultMaxAge}
}

func (p *CookieProvider) Current(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(identityCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	subject, err := p.cipher.Decrypt(cookie.Value)
	if err != nil || subject == "" {
		return "", false
	}
	return subject, true
}

func (p *CookieProvider) Bind(w http.ResponseWriter, r *http.Request, subject string) error {
	sealed, err := p.cipher.Encrypt(subject)
	if err != nil {
		return fmt.Errorf("[identity Bind] seal subject: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     identityCookieName,
		Value:    sealed,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   p.maxAge,
	})
	return nil
}

func (p *CookieProvider) Unbind(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     identityCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
