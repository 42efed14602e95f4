package config

import "time"

type OAuthConfig interface {
	GetOAuthURL() string
	GetClientID() string
	GetClientSecret() string
	GetStateTTL() time.Duration
	GetStateLength() int
	GetExchangeTimeout() time.Duration
}

const (
	oauthURLVar     = "OAUTH_URL"
	clientIDVar     = "CLIENT_ID"
	clientSecretVar = "CLIENT_SECRET"
)

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetOAuthURL returns the base URL of the remote authorization server,
// e.g. "https://auth.example.com"
func (OAuth) GetOAuthURL() string {
	return GetEnv(oauthURLVar, "")
}

func (OAuth) GetClientID() string {
	return GetEnv(clientIDVar, "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

func (OAuth) GetStateTTL() time.Duration {
	return 5 * time.Minute
}

func (OAuth) GetStateLength() int {
	return 32
}

// GetExchangeTimeout bounds the outbound token exchange call so an
// unresponsive authorization server cannot hang request handling.
func (OAuth) GetExchangeTimeout() time.Duration {
	return 10 * time.Second
}
