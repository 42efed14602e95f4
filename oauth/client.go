// Package oauth talks to the remote authorization server: the two token
// grants of the Authorization Code flow and the bearer-authenticated
// user info endpoint.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/internal/errors"
)

const (
	tokenEndpoint    = "/v0/oauth/token"
	userInfoEndpoint = "/v0/users/info"
)

// Client performs token exchanges against a single authorization server.
// Construct one per provider; all provider identity comes from the
// config, never from package state.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// New creates a Client for the configured authorization server. The
// HTTP client carries a bounded timeout so an unresponsive server fails
// the request instead of hanging it.
func New(cfg config.OAuthConfig) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(cfg.GetOAuthURL(), "/"),
		clientID:     cfg.GetClientID(),
		clientSecret: cfg.GetClientSecret(),
		httpClient:   &http.Client{Timeout: timeoutOrDefault(cfg.GetExchangeTimeout())},
	}
}

// Exchange performs a token grant. credential is the authorization code
// for GrantAuthorizationCode and the refresh token for GrantRefreshToken.
// Network failures map to ErrUnreachable; anything the server answers
// that is not a parseable success maps to ErrRemoteRejected. Retrying is
// the caller's decision - Exchange never retries.
func (c *Client) Exchange(ctx context.Context, grant GrantType, credential string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", string(grant))
	switch grant {
	case GrantAuthorizationCode:
		form.Set("authorization_code", credential)
	case GrantRefreshToken:
		form.Set("refresh_token", credential)
	default:
		return TokenResponse{}, fmt.Errorf("[oauth Exchange] unsupported grant type %q", grant)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("[oauth Exchange] build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, errors.Wrapf(errors.ErrUnreachable, "[oauth Exchange] %s grant", grant)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return TokenResponse{}, errors.Wrapf(errors.ErrRemoteRejected, "[oauth Exchange] %s grant returned %d", grant, resp.StatusCode)
	}

	var tokenResponse TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return TokenResponse{}, errors.Wrapf(errors.ErrRemoteRejected, "[oauth Exchange] unparseable %s grant response", grant)
	}
	if !tokenResponse.Success {
		return TokenResponse{}, errors.Wrapf(errors.ErrRemoteRejected, "[oauth Exchange] %s grant not successful", grant)
	}

	return tokenResponse, nil
}

// UserInfo fetches the subject's profile with a live access token.
func (c *Client) UserInfo(ctx context.Context, username, accessToken string) (UserInfoResponse, error) {
	endpoint := fmt.Sprintf("%s%s?username=%s", c.baseURL, userInfoEndpoint, url.QueryEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return UserInfoResponse{}, fmt.Errorf("[oauth UserInfo] build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UserInfoResponse{}, errors.Wrapf(errors.ErrUnreachable, "[oauth UserInfo]")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UserInfoResponse{}, errors.Wrapf(errors.ErrRemoteRejected, "[oauth UserInfo] returned %d", resp.StatusCode)
	}

	var userInfo UserInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return UserInfoResponse{}, errors.Wrapf(errors.ErrRemoteRejected, "[oauth UserInfo] unparseable response")
	}
	return userInfo, nil
}

// LoginURL builds the browser redirect that starts the Authorization
// Code flow at the remote server.
func (c *Client) LoginURL(state string) string {
	return fmt.Sprintf("%s/login?client_id=%s&state=%s", c.baseURL, url.QueryEscape(c.clientID), url.QueryEscape(state))
}

// ProfileURL is the remote server's account page, used when a login
// request arrives from an already-authenticated browser.
func (c *Client) ProfileURL() string {
	return c.baseURL + "/user"
}

// timeoutOrDefault guards against a zero timeout from a hand-built
// config in tests.
func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
