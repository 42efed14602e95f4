package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/oauth"
)

const (
	testClientID     = "portfolio-client"
	testClientSecret = "portfolio-secret"
)

type testOAuthConfig struct {
	url string
}

func (c testOAuthConfig) GetOAuthURL() string               { return c.url }
func (c testOAuthConfig) GetClientID() string               { return testClientID }
func (c testOAuthConfig) GetClientSecret() string           { return testClientSecret }
func (c testOAuthConfig) GetStateTTL() time.Duration        { return 5 * time.Minute }
func (c testOAuthConfig) GetStateLength() int               { return 32 }
func (c testOAuthConfig) GetExchangeTimeout() time.Duration { return 2 * time.Second }

func TestClient_ExchangeAuthorizationCode(t *testing.T) {
	var gotGrantType, gotCode, gotContentType string
	var gotUser, gotPass string
	var gotBasicAuth bool

	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v0/oauth/token", r.URL.Path)

		gotUser, gotPass, gotBasicAuth = r.BasicAuth()
		gotContentType = r.Header.Get("Content-Type")

		require.NoError(t, r.ParseForm())
		gotGrantType = r.PostFormValue("grant_type")
		gotCode = r.PostFormValue("authorization_code")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"access_token":"at-1","refresh_token":"rt-1","username":"jdoe","expiry":2000}`))
	}))
	defer idp.Close()

	client := oauth.New(testOAuthConfig{url: idp.URL})

	tokenResponse, err := client.Exchange(context.Background(), oauth.GrantAuthorizationCode, "code-xyz")
	require.NoError(t, err)

	require.Equal(t, "authorization_code", gotGrantType)
	require.Equal(t, "code-xyz", gotCode)
	require.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	require.True(t, gotBasicAuth)
	require.Equal(t, testClientID, gotUser)
	require.Equal(t, testClientSecret, gotPass)

	require.True(t, tokenResponse.Success)
	require.Equal(t, "at-1", tokenResponse.AccessToken)
	require.Equal(t, "rt-1", tokenResponse.RefreshToken)
	require.Equal(t, "jdoe", tokenResponse.Username)
	require.Equal(t, int64(2000), tokenResponse.Expiry)
}

func TestClient_ExchangeRefreshToken(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.PostFormValue("grant_type"))
		require.Equal(t, "rt-old", r.PostFormValue("refresh_token"))
		require.Empty(t, r.PostFormValue("authorization_code"))

		w.Write([]byte(`{"success":true,"access_token":"at-2","refresh_token":"rt-2","username":"jdoe","expiry":3000}`))
	}))
	defer idp.Close()

	client := oauth.New(testOAuthConfig{url: idp.URL})

	tokenResponse, err := client.Exchange(context.Background(), oauth.GrantRefreshToken, "rt-old")
	require.NoError(t, err)
	require.Equal(t, "at-2", tokenResponse.AccessToken)
}

func TestClient_ExchangeRejections(t *testing.T) {
	t.Run("non-2xx response", func(t *testing.T) {
		idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad client", http.StatusUnauthorized)
		}))
		defer idp.Close()

		client := oauth.New(testOAuthConfig{url: idp.URL})
		_, err := client.Exchange(context.Background(), oauth.GrantAuthorizationCode, "code")
		require.ErrorIs(t, err, errors.ErrRemoteRejected)
	})

	t.Run("success false", func(t *testing.T) {
		idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false}`))
		}))
		defer idp.Close()

		client := oauth.New(testOAuthConfig{url: idp.URL})
		_, err := client.Exchange(context.Background(), oauth.GrantAuthorizationCode, "code")
		require.ErrorIs(t, err, errors.ErrRemoteRejected)
	})

	t.Run("unparseable body", func(t *testing.T) {
		idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>so not json</html>`))
		}))
		defer idp.Close()

		client := oauth.New(testOAuthConfig{url: idp.URL})
		_, err := client.Exchange(context.Background(), oauth.GrantAuthorizationCode, "code")
		require.ErrorIs(t, err, errors.ErrRemoteRejected)
	})

	t.Run("unsupported grant", func(t *testing.T) {
		client := oauth.New(testOAuthConfig{url: "http://localhost:0"})
		_, err := client.Exchange(context.Background(), oauth.GrantType("implicit"), "code")
		require.Error(t, err)
		require.NotErrorIs(t, err, errors.ErrRemoteRejected)
	})
}

func TestClient_ExchangeUnreachable(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	idp.Close() // shut down before use

	client := oauth.New(testOAuthConfig{url: idp.URL})
	_, err := client.Exchange(context.Background(), oauth.GrantAuthorizationCode, "code")
	require.ErrorIs(t, err, errors.ErrUnreachable)
}

func TestClient_UserInfo(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v0/users/info", r.URL.Path)
		require.Equal(t, "jdoe", r.URL.Query().Get("username"))
		require.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))

		w.Write([]byte(`{"username":"jdoe","first_name":"John","last_name":"Doe","email":"jdoe@example.com"}`))
	}))
	defer idp.Close()

	client := oauth.New(testOAuthConfig{url: idp.URL})

	userInfo, err := client.UserInfo(context.Background(), "jdoe", "at-1")
	require.NoError(t, err)
	require.Equal(t, "John", userInfo.FirstName)
	require.Equal(t, "jdoe@example.com", userInfo.Email)
}

func TestClient_UserInfoRejected(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired token", http.StatusUnauthorized)
	}))
	defer idp.Close()

	client := oauth.New(testOAuthConfig{url: idp.URL})
	_, err := client.UserInfo(context.Background(), "jdoe", "stale")
	require.ErrorIs(t, err, errors.ErrRemoteRejected)
}

func TestClient_URLBuilders(t *testing.T) {
	client := oauth.New(testOAuthConfig{url: "https://auth.example.com/"})

	require.Equal(t,
		"https://auth.example.com/login?client_id=portfolio-client&state=abc123",
		client.LoginURL("abc123"))
	require.Equal(t, "https://auth.example.com/user", client.ProfileURL())
}
