package server_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginRedirectHandler(t *testing.T) {
	f := setupFixture(t)

	w := f.do(t, http.MethodGet, "/auth/login", nil, nil)
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Result().Header.Get("Location"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(location.String(), f.idp.srv.URL+"/login"))
	require.Equal(t, "portfolio-client", location.Query().Get("client_id"))

	state := location.Query().Get("state")
	require.Len(t, state, 32)

	// The state was stored with a future expiry score.
	score, ok, err := f.cache.ScoreOf(context.Background(), "states", state)
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, score, time.Now().Unix())
	require.LessOrEqual(t, score, time.Now().Add(5*time.Minute).Unix())
}

func TestLoginRedirectHandler_AlreadyAuthenticated(t *testing.T) {
	f := setupFixture(t)
	cookies := f.login(t)

	// An authenticated login request short-circuits to the remote
	// profile page without issuing a new state.
	w := f.do(t, http.MethodGet, "/auth/login", cookies, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, f.idp.srv.URL+"/user", w.Result().Header.Get("Location"))
}

func TestOAuthCallbackHandler_Success(t *testing.T) {
	f := setupFixture(t)

	redirect := f.do(t, http.MethodGet, "/auth/login", nil, nil)
	location, err := url.Parse(redirect.Result().Header.Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")

	w := f.do(t, http.MethodGet, "/auth?code=code-1&state="+url.QueryEscape(state), nil, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Result().Header.Get("Location"))
	require.Equal(t, 1, f.idp.codeExchanges)

	// Identity cookie bound.
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "identity", cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)

	// State consumed: single use.
	_, ok, err := f.cache.ScoreOf(context.Background(), "states", state)
	require.NoError(t, err)
	require.False(t, ok)

	// Session persisted, tokens encrypted at rest.
	record, ok, err := f.cache.Get(context.Background(), "session:"+testUsername)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotContains(t, record, "access-from-code")
	require.NotContains(t, record, "refresh-1")
}

func TestOAuthCallbackHandler_ReplayedStateRejected(t *testing.T) {
	f := setupFixture(t)

	redirect := f.do(t, http.MethodGet, "/auth/login", nil, nil)
	location, err := url.Parse(redirect.Result().Header.Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	target := "/auth?code=code-1&state=" + url.QueryEscape(state)

	first := f.do(t, http.MethodGet, target, nil, nil)
	require.Equal(t, http.StatusFound, first.Code)

	second := f.do(t, http.MethodGet, target, nil, nil)
	require.Equal(t, http.StatusUnauthorized, second.Code)
	require.Equal(t, 1, f.idp.codeExchanges, "replay must not reach the token endpoint")
}

func TestOAuthCallbackHandler_UnknownStateRejected(t *testing.T) {
	f := setupFixture(t)

	w := f.do(t, http.MethodGet, "/auth?code=code-1&state=never-issued", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Zero(t, f.idp.codeExchanges)
	require.Empty(t, w.Result().Cookies())
}

func TestOAuthCallbackHandler_MissingParamsRejected(t *testing.T) {
	f := setupFixture(t)

	require.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/auth", nil, nil).Code)
	require.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/auth?code=code-1", nil, nil).Code)
	require.Zero(t, f.idp.codeExchanges)
}

func TestOAuthCallbackHandler_ExchangeFailureWritesNoSession(t *testing.T) {
	f := setupFixture(t)
	f.idp.failExchange = true

	redirect := f.do(t, http.MethodGet, "/auth/login", nil, nil)
	location, err := url.Parse(redirect.Result().Header.Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")

	w := f.do(t, http.MethodGet, "/auth?code=code-1&state="+url.QueryEscape(state), nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	// Generic body only - remote detail must not leak to the browser.
	require.NotContains(t, w.Body.String(), "server_error")

	// No partial session, no identity.
	_, ok, err := f.cache.Get(context.Background(), "session:"+testUsername)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, w.Result().Cookies())

	// The state was still consumed; retrying requires a fresh redirect.
	_, ok, err = f.cache.ScoreOf(context.Background(), "states", state)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLogoutHandler(t *testing.T) {
	f := setupFixture(t)
	cookies := f.login(t)

	w := f.do(t, http.MethodGet, "/auth/logout", cookies, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Result().Header.Get("Location"))

	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, "identity", cleared[0].Name)
	require.Negative(t, cleared[0].MaxAge)

	// The cached record survives logout; the request is anonymous anyway.
	_, ok, err := f.cache.Get(context.Background(), "session:"+testUsername)
	require.NoError(t, err)
	require.True(t, ok)

	unauthenticated := f.do(t, http.MethodGet, "/api/user/info", nil, nil)
	require.Equal(t, http.StatusUnauthorized, unauthenticated.Code)
}
