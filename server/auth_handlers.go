package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/oauth"
)

// LoginRedirectHandler starts the Authorization Code flow: issue a CSRF
// state and send the browser to the authorization server. A request
// from an already-authenticated browser short-circuits to the remote
// profile page instead of re-authenticating.
func (s *Server) LoginRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.identity.Current(r); ok {
			http.Redirect(w, r, s.oauth.ProfileURL(), http.StatusFound)
			return
		}

		state, err := s.loginStates.Issue(r.Context())
		if err != nil {
			log.Err(err).Msg("failed to issue login state")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, s.oauth.LoginURL(state), http.StatusFound)
	}
}

// OAuthCallbackHandler completes the flow: validate and consume the
// CSRF state, exchange the authorization code, persist the session and
// bind the local identity.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")

		// Consume before exchanging: the state is single-use from the
		// moment it passes validation, whatever happens downstream.
		// Absent, expired and missing states all produce the same
		// response so the callback cannot be used to enumerate states.
		if err := s.loginStates.Consume(r.Context(), state); err != nil {
			if !errors.Is(err, errors.ErrInvalidOrExpiredState) {
				log.Err(err).Msg("state validation failed")
			}
			http.Error(w, "OAuth credentials are invalid or expired", http.StatusUnauthorized)
			return
		}

		if code == "" {
			http.Error(w, "OAuth credentials are invalid or expired", http.StatusUnauthorized)
			return
		}

		tokenResponse, err := s.oauth.Exchange(r.Context(), oauth.GrantAuthorizationCode, code)
		if err != nil {
			// No partial session is written: the save below only runs
			// after a successful exchange. Remote detail stays in the
			// logs, never in the response.
			log.Err(err).Msg("authorization code exchange failed")
			http.Error(w, "Authentication failed - please try again", http.StatusUnauthorized)
			return
		}

		if err := s.sessions.Save(r.Context(), tokenResponse); err != nil {
			log.Err(err).Msg("failed to persist session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := s.identity.Bind(w, r, tokenResponse.Username); err != nil {
			log.Err(err).Msg("failed to bind identity")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info().Str("username", tokenResponse.Username).Msg("user logged in")
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// LogoutHandler unbinds the local identity. The cached session record is
// left to be overwritten by the next login; eager removal is available
// through the internal purge endpoint.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if username, ok := s.identity.Current(r); ok {
			log.Info().Str("username", username).Msg("user logged out")
		}
		s.identity.Unbind(w)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
