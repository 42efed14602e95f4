package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

// IndexHandler reports whether the request is authenticated and for whom.
func (s *Server) IndexHandler() http.HandlerFunc {
	type statusResponse struct {
		AppName       string `json:"app_name"`
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := statusResponse{AppName: s.config.GetAppName()}
		if username, ok := s.identity.Current(r); ok {
			status.Authenticated = true
			status.Username = username
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(status)
	}
}

// UserInfoHandler is the protected resource: it resolves the identity,
// loads the session (refreshing a stale access token transparently) and
// fetches the subject's profile from the authorization server with the
// live token.
func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := s.identity.Current(r)
		if !ok {
			// Anonymous - no session lookup is attempted.
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}

		sessionData, err := s.sessions.Load(r.Context(), username)
		if err != nil {
			s.rejectSession(w, r, username, err)
			return
		}

		accessToken, err := s.sessions.AccessToken(sessionData)
		if err != nil {
			s.rejectSession(w, r, username, err)
			return
		}

		userInfo, err := s.oauth.UserInfo(r.Context(), username, accessToken)
		if err != nil {
			log.Err(err).Str("username", username).Msg("user info fetch failed")
			http.Error(w, "Error querying authentication server - please try again", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(userInfo)
	}
}

// rejectSession maps session load failures onto responses. Every branch
// is a coarse authentication failure: internal detail (key material,
// remote responses) never reaches the client.
func (s *Server) rejectSession(w http.ResponseWriter, r *http.Request, username string, err error) {
	switch {
	case errors.Is(err, errors.ErrSessionNotFound):
		// Identity bound but no record - treat as anonymous.
		s.identity.Unbind(w)
		http.Error(w, "Not logged in", http.StatusUnauthorized)
	case errors.Is(err, errors.ErrCrypto):
		// Tampered or corrupt record; it has been discarded, force a
		// fresh login.
		log.Warn().Str("username", username).Msg("session record failed decryption, forcing re-authentication")
		if err := s.sessions.Delete(r.Context(), username); err != nil {
			log.Err(err).Str("username", username).Msg("failed to delete undecryptable session record")
		}
		s.identity.Unbind(w)
		http.Error(w, "Session invalid - please log in again", http.StatusUnauthorized)
	default:
		// Refresh failed (remote rejection or unreachable server). Not
		// silently "still authenticated with a stale token".
		log.Err(err).Str("username", username).Msg("session load failed")
		http.Error(w, "Authentication failed - please log in again", http.StatusUnauthorized)
	}
}
