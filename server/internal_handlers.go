package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// PurgeSessionHandler eagerly deletes a subject's cached session record.
// Logout only unbinds the identity cookie; this is the operator's kill
// switch for the record itself.
func (s *Server) PurgeSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")
		if username == "" {
			http.Error(w, "Username is required", http.StatusBadRequest)
			return
		}

		if err := s.sessions.Delete(r.Context(), username); err != nil {
			log.Err(err).Str("username", username).Msg("failed to purge session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info().Str("username", username).Msg("session purged")
		w.WriteHeader(http.StatusNoContent)
	}
}
