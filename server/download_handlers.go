package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oauth-client/internal/errors"
)

// ResumeLinkHandler issues an expiring download link. The token lives in
// the same TTL-ranked cache as the CSRF states but is validate-only:
// the link stays usable until it expires.
func (s *Server) ResumeLinkHandler() http.HandlerFunc {
	type linkResponse struct {
		URL string `json:"url"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.downloadLinks.Issue(r.Context())
		if err != nil {
			log.Err(err).Msg("failed to issue download link")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(linkResponse{URL: fmt.Sprintf("/download/%s/resume.pdf", token)})
	}
}

// DownloadResumeHandler validates a link token against the cache and
// streams the resume PDF.
func (s *Server) DownloadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.PathValue("token")

		if err := s.downloadLinks.Validate(r.Context(), token); err != nil {
			if !errors.Is(err, errors.ErrInvalidOrExpiredState) {
				log.Err(err).Msg("download link validation failed")
			}
			http.Error(w, "Link invalid or expired", http.StatusNotFound)
			return
		}

		filePath := filepath.Join(s.config.GetDataFolder(), s.config.GetResumeFileName()+".pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
		http.ServeFile(w, r, filePath)
	}
}
