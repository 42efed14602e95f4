package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (s *Server) StdMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
	}
}

func (s *Server) InternalMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return append(s.StdMiddleware(), s.VerifyAPIKeyMiddleware)
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env != "DEV" {
			next(w, r)
			return
		}
		logRoute(r.Method, r.URL.Path)
		next(w, r)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("recovered from panic in handler")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

// VerifyAPIKeyMiddleware guards the /internal scope with a shared key
// carried in the apiKey header. The scope is disabled entirely when no
// key is configured.
func (s *Server) VerifyAPIKeyMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey := s.config.GetAPIKey()
		if apiKey == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}

		supplied := r.Header.Get("apiKey")
		if supplied == "" {
			log.Warn().Str("path", r.URL.Path).Msg("no API key supplied")
			http.Error(w, "Auth credentials not supplied", http.StatusBadRequest)
			return
		}
		if supplied != apiKey {
			log.Warn().Str("path", r.URL.Path).Msg("unauthorized internal request")
			http.Error(w, "Authentication failed", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
