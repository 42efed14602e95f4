package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jrsteele09/go-oauth-client/cache"
	"github.com/jrsteele09/go-oauth-client/encryption"
	"github.com/jrsteele09/go-oauth-client/identity"
	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/oauth"
	"github.com/jrsteele09/go-oauth-client/session"
	"github.com/jrsteele09/go-oauth-client/statetoken"
)

const (
	// stateSet holds the CSRF states round-tripped through the
	// authorization server
	stateSet = "states"
	// downloadLinkSet holds expiring resume download link tokens
	downloadLinkSet = "pdf_links"
)

type Server struct {
	env           string // Environment (e.g., "DEV", "production")
	mux           *http.ServeMux
	routes        []string
	config        config.Config
	oauth         *oauth.Client
	sessions      *session.Store
	identity      identity.Provider
	loginStates   *statetoken.Manager
	downloadLinks *statetoken.Manager
}

func New(cfg config.Config, c cache.Cache) (*Server, error) {
	key, err := cfg.GetEncryptionKey()
	if err != nil {
		return nil, fmt.Errorf("[server New] encryption key: %w", err)
	}
	cipher, err := encryption.New(key)
	if err != nil {
		return nil, fmt.Errorf("[server New] create cipher: %w", err)
	}

	oauthClient := oauth.New(cfg)

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		oauth:    oauthClient,
		sessions: session.NewStore(c, cipher, oauthClient),
		identity: identity.NewCookieProvider(cipher),
		loginStates: statetoken.New(c, stateSet, cfg.GetStateTTL(), func() string {
			return statetoken.RandomToken(cfg.GetStateLength())
		}),
		downloadLinks: statetoken.New(c, downloadLinkSet, cfg.GetStateTTL(), uuid.NewString),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
