package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.StdMiddleware()...))

	// LOGIN / CALLBACK / LOGOUT
	s.RegisterRouteHandler("GET "+RouteAuthLogin, ChainMiddleware(s.LoginRedirectHandler(), s.StdMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.StdMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.StdMiddleware()...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteUserInfo, ChainMiddleware(s.UserInfoHandler(), s.StdMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteResumeLink, ChainMiddleware(s.ResumeLinkHandler(), s.StdMiddleware()...))

	// Expiring download links
	s.RegisterRouteHandler("GET "+RouteDownloadResume, ChainMiddleware(s.DownloadResumeHandler(), s.StdMiddleware()...))

	// Internal routes (require the shared API key)
	s.RegisterRouteHandler("DELETE "+RouteInternalSessionPurge,
		ChainMiddleware(s.PurgeSessionHandler(), s.InternalMiddleware()...))
}
